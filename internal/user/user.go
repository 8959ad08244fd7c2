package user

import (
	"time"

	userDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/user"
)

// User is the domain view of an account, without the password hash.
type User struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Surname         string     `json:"surname"`
	Role            string     `json:"role"`
	AcceptedPrivacy bool       `json:"accepted_privacy"`
	Senior          bool       `json:"senior"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
}

// FormatLastLogin renders the last login date for listings, or an empty
// string for accounts that never logged in.
func (u *User) FormatLastLogin() string {
	if u.LastLogin == nil {
		return ""
	}
	return u.LastLogin.Format("2006-01-02")
}

func FromDataModel(dm *userDatamodel.User) *User {
	if dm == nil {
		return nil
	}
	return &User{
		ID:              dm.ID,
		Email:           dm.Email,
		Name:            dm.Name,
		Surname:         dm.Surname,
		Role:            dm.Role,
		AcceptedPrivacy: dm.AcceptedPrivacy,
		Senior:          dm.Senior,
		LastLogin:       dm.LastLogin,
	}
}
