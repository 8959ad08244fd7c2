package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skillz-hq/skillz/internal"
	auditpkg "github.com/skillz-hq/skillz/internal/audit"
	userDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*internal.Session, error)
	AcceptPrivacy(sess *internal.Session) (*internal.Session, error)
	RevokePrivacy(sess *internal.Session) (*internal.Session, error)
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	GetUserByEmail(email string) (*userDatamodel.User, error)
	GetUserByID(id int64) (*userDatamodel.User, error)
	UpdateLastLogin(userID int64, at time.Time) error
	// SetConsent flips accepted_privacy; revoking also deletes the user's
	// skill assignments, all in one transaction with the audit entry.
	SetConsent(userID int64, accepted bool, entry auditpkg.Entry) error
}

// SessionClaims is the JWT payload carried by the session cookie. It holds
// the full session identity so the gate can decide without a database read.
type SessionClaims struct {
	UserID          int64  `json:"user_id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	Role            string `json:"role"`
	AcceptedPrivacy bool   `json:"accepted_privacy"`
	jwt.RegisteredClaims
}

func (c *SessionClaims) Session() *internal.Session {
	return &internal.Session{
		UserID:          c.UserID,
		Email:           c.Email,
		Name:            c.Name,
		Surname:         c.Surname,
		Role:            c.Role,
		AcceptedPrivacy: c.AcceptedPrivacy,
	}
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
)

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func sessionFor(u *userDatamodel.User) *internal.Session {
	return &internal.Session{
		UserID:          u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Surname:         u.Surname,
		Role:            u.Role,
		AcceptedPrivacy: u.AcceptedPrivacy,
	}
}
