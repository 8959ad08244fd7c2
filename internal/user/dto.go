package user

import (
	errors "github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/core/common/validation"
)

type CreateUserDTO struct {
	Name            string `json:"name"`
	Surname         string `json:"surname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

func (dto CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLen(80, errors.ErrCodeValidationFailed)
	v.Field("surname", dto.Surname).Required().MaxLen(80, errors.ErrCodeValidationFailed)
	v.Field("email", dto.Email).Required().Email(errors.ErrCodeValidationFailed)
	v.Field("password", dto.Password).Required()
	v.Field("role", dto.Role).Required().OneOf([]string{errors.RoleUser, errors.RoleAdmin}, errors.ErrCodeValidationFailed)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	if dto.Password != dto.ConfirmPassword {
		return errors.NewValidationFieldError("confirm_password", "passwords do not match", errors.ErrCodeValidationFailed)
	}
	return nil
}

type ToggleSeniorDTO struct {
	UserID int64 `json:"user_id"`
}

func (dto ToggleSeniorDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("user_id", dto.UserID).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// UserResponse is the admin listing row.
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Role      string `json:"role"`
	Senior    bool   `json:"senior"`
	LastLogin string `json:"last_login"`
}

func toResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Surname:   u.Surname,
		Role:      u.Role,
		Senior:    u.Senior,
		LastLogin: u.FormatLastLogin(),
	}
}
