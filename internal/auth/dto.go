package auth

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PrivacyDTO accepts the consent grant form.
type PrivacyDTO struct {
	AcceptedPrivacy bool `json:"accepted_privacy"`
}

// RemovePrivacyDTO accepts the consent revocation form.
type RemovePrivacyDTO struct {
	RevokeConsent bool `json:"revoke_consent"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}
