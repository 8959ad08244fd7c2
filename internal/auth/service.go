package auth

import (
	"log/slog"
	"time"

	"github.com/skillz-hq/skillz/internal"
	auditpkg "github.com/skillz-hq/skillz/internal/audit"
)

type Service struct {
	repo       RepositoryAPI
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo RepositoryAPI, logger *slog.Logger, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Authenticate verifies the credentials and returns the resulting session.
// Unknown email and wrong password collapse into the same error so the
// response does not reveal which addresses exist.
func (s *Service) Authenticate(dto LoginDTO) (*internal.Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(dto.Email)
	if err != nil {
		s.logger.Error("failed to load user by email", "error", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, dto.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(user.ID, time.Now()); err != nil {
		s.logger.Error("failed to stamp last login", "user_id", user.ID, "error", err)
	}

	return sessionFor(user), nil
}

// AcceptPrivacy records consent and returns a refreshed session reflecting it.
func (s *Service) AcceptPrivacy(sess *internal.Session) (*internal.Session, error) {
	entry := auditpkg.Entry{
		ActorID: &sess.UserID,
		Action:  auditpkg.ActionAcceptPrivacy,
		Data: map[string]interface{}{
			"user_id": sess.UserID,
		},
	}
	if err := s.repo.SetConsent(sess.UserID, true, entry); err != nil {
		s.logger.Error("failed to record privacy consent", "user_id", sess.UserID, "error", err)
		return nil, err
	}

	updated := *sess
	updated.AcceptedPrivacy = true
	return &updated, nil
}

// RevokePrivacy withdraws consent. The repository deletes the user's skill
// assignments in the same transaction, since keeping them would contradict
// the withdrawal.
func (s *Service) RevokePrivacy(sess *internal.Session) (*internal.Session, error) {
	entry := auditpkg.Entry{
		ActorID: &sess.UserID,
		Action:  auditpkg.ActionRevokePrivacy,
		Data: map[string]interface{}{
			"user_id": sess.UserID,
		},
	}
	if err := s.repo.SetConsent(sess.UserID, false, entry); err != nil {
		s.logger.Error("failed to revoke privacy consent", "user_id", sess.UserID, "error", err)
		return nil, err
	}

	updated := *sess
	updated.AcceptedPrivacy = false
	return &updated, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}
