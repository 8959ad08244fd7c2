package user

import (
	"log/slog"

	errors "github.com/skillz-hq/skillz/internal"
	auditpkg "github.com/skillz-hq/skillz/internal/audit"
	userDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/user"
)

// Bootstrap credentials for the first admin. Created only on an empty
// install, meant to be changed immediately afterwards.
const (
	BootstrapAdminEmail    = "admin@admin.it"
	BootstrapAdminPassword = "admin"
)

type RepositoryAPI interface {
	GetAllUsers() ([]*userDatamodel.User, error)
	GetUserByID(id int64) (*userDatamodel.User, error)
	GetUserByEmail(email string) (*userDatamodel.User, error)
	Count() (int64, error)
	CreateUser(user *userDatamodel.User, entry auditpkg.Entry) error
	SetSenior(userID int64, senior bool, entry auditpkg.Entry) error
}

// PasswordAPI hashes passwords for new accounts. Satisfied by the auth
// service so the cost setting lives in one place.
type PasswordAPI interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo      RepositoryAPI
	passwords PasswordAPI
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, passwords PasswordAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
}

func (s *Service) ListUsers() ([]*User, error) {
	rows, err := s.repo.GetAllUsers()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) CreateUser(sess *errors.Session, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetUserByEmail(dto.Email)
	if err != nil {
		s.logger.Error("failed to check email", "error", err)
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewConflictError("email already registered", errors.ErrCodeEmailExists)
	}

	hash, err := s.passwords.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}

	row := &userDatamodel.User{
		Email:        dto.Email,
		Name:         dto.Name,
		Surname:      dto.Surname,
		PasswordHash: hash,
		Role:         dto.Role,
	}
	entry := auditpkg.Entry{
		ActorID: actorID(sess),
		Action:  auditpkg.ActionCreateUser,
		Data: map[string]interface{}{
			"email": dto.Email,
			"role":  dto.Role,
		},
	}
	if err := s.repo.CreateUser(row, entry); err != nil {
		s.logger.Error("failed to create user", "email", dto.Email, "error", err)
		return nil, err
	}

	s.logger.Info("user created", "user_id", row.ID, "email", row.Email, "role", row.Role)
	return FromDataModel(row), nil
}

// Install creates the bootstrap admin on an empty database. On a populated
// database it does nothing; the endpoint stays safe to hit repeatedly.
func (s *Service) Install() (bool, error) {
	count, err := s.repo.Count()
	if err != nil {
		s.logger.Error("failed to count users", "error", err)
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := s.passwords.HashPassword(BootstrapAdminPassword)
	if err != nil {
		return false, err
	}
	row := &userDatamodel.User{
		Email:           BootstrapAdminEmail,
		Name:            "Admin",
		Surname:         "Admin",
		PasswordHash:    hash,
		Role:            errors.RoleAdmin,
		AcceptedPrivacy: true,
	}
	entry := auditpkg.Entry{
		Action: auditpkg.ActionCreateAdmin,
		Data: map[string]interface{}{
			"email": BootstrapAdminEmail,
		},
	}
	if err := s.repo.CreateUser(row, entry); err != nil {
		s.logger.Error("failed to create bootstrap admin", "error", err)
		return false, err
	}

	s.logger.Info("bootstrap admin created", "user_id", row.ID)
	return true, nil
}

// ToggleSenior flips the senior flag on an account.
func (s *Service) ToggleSenior(sess *errors.Session, userID int64) (*User, error) {
	row, err := s.repo.GetUserByID(userID)
	if err != nil {
		s.logger.Error("failed to load user", "user_id", userID, "error", err)
		return nil, err
	}
	if row == nil {
		return nil, errors.ErrUserNotFound
	}

	entry := auditpkg.Entry{
		ActorID: actorID(sess),
		Action:  auditpkg.ActionToggleSenior,
		Data: map[string]interface{}{
			"user_id": userID,
			"senior":  !row.Senior,
		},
	}
	if err := s.repo.SetSenior(userID, !row.Senior, entry); err != nil {
		s.logger.Error("failed to toggle senior flag", "user_id", userID, "error", err)
		return nil, err
	}

	row.Senior = !row.Senior
	return FromDataModel(row), nil
}

func actorID(sess *errors.Session) *int64 {
	if sess == nil {
		return nil
	}
	id := sess.UserID
	return &id
}
