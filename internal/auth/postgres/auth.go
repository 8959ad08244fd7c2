package postgres

import (
	"time"

	"github.com/skillz-hq/skillz/internal/audit"
	"github.com/skillz-hq/skillz/internal/auth"
	skillsDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/skills"
	userDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type AuthRepository struct {
	db    *gorm.DB
	audit audit.Writer
}

func NewAuthRepository(db *gorm.DB, auditWriter audit.Writer) auth.RepositoryAPI {
	return &AuthRepository{db: db, audit: auditWriter}
}

func (r *AuthRepository) GetUserByEmail(email string) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetUserByID(id int64) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) UpdateLastLogin(userID int64, at time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error
}

// SetConsent flips the flag and, on revocation, deletes the user's skill
// assignments. The audit entry commits or rolls back with the change.
func (r *AuthRepository) SetConsent(userID int64, accepted bool, entry audit.Entry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userDatamodel.User{}).
			Where("id = ?", userID).
			Update("accepted_privacy", accepted).Error; err != nil {
			return err
		}

		if !accepted {
			if err := tx.Where("user_id = ?", userID).
				Delete(&skillsDatamodel.UserSkill{}).Error; err != nil {
				return err
			}
		}

		return r.audit.Append(tx, entry)
	})
}
