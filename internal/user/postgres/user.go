package postgres

import (
	"github.com/skillz-hq/skillz/internal/audit"
	userDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/user"
	"github.com/skillz-hq/skillz/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db    *gorm.DB
	audit audit.Writer
}

func NewUserRepository(db *gorm.DB, auditWriter audit.Writer) user.RepositoryAPI {
	return &UserRepository{db: db, audit: auditWriter}
}

func (r *UserRepository) GetAllUsers() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Order("surname ASC, name ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetUserByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetUserByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepository) CreateUser(u *userDatamodel.User, entry audit.Entry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		entry.Data["user_id"] = u.ID
		return r.audit.Append(tx, entry)
	})
}

func (r *UserRepository) SetSenior(userID int64, senior bool, entry audit.Entry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userDatamodel.User{}).
			Where("id = ?", userID).
			Update("senior", senior).Error; err != nil {
			return err
		}
		return r.audit.Append(tx, entry)
	})
}
