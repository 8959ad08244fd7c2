package postgres

import (
	"github.com/skillz-hq/skillz/internal/audit"
	skillsDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/skills"
	"github.com/skillz-hq/skillz/internal/skills"
	"gorm.io/gorm"
)

type UserSkillRepository struct {
	db    *gorm.DB
	audit audit.Writer
}

func NewUserSkillRepository(db *gorm.DB, auditWriter audit.Writer) skills.RepositoryAPI {
	return &UserSkillRepository{db: db, audit: auditWriter}
}

func (r *UserSkillRepository) GetByUser(userID int64) ([]*skillsDatamodel.UserSkill, error) {
	var rows []*skillsDatamodel.UserSkill
	err := r.db.Where("user_id = ?", userID).Order("skill_id ASC").Find(&rows).Error
	return rows, err
}

func (r *UserSkillRepository) Get(userID, skillID int64) (*skillsDatamodel.UserSkill, error) {
	var row skillsDatamodel.UserSkill
	err := r.db.Where("user_id = ? AND skill_id = ?", userID, skillID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *UserSkillRepository) GetRatings(skillID int64) ([]*skills.SkillRating, error) {
	var ratings []*skills.SkillRating
	err := r.db.Model(&skillsDatamodel.UserSkill{}).
		Select("user_skills.user_id, users.name, users.surname, user_skills.level").
		Joins("JOIN users ON users.id = user_skills.user_id").
		Where("user_skills.skill_id = ?", skillID).
		Order("user_skills.level DESC").
		Scan(&ratings).Error
	return ratings, err
}

func (r *UserSkillRepository) Upsert(row *skillsDatamodel.UserSkill, entry audit.Entry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if row.ID != 0 {
			// Only the level may change; created_at keeps the time the
			// skill was first rated.
			err := tx.Model(&skillsDatamodel.UserSkill{}).
				Where("id = ?", row.ID).
				Update("level", row.Level).Error
			if err != nil {
				return err
			}
		} else if err := tx.Create(row).Error; err != nil {
			return err
		}
		return r.audit.Append(tx, entry)
	})
}

func (r *UserSkillRepository) DeleteAssignment(userID, skillID int64, entry audit.Entry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND skill_id = ?", userID, skillID).
			Delete(&skillsDatamodel.UserSkill{}).Error
		if err != nil {
			return err
		}
		return r.audit.Append(tx, entry)
	})
}
