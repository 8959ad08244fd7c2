package postgres

import (
	"github.com/skillz-hq/skillz/internal/audit"
	"github.com/skillz-hq/skillz/internal/catalog"
	catalogDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/catalog"
	skillsDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/skills"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	db    *gorm.DB
	audit audit.Writer
}

func NewCatalogRepository(db *gorm.DB, auditWriter audit.Writer) catalog.RepositoryAPI {
	return &CatalogRepository{db: db, audit: auditWriter}
}

func (r *CatalogRepository) GetAllCategories() ([]*catalogDatamodel.Category, error) {
	var categories []*catalogDatamodel.Category
	err := r.db.Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *CatalogRepository) GetCategoryByID(id int64) (*catalogDatamodel.Category, error) {
	var cat catalogDatamodel.Category
	err := r.db.Where("id = ?", id).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CatalogRepository) GetCategoryByName(name string) (*catalogDatamodel.Category, error) {
	var cat catalogDatamodel.Category
	err := r.db.Where("name = ?", name).First(&cat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CatalogRepository) CountChildren(categoryID int64) (int64, error) {
	var count int64
	err := r.db.Model(&catalogDatamodel.Category{}).Where("parent_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *CatalogRepository) CountSkills(categoryID int64) (int64, error) {
	var count int64
	err := r.db.Model(&catalogDatamodel.Skill{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *CatalogRepository) GetAllSkills() ([]*catalogDatamodel.Skill, error) {
	var skills []*catalogDatamodel.Skill
	err := r.db.Order("name ASC").Find(&skills).Error
	return skills, err
}

func (r *CatalogRepository) GetSkillByID(id int64) (*catalogDatamodel.Skill, error) {
	var skill catalogDatamodel.Skill
	err := r.db.Where("id = ?", id).First(&skill).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &skill, nil
}

func (r *CatalogRepository) GetSkillByName(name string) (*catalogDatamodel.Skill, error) {
	var skill catalogDatamodel.Skill
	err := r.db.Where("name = ?", name).First(&skill).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &skill, nil
}

func (r *CatalogRepository) GetSkillsByCategory(categoryID int64) ([]*catalogDatamodel.Skill, error) {
	var skills []*catalogDatamodel.Skill
	err := r.db.Where("category_id = ?", categoryID).Order("name ASC").Find(&skills).Error
	return skills, err
}

func (r *CatalogRepository) SkillStats(skillID int64) (int64, float64, error) {
	var count int64
	err := r.db.Model(&skillsDatamodel.UserSkill{}).Where("skill_id = ?", skillID).Count(&count).Error
	if err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}

	var avg float64
	err = r.db.Model(&skillsDatamodel.UserSkill{}).
		Where("skill_id = ?", skillID).
		Select("AVG(level)").
		Scan(&avg).Error
	return count, avg, err
}

func (r *CatalogRepository) CreateCategory(cat *catalogDatamodel.Category, entry audit.Entry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cat).Error; err != nil {
			return err
		}
		entry.Data["category_id"] = cat.ID
		return r.audit.Append(tx, entry)
	})
}

// DeleteCategoryTree deletes the subtree in the given (deepest-first) order.
// For each category the user-skill rows go first, then the skills, then the
// category row itself, so no foreign reference dangles at any point.
func (r *CatalogRepository) DeleteCategoryTree(categoryIDs []int64, entries []audit.Entry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range categoryIDs {
			err := tx.Where("skill_id IN (?)",
				tx.Session(&gorm.Session{NewDB: true}).
					Model(&catalogDatamodel.Skill{}).
					Select("id").
					Where("category_id = ?", id),
			).Delete(&skillsDatamodel.UserSkill{}).Error
			if err != nil {
				return err
			}

			if err := tx.Where("category_id = ?", id).Delete(&catalogDatamodel.Skill{}).Error; err != nil {
				return err
			}

			if err := tx.Where("id = ?", id).Delete(&catalogDatamodel.Category{}).Error; err != nil {
				return err
			}
		}

		for _, entry := range entries {
			if err := r.audit.Append(tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CatalogRepository) CreateSkill(skill *catalogDatamodel.Skill, entry audit.Entry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(skill).Error; err != nil {
			return err
		}
		entry.Data["skill_id"] = skill.ID
		return r.audit.Append(tx, entry)
	})
}

func (r *CatalogRepository) DeleteSkill(id int64, entry audit.Entry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("skill_id = ?", id).Delete(&skillsDatamodel.UserSkill{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&catalogDatamodel.Skill{}).Error; err != nil {
			return err
		}
		return r.audit.Append(tx, entry)
	})
}
