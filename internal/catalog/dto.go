package catalog

import (
	errors "github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/core/common/validation"
)

// CreateCategoryDTO accepts an optional parent; a nil or zero parent id
// creates a root category.
type CreateCategoryDTO struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

func (dto CreateCategoryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLen(120, errors.ErrCodeValidationFailed)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type DeleteCategoryDTO struct {
	CategoryID int64 `json:"category_id"`
}

func (dto DeleteCategoryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("category_id", dto.CategoryID).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type CreateSkillDTO struct {
	Name string `json:"name"`
}

func (dto CreateSkillDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLen(120, errors.ErrCodeValidationFailed)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type DeleteSkillDTO struct {
	SkillID int64 `json:"skill_id"`
}

func (dto DeleteSkillDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("skill_id", dto.SkillID).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// CategoryResponse is the per-category admin view with its directly owned
// skills and their usage stats.
type CategoryResponse struct {
	Category *Category `json:"category"`
	Skills   []*Skill  `json:"skills"`
}
