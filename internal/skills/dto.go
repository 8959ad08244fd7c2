package skills

import (
	errors "github.com/skillz-hq/skillz/internal"
)

// SetSkillDTO is the JSON body of POST /set_skill.
type SetSkillDTO struct {
	SkillID int64 `json:"skill_id"`
	Level   *int  `json:"level"`
}

func (dto SetSkillDTO) Validate() error {
	if dto.SkillID == 0 {
		return errors.NewValidationFieldError("skill_id", "skill_id is required", errors.ErrCodeValidationFailed)
	}
	if dto.Level == nil {
		return errors.NewValidationFieldError("level", "level is required", errors.ErrCodeValidationFailed)
	}
	if *dto.Level < MinLevel || *dto.Level > MaxLevel {
		return errors.NewValidationFieldError("level", "level must be between 0 and 5", errors.ErrCodeInvalidLevel)
	}
	return nil
}

// GroupedSkill is one entry of the grouped my-skills view.
type GroupedSkill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// CategoryGroup pairs a category path with the skills rated under it.
type CategoryGroup struct {
	Category string         `json:"category"`
	Skills   []GroupedSkill `json:"skills"`
}

// OverlaySkill is a catalog skill with the current user's level marked.
type OverlaySkill struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
	Level   int    `json:"level"`
}

// OverlayCategory mirrors the catalog forest with per-skill user levels.
type OverlayCategory struct {
	ID       int64              `json:"id"`
	Name     string             `json:"name"`
	Children []*OverlayCategory `json:"children,omitempty"`
	Skills   []OverlaySkill     `json:"skills,omitempty"`
}
