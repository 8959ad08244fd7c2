package skills

import (
	skillsDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/skills"
)

// Levels are self-assessed integers; zero means "unassigned" and is never
// persisted as a row.
const (
	MinLevel = 0
	MaxLevel = 5
)

// UserSkillInfo is one aggregated entry for a user: the skill, its numeric
// level and the slash-joined root-to-leaf category path.
type UserSkillInfo struct {
	SkillID   int64  `json:"skill_id"`
	SkillName string `json:"skill_name"`
	Category  string `json:"category"`
	Level     int    `json:"level"`
}

// SkillRating is one user's entry in the per-skill ranking.
type SkillRating struct {
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Level   int    `json:"level"`
}

// AssignmentFromDataModel converts a stored row to its domain view.
func AssignmentFromDataModel(row *skillsDatamodel.UserSkill) Assignment {
	return Assignment{
		UserID:  row.UserID,
		SkillID: row.SkillID,
		Level:   row.Level,
	}
}

// Assignment is the domain view of one stored user-skill row.
type Assignment struct {
	UserID  int64 `json:"user_id"`
	SkillID int64 `json:"skill_id"`
	Level   int   `json:"level"`
}
