package skills

import "time"

// UserSkill records one user's self-assessed level for one skill. A level of
// zero is never stored; zero means the row does not exist.
type UserSkill struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_skill"`
	SkillID   int64     `gorm:"column:skill_id;not null;uniqueIndex:idx_user_skill"`
	Level     int       `gorm:"column:level;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (UserSkill) TableName() string {
	return "user_skills"
}
