package catalog

import "time"

// Category is one node of the skill taxonomy. The tree shape is encoded only
// through ParentID; child lists are assembled in memory by the tree builder.
type Category struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	ParentID  *int64    `gorm:"column:parent_id"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Category) TableName() string {
	return "categories"
}

// Skill lives under exactly one leaf category. Names are unique across the
// whole catalog, not per category.
type Skill struct {
	ID         int64     `gorm:"primaryKey"`
	Name       string    `gorm:"column:name;uniqueIndex;not null"`
	CategoryID int64     `gorm:"column:category_id;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
}

func (Skill) TableName() string {
	return "skills"
}
