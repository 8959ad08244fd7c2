package catalog

import (
	catalogDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/catalog"
)

// Category is a taxonomy node with its assembled children. Children are only
// populated by the tree builder; a freshly converted category is flat.
type Category struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	ParentID *int64      `json:"parent_id,omitempty"`
	Children []*Category `json:"children,omitempty"`
	Skills   []*Skill    `json:"skills,omitempty"`
}

func (c *Category) IsLeaf() bool {
	return len(c.Children) == 0
}

// Skill is a leaf-level catalog entry. UserCount and AvgLevel are only filled
// by the per-category listing.
type Skill struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	CategoryID int64   `json:"category_id"`
	UserCount  int64   `json:"user_count,omitempty"`
	AvgLevel   float64 `json:"avg_level,omitempty"`
}

func FromDataModel(c *catalogDatamodel.Category) *Category {
	return &Category{
		ID:       c.ID,
		Name:     c.Name,
		ParentID: c.ParentID,
	}
}

func SkillFromDataModel(s *catalogDatamodel.Skill) *Skill {
	return &Skill{
		ID:         s.ID,
		Name:       s.Name,
		CategoryID: s.CategoryID,
	}
}
