package skills

import (
	"log/slog"
	"strings"

	"github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/audit"
	"github.com/skillz-hq/skillz/internal/catalog"
	skillsDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/skills"
)

// RepositoryAPI persists user-skill assignments. Mutations carry their audit
// entry into the repository transaction.
type RepositoryAPI interface {
	GetByUser(userID int64) ([]*skillsDatamodel.UserSkill, error)
	Get(userID, skillID int64) (*skillsDatamodel.UserSkill, error)
	GetRatings(skillID int64) ([]*SkillRating, error)
	Upsert(row *skillsDatamodel.UserSkill, entry audit.Entry) error
	DeleteAssignment(userID, skillID int64, entry audit.Entry) error
}

// CatalogAPI is the slice of the catalog service the aggregator needs.
type CatalogAPI interface {
	Categories() ([]*catalog.Category, error)
	Skills() ([]*catalog.Skill, error)
	Skill(id int64) (*catalog.Skill, error)
	Forest(withSkills bool) ([]*catalog.Category, error)
}

type Service struct {
	repo    RepositoryAPI
	catalog CatalogAPI
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, catalogAPI CatalogAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalogAPI,
		logger:  logger,
	}
}

// Aggregate returns every skill the user has rated, each with its full
// root-to-leaf category path joined by " / ".
func (s *Service) Aggregate(userID int64) ([]UserSkillInfo, error) {
	rows, err := s.repo.GetByUser(userID)
	if err != nil {
		s.logger.Error("failed to load user skills", "error", err, "user_id", userID)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cats, err := s.catalog.Categories()
	if err != nil {
		return nil, err
	}
	allSkills, err := s.catalog.Skills()
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*catalog.Skill, len(allSkills))
	for _, sk := range allSkills {
		byID[sk.ID] = sk
	}

	infos := make([]UserSkillInfo, 0, len(rows))
	for _, row := range rows {
		sk, ok := byID[row.SkillID]
		if !ok {
			s.logger.Warn("user skill references missing skill", "user_id", userID, "skill_id", row.SkillID)
			continue
		}
		path := strings.Join(catalog.PathSegments(cats, sk.CategoryID), " / ")
		infos = append(infos, UserSkillInfo{
			SkillID:   sk.ID,
			SkillName: sk.Name,
			Category:  path,
			Level:     row.Level,
		})
	}
	return infos, nil
}

// GroupByCategory is a pure reshaping of the aggregate: category path to the
// skills under it, every entry preserved exactly once, group order following
// first appearance.
func GroupByCategory(infos []UserSkillInfo) []CategoryGroup {
	index := make(map[string]int, len(infos))
	var groups []CategoryGroup

	for _, info := range infos {
		i, ok := index[info.Category]
		if !ok {
			i = len(groups)
			index[info.Category] = i
			groups = append(groups, CategoryGroup{Category: info.Category})
		}
		groups[i].Skills = append(groups[i].Skills, GroupedSkill{Name: info.SkillName, Level: info.Level})
	}
	return groups
}

// Overlay returns the full catalog forest with the user's levels marked on
// each skill; unrated skills show level 0 and checked false.
func (s *Service) Overlay(userID int64) ([]*OverlayCategory, error) {
	forest, err := s.catalog.Forest(true)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetByUser(userID)
	if err != nil {
		s.logger.Error("failed to load user skills", "error", err, "user_id", userID)
		return nil, err
	}
	levels := make(map[int64]int, len(rows))
	for _, row := range rows {
		levels[row.SkillID] = row.Level
	}

	return overlayForest(forest, levels), nil
}

func overlayForest(forest []*catalog.Category, levels map[int64]int) []*OverlayCategory {
	type frame struct {
		src *catalog.Category
		dst *OverlayCategory
	}

	out := make([]*OverlayCategory, 0, len(forest))
	var stack []frame
	for _, root := range forest {
		dst := newOverlayNode(root, levels)
		out = append(out, dst)
		stack = append(stack, frame{src: root, dst: dst})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range f.src.Children {
			dst := newOverlayNode(child, levels)
			f.dst.Children = append(f.dst.Children, dst)
			stack = append(stack, frame{src: child, dst: dst})
		}
	}
	return out
}

func newOverlayNode(c *catalog.Category, levels map[int64]int) *OverlayCategory {
	node := &OverlayCategory{ID: c.ID, Name: c.Name}
	for _, sk := range c.Skills {
		level, checked := levels[sk.ID]
		node.Skills = append(node.Skills, OverlaySkill{
			ID:      sk.ID,
			Name:    sk.Name,
			Checked: checked,
			Level:   level,
		})
	}
	return node
}

// SetLevel applies one level-set operation: 0 removes any existing
// assignment, 1..5 creates or updates the row. The operation is idempotent.
func (s *Service) SetLevel(sess *internal.Session, dto SetSkillDTO) (*Assignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	level := *dto.Level

	sk, err := s.catalog.Skill(dto.SkillID)
	if err != nil {
		s.logger.Error("failed to load skill", "error", err, "skill_id", dto.SkillID)
		return nil, err
	}
	if sk == nil {
		return nil, internal.ErrSkillNotFound
	}

	existing, err := s.repo.Get(sess.UserID, dto.SkillID)
	if err != nil {
		s.logger.Error("failed to load assignment", "error", err, "user_id", sess.UserID, "skill_id", dto.SkillID)
		return nil, err
	}

	entry := audit.Entry{
		ActorID: &sess.UserID,
		Action:  audit.ActionSetSkillLevel,
		Data: map[string]interface{}{
			"skill_id": dto.SkillID,
			"level":    level,
		},
	}

	if level == 0 {
		if existing != nil {
			if err := s.repo.DeleteAssignment(sess.UserID, dto.SkillID, entry); err != nil {
				s.logger.Error("failed to delete assignment", "error", err, "user_id", sess.UserID, "skill_id", dto.SkillID)
				return nil, err
			}
		}
		return &Assignment{UserID: sess.UserID, SkillID: dto.SkillID, Level: 0}, nil
	}

	row := &skillsDatamodel.UserSkill{UserID: sess.UserID, SkillID: dto.SkillID, Level: level}
	if existing != nil {
		if existing.Level == level {
			// already in the requested state
			a := AssignmentFromDataModel(existing)
			return &a, nil
		}
		row.ID = existing.ID
	}

	if err := s.repo.Upsert(row, entry); err != nil {
		s.logger.Error("failed to set level", "error", err, "user_id", sess.UserID, "skill_id", dto.SkillID)
		return nil, err
	}

	s.logger.Info("skill level set", "user_id", sess.UserID, "skill_id", dto.SkillID, "level", level)
	a := AssignmentFromDataModel(row)
	return &a, nil
}

// SkillDetails returns the skill plus every user holding it, ordered by
// level descending.
func (s *Service) SkillDetails(skillID int64) (*catalog.Skill, []*SkillRating, error) {
	sk, err := s.catalog.Skill(skillID)
	if err != nil {
		s.logger.Error("failed to load skill", "error", err, "skill_id", skillID)
		return nil, nil, err
	}
	if sk == nil {
		return nil, nil, internal.ErrSkillNotFound
	}

	ratings, err := s.repo.GetRatings(skillID)
	if err != nil {
		s.logger.Error("failed to load skill ratings", "error", err, "skill_id", skillID)
		return nil, nil, err
	}
	return sk, ratings, nil
}
