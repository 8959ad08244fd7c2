package catalog

import (
	"log/slog"

	"github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/audit"
	catalogDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/catalog"
)

// RepositoryAPI is the persistence surface for the catalog. Mutating methods
// take the audit entries that must commit in the same transaction as the
// change itself.
type RepositoryAPI interface {
	GetAllCategories() ([]*catalogDatamodel.Category, error)
	GetCategoryByID(id int64) (*catalogDatamodel.Category, error)
	GetCategoryByName(name string) (*catalogDatamodel.Category, error)
	CountChildren(categoryID int64) (int64, error)
	CountSkills(categoryID int64) (int64, error)

	GetAllSkills() ([]*catalogDatamodel.Skill, error)
	GetSkillByID(id int64) (*catalogDatamodel.Skill, error)
	GetSkillByName(name string) (*catalogDatamodel.Skill, error)
	GetSkillsByCategory(categoryID int64) ([]*catalogDatamodel.Skill, error)
	SkillStats(skillID int64) (userCount int64, avgLevel float64, err error)

	CreateCategory(cat *catalogDatamodel.Category, entry audit.Entry) error
	// DeleteCategoryTree deletes the given categories in slice order
	// (deepest-first) together with their skills and user-skill rows, all in
	// one transaction with the audit entries.
	DeleteCategoryTree(categoryIDs []int64, entries []audit.Entry) error
	CreateSkill(skill *catalogDatamodel.Skill, entry audit.Entry) error
	DeleteSkill(id int64, entry audit.Entry) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Forest returns the whole catalog as a rooted forest. With withSkills set,
// each node also carries its directly owned skills ordered by name.
func (s *Service) Forest(withSkills bool) ([]*Category, error) {
	flat, err := s.Categories()
	if err != nil {
		return nil, err
	}

	if withSkills {
		if err := s.attachSkills(flat); err != nil {
			return nil, err
		}
	}

	return BuildForest(flat), nil
}

// CategoryDetail returns one category with its skills and their usage stats,
// for the per-category admin listing.
func (s *Service) CategoryDetail(categoryID int64) (*CategoryResponse, error) {
	cat, err := s.repo.GetCategoryByID(categoryID)
	if err != nil {
		s.logger.Error("failed to load category", "error", err, "category_id", categoryID)
		return nil, err
	}
	if cat == nil {
		return nil, internal.ErrCategoryNotFound
	}

	rows, err := s.repo.GetSkillsByCategory(categoryID)
	if err != nil {
		s.logger.Error("failed to load category skills", "error", err, "category_id", categoryID)
		return nil, err
	}

	skills := make([]*Skill, 0, len(rows))
	for _, row := range rows {
		skill := SkillFromDataModel(row)
		count, avg, err := s.repo.SkillStats(row.ID)
		if err != nil {
			s.logger.Warn("failed to load skill stats", "error", err, "skill_id", row.ID)
		} else {
			skill.UserCount = count
			skill.AvgLevel = avg
		}
		skills = append(skills, skill)
	}

	return &CategoryResponse{
		Category: FromDataModel(cat),
		Skills:   skills,
	}, nil
}

// CreateCategory enforces global name uniqueness and the leaf invariant: a
// parent that already owns skills cannot gain a subcategory.
func (s *Service) CreateCategory(sess *internal.Session, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetCategoryByName(dto.Name)
	if err != nil {
		s.logger.Error("failed to check category name", "error", err, "name", dto.Name)
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Category already exists", internal.ErrCodeCategoryExists)
	}

	parentID := dto.ParentID
	if parentID != nil && *parentID == 0 {
		parentID = nil
	}
	if parentID != nil {
		parent, err := s.repo.GetCategoryByID(*parentID)
		if err != nil {
			s.logger.Error("failed to load parent category", "error", err, "parent_id", *parentID)
			return nil, err
		}
		if parent == nil {
			return nil, internal.ErrCategoryNotFound
		}

		skillCount, err := s.repo.CountSkills(*parentID)
		if err != nil {
			return nil, err
		}
		if skillCount > 0 {
			return nil, internal.NewValidationError(
				"Cannot create subcategory because the parent category has associated skills",
				internal.ErrCodeCategoryHasSkills)
		}
	}

	row := &catalogDatamodel.Category{Name: dto.Name, ParentID: parentID}
	entry := audit.Entry{
		ActorID: actorID(sess),
		Action:  audit.ActionCreateCategory,
		Data:    map[string]interface{}{"name": dto.Name, "parent_id": parentID},
	}
	if err := s.repo.CreateCategory(row, entry); err != nil {
		s.logger.Error("failed to create category", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("category created", "category_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

// DeleteCategory removes the category and its entire subtree: every
// descendant category, every skill under any of them, and every user-skill
// row referencing those skills. The deletion order is deepest-first so no
// dangling reference exists at any step of the walk.
func (s *Service) DeleteCategory(sess *internal.Session, categoryID int64) error {
	flat, err := s.Categories()
	if err != nil {
		return err
	}

	subtree, ok := SubtreeIDs(flat, categoryID)
	if !ok {
		return internal.ErrCategoryNotFound
	}

	var entries []audit.Entry
	for _, id := range subtree {
		skills, err := s.repo.GetSkillsByCategory(id)
		if err != nil {
			s.logger.Error("failed to load skills for cascade", "error", err, "category_id", id)
			return err
		}
		if len(skills) > 0 {
			names := make([]string, len(skills))
			for i, sk := range skills {
				names[i] = sk.Name
			}
			entries = append(entries, audit.Entry{
				ActorID: actorID(sess),
				Action:  audit.ActionDeleteSkill,
				Data:    map[string]interface{}{"category_id": id, "skills": names, "cascade": true},
			})
		}
		entries = append(entries, audit.Entry{
			ActorID: actorID(sess),
			Action:  audit.ActionDeleteCategory,
			Data:    map[string]interface{}{"category_id": id},
		})
	}

	if err := s.repo.DeleteCategoryTree(subtree, entries); err != nil {
		s.logger.Error("failed to delete category tree", "error", err, "category_id", categoryID)
		return err
	}

	s.logger.Info("category deleted", "category_id", categoryID, "subtree_size", len(subtree))
	return nil
}

// CreateSkill only succeeds on a leaf category; a category with children is
// rejected without writing anything.
func (s *Service) CreateSkill(sess *internal.Session, categoryID int64, dto CreateSkillDTO) (*Skill, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cat, err := s.repo.GetCategoryByID(categoryID)
	if err != nil {
		s.logger.Error("failed to load category", "error", err, "category_id", categoryID)
		return nil, err
	}
	if cat == nil {
		return nil, internal.ErrCategoryNotFound
	}

	childCount, err := s.repo.CountChildren(categoryID)
	if err != nil {
		return nil, err
	}
	if childCount > 0 {
		return nil, internal.NewValidationError(
			"Skills can only be created under leaf categories",
			internal.ErrCodeCategoryNotLeaf)
	}

	existing, err := s.repo.GetSkillByName(dto.Name)
	if err != nil {
		s.logger.Error("failed to check skill name", "error", err, "name", dto.Name)
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Skill already exists", internal.ErrCodeSkillExists)
	}

	row := &catalogDatamodel.Skill{Name: dto.Name, CategoryID: categoryID}
	entry := audit.Entry{
		ActorID: actorID(sess),
		Action:  audit.ActionCreateSkill,
		Data:    map[string]interface{}{"name": dto.Name, "category_id": categoryID},
	}
	if err := s.repo.CreateSkill(row, entry); err != nil {
		s.logger.Error("failed to create skill", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("skill created", "skill_id", row.ID, "name", row.Name, "category_id", categoryID)
	return SkillFromDataModel(row), nil
}

// DeleteSkill purges dependent user-skill rows first, then the skill. The
// audit entry captures id and name before the row is gone.
func (s *Service) DeleteSkill(sess *internal.Session, skillID int64) (*Skill, error) {
	row, err := s.repo.GetSkillByID(skillID)
	if err != nil {
		s.logger.Error("failed to load skill", "error", err, "skill_id", skillID)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrSkillNotFound
	}

	entry := audit.Entry{
		ActorID: actorID(sess),
		Action:  audit.ActionDeleteSkill,
		Data:    map[string]interface{}{"skill_id": row.ID, "name": row.Name},
	}
	if err := s.repo.DeleteSkill(skillID, entry); err != nil {
		s.logger.Error("failed to delete skill", "error", err, "skill_id", skillID)
		return nil, err
	}

	s.logger.Info("skill deleted", "skill_id", skillID, "name", row.Name)
	return SkillFromDataModel(row), nil
}

// Categories returns the flat category list in id order.
func (s *Service) Categories() ([]*Category, error) {
	rows, err := s.repo.GetAllCategories()
	if err != nil {
		s.logger.Error("failed to load categories", "error", err)
		return nil, err
	}

	flat := make([]*Category, 0, len(rows))
	for _, row := range rows {
		flat = append(flat, FromDataModel(row))
	}
	return flat, nil
}

// Skills returns every skill in the catalog ordered by name.
func (s *Service) Skills() ([]*Skill, error) {
	rows, err := s.repo.GetAllSkills()
	if err != nil {
		s.logger.Error("failed to load skills", "error", err)
		return nil, err
	}

	skills := make([]*Skill, 0, len(rows))
	for _, row := range rows {
		skills = append(skills, SkillFromDataModel(row))
	}
	return skills, nil
}

// Skill returns one skill by id, or nil when it does not exist.
func (s *Service) Skill(id int64) (*Skill, error) {
	row, err := s.repo.GetSkillByID(id)
	if err != nil {
		s.logger.Error("failed to load skill", "error", err, "skill_id", id)
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return SkillFromDataModel(row), nil
}

func (s *Service) attachSkills(flat []*Category) error {
	rows, err := s.repo.GetAllSkills()
	if err != nil {
		s.logger.Error("failed to load skills", "error", err)
		return err
	}

	byCategory := make(map[int64][]*Skill, len(flat))
	for _, row := range rows {
		byCategory[row.CategoryID] = append(byCategory[row.CategoryID], SkillFromDataModel(row))
	}
	for _, c := range flat {
		c.Skills = byCategory[c.ID]
	}
	return nil
}

func actorID(sess *internal.Session) *int64 {
	if sess == nil {
		return nil
	}
	id := sess.UserID
	return &id
}
