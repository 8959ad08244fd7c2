package catalog_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	internal "github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/audit"
	"github.com/skillz-hq/skillz/internal/catalog"
	catalogDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/catalog"
)

func TestCatalogService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Service Suite")
}

// MockRepository implements catalog.RepositoryAPI for testing
type MockRepository struct {
	categories map[int64]*catalogDatamodel.Category
	skills     map[int64]*catalogDatamodel.Skill
	nextID     int64

	appended   []audit.Entry
	deletedIDs []int64

	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		categories: make(map[int64]*catalogDatamodel.Category),
		skills:     make(map[int64]*catalogDatamodel.Skill),
		nextID:     1,
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) AddCategory(id int64, name string, parentID *int64) {
	m.categories[id] = &catalogDatamodel.Category{ID: id, Name: name, ParentID: parentID}
	if id >= m.nextID {
		m.nextID = id + 1
	}
}

func (m *MockRepository) AddSkill(id int64, name string, categoryID int64) {
	m.skills[id] = &catalogDatamodel.Skill{ID: id, Name: name, CategoryID: categoryID}
	if id >= m.nextID {
		m.nextID = id + 1
	}
}

func (m *MockRepository) GetAllCategories() ([]*catalogDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*catalogDatamodel.Category
	for id := int64(1); id < m.nextID; id++ {
		if c, ok := m.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockRepository) GetCategoryByID(id int64) (*catalogDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.categories[id], nil
}

func (m *MockRepository) GetCategoryByName(name string) (*catalogDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) CountChildren(categoryID int64) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	var count int64
	for _, c := range m.categories {
		if c.ParentID != nil && *c.ParentID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *MockRepository) CountSkills(categoryID int64) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	var count int64
	for _, s := range m.skills {
		if s.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *MockRepository) GetAllSkills() ([]*catalogDatamodel.Skill, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*catalogDatamodel.Skill
	for id := int64(1); id < m.nextID; id++ {
		if s, ok := m.skills[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockRepository) GetSkillByID(id int64) (*catalogDatamodel.Skill, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.skills[id], nil
}

func (m *MockRepository) GetSkillByName(name string) (*catalogDatamodel.Skill, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, s := range m.skills {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetSkillsByCategory(categoryID int64) ([]*catalogDatamodel.Skill, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*catalogDatamodel.Skill
	for id := int64(1); id < m.nextID; id++ {
		if s, ok := m.skills[id]; ok && s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockRepository) SkillStats(skillID int64) (int64, float64, error) {
	if m.shouldFail {
		return 0, 0, m.failError
	}
	return 0, 0, nil
}

func (m *MockRepository) CreateCategory(cat *catalogDatamodel.Category, entry audit.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	cat.ID = m.nextID
	m.nextID++
	m.categories[cat.ID] = cat
	m.appended = append(m.appended, entry)
	return nil
}

func (m *MockRepository) DeleteCategoryTree(categoryIDs []int64, entries []audit.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	for _, id := range categoryIDs {
		for sid, s := range m.skills {
			if s.CategoryID == id {
				delete(m.skills, sid)
			}
		}
		delete(m.categories, id)
		m.deletedIDs = append(m.deletedIDs, id)
	}
	m.appended = append(m.appended, entries...)
	return nil
}

func (m *MockRepository) CreateSkill(skill *catalogDatamodel.Skill, entry audit.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	skill.ID = m.nextID
	m.nextID++
	m.skills[skill.ID] = skill
	m.appended = append(m.appended, entry)
	return nil
}

func (m *MockRepository) DeleteSkill(id int64, entry audit.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.skills, id)
	m.appended = append(m.appended, entry)
	return nil
}

func ptr(v int64) *int64 { return &v }

var _ = Describe("Catalog Service", func() {
	var (
		mockRepo *MockRepository
		service  *catalog.Service
		sess     *internal.Session
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = catalog.NewService(mockRepo, logger)
		sess = &internal.Session{UserID: 7, Role: internal.RoleAdmin, AcceptedPrivacy: true}
	})

	Describe("CreateCategory", func() {
		It("creates a root category and records an audit entry", func() {
			created, err := service.CreateCategory(sess, catalog.CreateCategoryDTO{Name: "Backend"})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Name).To(Equal("Backend"))
			Expect(created.ParentID).To(BeNil())
			Expect(mockRepo.appended).To(HaveLen(1))
			Expect(mockRepo.appended[0].Action).To(Equal(audit.ActionCreateCategory))
			Expect(*mockRepo.appended[0].ActorID).To(Equal(int64(7)))
		})

		It("treats a zero parent id as a root category", func() {
			created, err := service.CreateCategory(sess, catalog.CreateCategoryDTO{Name: "Backend", ParentID: ptr(0)})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.ParentID).To(BeNil())
		})

		It("rejects a duplicate name", func() {
			mockRepo.AddCategory(1, "Backend", nil)

			_, err := service.CreateCategory(sess, catalog.CreateCategoryDTO{Name: "Backend"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCategoryExists))
			Expect(mockRepo.appended).To(BeEmpty())
		})

		It("rejects a parent that already owns skills", func() {
			mockRepo.AddCategory(1, "Backend", nil)
			mockRepo.AddSkill(2, "Go", 1)

			_, err := service.CreateCategory(sess, catalog.CreateCategoryDTO{Name: "Languages", ParentID: ptr(1)})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCategoryHasSkills))
		})

		It("fails when the parent does not exist", func() {
			_, err := service.CreateCategory(sess, catalog.CreateCategoryDTO{Name: "Languages", ParentID: ptr(99)})

			Expect(err).To(Equal(internal.ErrCategoryNotFound))
		})

		It("rejects an empty name", func() {
			_, err := service.CreateCategory(sess, catalog.CreateCategoryDTO{Name: ""})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("CreateSkill", func() {
		BeforeEach(func() {
			mockRepo.AddCategory(1, "Backend", nil)
			mockRepo.AddCategory(2, "Languages", ptr(1))
		})

		It("creates a skill under a leaf category", func() {
			created, err := service.CreateSkill(sess, 2, catalog.CreateSkillDTO{Name: "Go"})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.CategoryID).To(Equal(int64(2)))
			Expect(mockRepo.appended).To(HaveLen(1))
			Expect(mockRepo.appended[0].Action).To(Equal(audit.ActionCreateSkill))
		})

		It("refuses a category that has subcategories", func() {
			_, err := service.CreateSkill(sess, 1, catalog.CreateSkillDTO{Name: "Go"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeCategoryNotLeaf))
		})

		It("enforces global skill name uniqueness", func() {
			mockRepo.AddCategory(3, "Databases", ptr(1))
			mockRepo.AddSkill(4, "Go", 2)

			_, err := service.CreateSkill(sess, 3, catalog.CreateSkillDTO{Name: "Go"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSkillExists))
		})

		It("fails when the category does not exist", func() {
			_, err := service.CreateSkill(sess, 42, catalog.CreateSkillDTO{Name: "Go"})

			Expect(err).To(Equal(internal.ErrCategoryNotFound))
		})
	})

	Describe("DeleteCategory", func() {
		BeforeEach(func() {
			mockRepo.AddCategory(1, "Backend", nil)
			mockRepo.AddCategory(2, "Languages", ptr(1))
			mockRepo.AddCategory(3, "Databases", ptr(1))
			mockRepo.AddSkill(4, "Go", 2)
			mockRepo.AddSkill(5, "PostgreSQL", 3)
		})

		It("deletes the whole subtree deepest-first", func() {
			err := service.DeleteCategory(sess, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.categories).To(BeEmpty())
			Expect(mockRepo.skills).To(BeEmpty())
			// children must go before their parent
			Expect(mockRepo.deletedIDs[len(mockRepo.deletedIDs)-1]).To(Equal(int64(1)))
		})

		It("records one entry per category and one per skill batch", func() {
			err := service.DeleteCategory(sess, 1)

			Expect(err).NotTo(HaveOccurred())
			var categoryEntries, skillEntries int
			for _, e := range mockRepo.appended {
				switch e.Action {
				case audit.ActionDeleteCategory:
					categoryEntries++
				case audit.ActionDeleteSkill:
					skillEntries++
				}
			}
			Expect(categoryEntries).To(Equal(3))
			Expect(skillEntries).To(Equal(2))
		})

		It("deletes only the targeted subtree", func() {
			err := service.DeleteCategory(sess, 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.categories).To(HaveKey(int64(1)))
			Expect(mockRepo.categories).To(HaveKey(int64(2)))
			Expect(mockRepo.skills).To(HaveKey(int64(4)))
			Expect(mockRepo.skills).NotTo(HaveKey(int64(5)))
		})

		It("fails for a missing category", func() {
			err := service.DeleteCategory(sess, 99)

			Expect(err).To(Equal(internal.ErrCategoryNotFound))
		})
	})

	Describe("DeleteSkill", func() {
		It("captures the skill name in the audit entry before deleting", func() {
			mockRepo.AddCategory(1, "Backend", nil)
			mockRepo.AddSkill(2, "Go", 1)

			deleted, err := service.DeleteSkill(sess, 2)

			Expect(err).NotTo(HaveOccurred())
			Expect(deleted.Name).To(Equal("Go"))
			Expect(mockRepo.skills).To(BeEmpty())
			Expect(mockRepo.appended).To(HaveLen(1))
			Expect(mockRepo.appended[0].Data["name"]).To(Equal("Go"))
		})

		It("fails for a missing skill", func() {
			_, err := service.DeleteSkill(sess, 42)

			Expect(err).To(Equal(internal.ErrSkillNotFound))
		})
	})

	Describe("CategoryDetail", func() {
		It("returns the category with its skills", func() {
			mockRepo.AddCategory(1, "Backend", nil)
			mockRepo.AddSkill(2, "Go", 1)
			mockRepo.AddSkill(3, "Rust", 1)

			detail, err := service.CategoryDetail(1)

			Expect(err).NotTo(HaveOccurred())
			Expect(detail.Category.Name).To(Equal("Backend"))
			Expect(detail.Skills).To(HaveLen(2))
		})

		It("fails for a missing category", func() {
			_, err := service.CategoryDetail(9)

			Expect(err).To(Equal(internal.ErrCategoryNotFound))
		})
	})

	Describe("Forest", func() {
		It("propagates repository errors", func() {
			mockRepo.SetShouldFail(true, errors.New("db down"))

			_, err := service.Forest(false)

			Expect(err).To(MatchError("db down"))
		})

		It("attaches skills to their owning node", func() {
			mockRepo.AddCategory(1, "Backend", nil)
			mockRepo.AddCategory(2, "Languages", ptr(1))
			mockRepo.AddSkill(3, "Go", 2)

			forest, err := service.Forest(true)

			Expect(err).NotTo(HaveOccurred())
			Expect(forest).To(HaveLen(1))
			Expect(forest[0].Skills).To(BeEmpty())
			Expect(forest[0].Children[0].Skills).To(HaveLen(1))
			Expect(forest[0].Children[0].Skills[0].Name).To(Equal("Go"))
		})
	})
})
