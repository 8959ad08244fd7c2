package skills_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	internal "github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/audit"
	"github.com/skillz-hq/skillz/internal/catalog"
	skillsDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/skills"
	"github.com/skillz-hq/skillz/internal/skills"
)

func TestSkillsService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Skills Service Suite")
}

type assignmentKey struct {
	userID  int64
	skillID int64
}

// MockRepository implements skills.RepositoryAPI for testing
type MockRepository struct {
	rows     map[assignmentKey]*skillsDatamodel.UserSkill
	ratings  []*skills.SkillRating
	appended []audit.Entry
	upserts  int
	deletes  int
	nextID   int64

	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		rows:   make(map[assignmentKey]*skillsDatamodel.UserSkill),
		nextID: 1,
	}
}

func (m *MockRepository) AddAssignment(userID, skillID int64, level int) {
	m.rows[assignmentKey{userID, skillID}] = &skillsDatamodel.UserSkill{
		ID: m.nextID, UserID: userID, SkillID: skillID, Level: level,
	}
	m.nextID++
}

func (m *MockRepository) GetByUser(userID int64) ([]*skillsDatamodel.UserSkill, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*skillsDatamodel.UserSkill
	for id := int64(1); id < m.nextID; id++ {
		for _, row := range m.rows {
			if row.ID == id && row.UserID == userID {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (m *MockRepository) Get(userID, skillID int64) (*skillsDatamodel.UserSkill, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.rows[assignmentKey{userID, skillID}], nil
}

func (m *MockRepository) GetRatings(skillID int64) ([]*skills.SkillRating, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.ratings, nil
}

func (m *MockRepository) Upsert(row *skillsDatamodel.UserSkill, entry audit.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	if row.ID == 0 {
		row.ID = m.nextID
		m.nextID++
	}
	m.rows[assignmentKey{row.UserID, row.SkillID}] = row
	m.appended = append(m.appended, entry)
	m.upserts++
	return nil
}

func (m *MockRepository) DeleteAssignment(userID, skillID int64, entry audit.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.rows, assignmentKey{userID, skillID})
	m.appended = append(m.appended, entry)
	m.deletes++
	return nil
}

// MockCatalog implements skills.CatalogAPI for testing
type MockCatalog struct {
	categories []*catalog.Category
	skills     []*catalog.Skill
}

func (m *MockCatalog) Categories() ([]*catalog.Category, error) {
	return m.categories, nil
}

func (m *MockCatalog) Skills() ([]*catalog.Skill, error) {
	return m.skills, nil
}

func (m *MockCatalog) Skill(id int64) (*catalog.Skill, error) {
	for _, sk := range m.skills {
		if sk.ID == id {
			return sk, nil
		}
	}
	return nil, nil
}

func (m *MockCatalog) Forest(withSkills bool) ([]*catalog.Category, error) {
	flat := make([]*catalog.Category, len(m.categories))
	copy(flat, m.categories)
	forest := catalog.BuildForest(flat)
	if withSkills {
		byCategory := make(map[int64][]*catalog.Skill)
		for _, sk := range m.skills {
			byCategory[sk.CategoryID] = append(byCategory[sk.CategoryID], sk)
		}
		for _, c := range flat {
			c.Skills = byCategory[c.ID]
		}
	}
	return forest, nil
}

func ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

var _ = Describe("Skills Service", func() {
	var (
		mockRepo    *MockRepository
		mockCatalog *MockCatalog
		service     *skills.Service
		sess        *internal.Session
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockCatalog = &MockCatalog{
			categories: []*catalog.Category{
				{ID: 1, Name: "Backend"},
				{ID: 2, Name: "Languages", ParentID: ptr(1)},
				{ID: 3, Name: "Databases", ParentID: ptr(1)},
			},
			skills: []*catalog.Skill{
				{ID: 10, Name: "Go", CategoryID: 2},
				{ID: 11, Name: "Python", CategoryID: 2},
				{ID: 12, Name: "PostgreSQL", CategoryID: 3},
			},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = skills.NewService(mockRepo, mockCatalog, logger)
		sess = &internal.Session{UserID: 5, Role: internal.RoleUser, AcceptedPrivacy: true}
	})

	Describe("SetLevel", func() {
		It("creates an assignment for a new rating", func() {
			got, err := service.SetLevel(sess, skills.SetSkillDTO{SkillID: 10, Level: intPtr(3)})

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Level).To(Equal(3))
			Expect(mockRepo.upserts).To(Equal(1))
			Expect(mockRepo.appended).To(HaveLen(1))
			Expect(mockRepo.appended[0].Action).To(Equal(audit.ActionSetSkillLevel))
		})

		It("updates an existing assignment in place", func() {
			mockRepo.AddAssignment(5, 10, 2)

			got, err := service.SetLevel(sess, skills.SetSkillDTO{SkillID: 10, Level: intPtr(4)})

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Level).To(Equal(4))
			Expect(mockRepo.rows).To(HaveLen(1))
		})

		It("does nothing when the level is unchanged", func() {
			mockRepo.AddAssignment(5, 10, 3)

			got, err := service.SetLevel(sess, skills.SetSkillDTO{SkillID: 10, Level: intPtr(3)})

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Level).To(Equal(3))
			Expect(mockRepo.upserts).To(BeZero())
			Expect(mockRepo.appended).To(BeEmpty())
		})

		It("deletes the row when the level is zero", func() {
			mockRepo.AddAssignment(5, 10, 3)

			got, err := service.SetLevel(sess, skills.SetSkillDTO{SkillID: 10, Level: intPtr(0)})

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Level).To(BeZero())
			Expect(mockRepo.rows).To(BeEmpty())
			Expect(mockRepo.deletes).To(Equal(1))
		})

		It("is a no-op when setting zero on an unrated skill", func() {
			_, err := service.SetLevel(sess, skills.SetSkillDTO{SkillID: 10, Level: intPtr(0)})

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.deletes).To(BeZero())
			Expect(mockRepo.appended).To(BeEmpty())
		})

		It("rejects a level above the maximum", func() {
			_, err := service.SetLevel(sess, skills.SetSkillDTO{SkillID: 10, Level: intPtr(6)})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("rejects a missing level", func() {
			_, err := service.SetLevel(sess, skills.SetSkillDTO{SkillID: 10})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("fails for an unknown skill", func() {
			_, err := service.SetLevel(sess, skills.SetSkillDTO{SkillID: 99, Level: intPtr(3)})

			Expect(err).To(Equal(internal.ErrSkillNotFound))
		})
	})

	Describe("Aggregate", func() {
		It("returns the rated skills with their full category paths", func() {
			mockRepo.AddAssignment(5, 10, 4)
			mockRepo.AddAssignment(5, 12, 2)

			infos, err := service.Aggregate(5)

			Expect(err).NotTo(HaveOccurred())
			Expect(infos).To(HaveLen(2))
			Expect(infos[0].SkillName).To(Equal("Go"))
			Expect(infos[0].Category).To(Equal("Backend / Languages"))
			Expect(infos[1].Category).To(Equal("Backend / Databases"))
		})

		It("returns nothing for a user with no ratings", func() {
			infos, err := service.Aggregate(5)

			Expect(err).NotTo(HaveOccurred())
			Expect(infos).To(BeEmpty())
		})

		It("skips assignments whose skill no longer exists", func() {
			mockRepo.AddAssignment(5, 99, 3)

			infos, err := service.Aggregate(5)

			Expect(err).NotTo(HaveOccurred())
			Expect(infos).To(BeEmpty())
		})
	})

	Describe("GroupByCategory", func() {
		It("groups entries by path in first-appearance order", func() {
			infos := []skills.UserSkillInfo{
				{SkillName: "Go", Category: "Backend / Languages", Level: 4},
				{SkillName: "PostgreSQL", Category: "Backend / Databases", Level: 2},
				{SkillName: "Python", Category: "Backend / Languages", Level: 3},
			}

			groups := skills.GroupByCategory(infos)

			Expect(groups).To(HaveLen(2))
			Expect(groups[0].Category).To(Equal("Backend / Languages"))
			Expect(groups[0].Skills).To(HaveLen(2))
			Expect(groups[1].Category).To(Equal("Backend / Databases"))
		})

		It("returns nothing for an empty aggregate", func() {
			Expect(skills.GroupByCategory(nil)).To(BeEmpty())
		})
	})

	Describe("Overlay", func() {
		It("marks rated skills and leaves the rest unchecked", func() {
			mockRepo.AddAssignment(5, 10, 4)

			overlay, err := service.Overlay(5)

			Expect(err).NotTo(HaveOccurred())
			Expect(overlay).To(HaveLen(1))

			languages := overlay[0].Children[0]
			Expect(languages.Skills).To(HaveLen(2))
			Expect(languages.Skills[0].Name).To(Equal("Go"))
			Expect(languages.Skills[0].Checked).To(BeTrue())
			Expect(languages.Skills[0].Level).To(Equal(4))
			Expect(languages.Skills[1].Checked).To(BeFalse())
			Expect(languages.Skills[1].Level).To(BeZero())
		})
	})

	Describe("SkillDetails", func() {
		It("returns the skill with its ratings", func() {
			mockRepo.ratings = []*skills.SkillRating{
				{UserID: 1, Name: "Mario", Surname: "Rossi", Level: 5},
				{UserID: 2, Name: "Luigi", Surname: "Verdi", Level: 2},
			}

			sk, ratings, err := service.SkillDetails(10)

			Expect(err).NotTo(HaveOccurred())
			Expect(sk.Name).To(Equal("Go"))
			Expect(ratings).To(HaveLen(2))
		})

		It("fails for an unknown skill", func() {
			_, _, err := service.SkillDetails(99)

			Expect(err).To(Equal(internal.ErrSkillNotFound))
		})
	})
})
