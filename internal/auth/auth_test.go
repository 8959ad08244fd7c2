package auth_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	internal "github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/audit"
	"github.com/skillz-hq/skillz/internal/auth"
	userDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

// MockRepository implements auth.RepositoryAPI for testing
type MockRepository struct {
	users      map[string]*userDatamodel.User
	lastLogins map[int64]time.Time
	appended   []audit.Entry
	purged     []int64

	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:      make(map[string]*userDatamodel.User),
		lastLogins: make(map[int64]time.Time),
	}
}

func (m *MockRepository) AddUser(u *userDatamodel.User) {
	m.users[u.Email] = u
}

func (m *MockRepository) GetUserByEmail(email string) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.users[email], nil
}

func (m *MockRepository) GetUserByID(id int64) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) UpdateLastLogin(userID int64, at time.Time) error {
	if m.shouldFail {
		return m.failError
	}
	m.lastLogins[userID] = at
	return nil
}

func (m *MockRepository) SetConsent(userID int64, accepted bool, entry audit.Entry) error {
	if m.shouldFail {
		return m.failError
	}
	for _, u := range m.users {
		if u.ID == userID {
			u.AcceptedPrivacy = accepted
		}
	}
	if !accepted {
		m.purged = append(m.purged, userID)
	}
	m.appended = append(m.appended, entry)
	return nil
}

func hashFor(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	Expect(err).NotTo(HaveOccurred())
	return string(hash)
}

var _ = Describe("Auth Service", func() {
	var (
		mockRepo *MockRepository
		service  *auth.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockRepo, logger, bcrypt.MinCost)
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			mockRepo.AddUser(&userDatamodel.User{
				ID:           1,
				Email:        "mario@mail.com",
				Name:         "Mario",
				Surname:      "Rossi",
				PasswordHash: hashFor("password"),
				Role:         internal.RoleUser,
			})
		})

		It("returns a session for valid credentials", func() {
			sess, err := service.Authenticate(auth.LoginDTO{Email: "mario@mail.com", Password: "password"})

			Expect(err).NotTo(HaveOccurred())
			Expect(sess.UserID).To(Equal(int64(1)))
			Expect(sess.Role).To(Equal(internal.RoleUser))
			Expect(sess.AcceptedPrivacy).To(BeFalse())
		})

		It("stamps the last login", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "mario@mail.com", Password: "password"})

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.lastLogins).To(HaveKey(int64(1)))
		})

		It("returns the same error for a wrong password and an unknown email", func() {
			_, wrongPassword := service.Authenticate(auth.LoginDTO{Email: "mario@mail.com", Password: "nope"})
			_, unknownEmail := service.Authenticate(auth.LoginDTO{Email: "ghost@mail.com", Password: "password"})

			Expect(wrongPassword).To(Equal(auth.ErrInvalidCredentials))
			Expect(unknownEmail).To(Equal(auth.ErrInvalidCredentials))
		})

		It("rejects empty credentials without touching the repository", func() {
			mockRepo.shouldFail = true
			mockRepo.failError = errors.New("db down")

			_, err := service.Authenticate(auth.LoginDTO{})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})
	})

	Describe("Consent", func() {
		var sess *internal.Session

		BeforeEach(func() {
			mockRepo.AddUser(&userDatamodel.User{
				ID:     1,
				Email:  "mario@mail.com",
				Role:   internal.RoleUser,
				Senior: false,
			})
			sess = &internal.Session{UserID: 1, Email: "mario@mail.com", Role: internal.RoleUser}
		})

		It("AcceptPrivacy returns a session with the flag set", func() {
			updated, err := service.AcceptPrivacy(sess)

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AcceptedPrivacy).To(BeTrue())
			Expect(mockRepo.appended).To(HaveLen(1))
			Expect(mockRepo.appended[0].Action).To(Equal(audit.ActionAcceptPrivacy))
		})

		It("RevokePrivacy clears the flag and purges skill rows", func() {
			sess.AcceptedPrivacy = true

			updated, err := service.RevokePrivacy(sess)

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AcceptedPrivacy).To(BeFalse())
			Expect(mockRepo.purged).To(Equal([]int64{1}))
			Expect(mockRepo.appended[0].Action).To(Equal(audit.ActionRevokePrivacy))
		})

		It("does not mutate the caller's session on failure", func() {
			mockRepo.shouldFail = true
			mockRepo.failError = errors.New("db down")

			_, err := service.AcceptPrivacy(sess)

			Expect(err).To(HaveOccurred())
			Expect(sess.AcceptedPrivacy).To(BeFalse())
		})
	})
})

var _ = Describe("SessionManager", func() {
	var manager *auth.SessionManager

	BeforeEach(func() {
		manager = auth.NewSessionManager("0123456789abcdef0123456789abcdef", time.Hour)
	})

	It("round-trips a session through a token", func() {
		sess := &internal.Session{
			UserID:          3,
			Email:           "mario@mail.com",
			Name:            "Mario",
			Surname:         "Rossi",
			Role:            internal.RoleAdmin,
			AcceptedPrivacy: true,
		}

		token, err := manager.Issue(sess)
		Expect(err).NotTo(HaveOccurred())

		got, err := manager.Verify(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(sess))
	})

	It("rejects a token signed with another secret", func() {
		other := auth.NewSessionManager("ffffffffffffffffffffffffffffffff", time.Hour)
		token, err := other.Issue(&internal.Session{UserID: 3})
		Expect(err).NotTo(HaveOccurred())

		_, err = manager.Verify(token)
		Expect(err).To(Equal(auth.ErrInvalidSession))
	})

	It("rejects a garbled token", func() {
		_, err := manager.Verify("not-a-token")
		Expect(err).To(Equal(auth.ErrInvalidSession))
	})
})

var _ = Describe("Gate Decide", func() {
	roles := []string{internal.RoleUser, internal.RoleAdmin}

	It("sends an anonymous request to login", func() {
		Expect(auth.Decide(nil, roles, false)).To(Equal(auth.DecisionLogin))
	})

	It("sends a role mismatch home", func() {
		sess := &internal.Session{Role: internal.RoleUser, AcceptedPrivacy: true}
		Expect(auth.Decide(sess, []string{internal.RoleAdmin}, false)).To(Equal(auth.DecisionHome))
	})

	It("sends a non-consenting user to the privacy page", func() {
		sess := &internal.Session{Role: internal.RoleUser}
		Expect(auth.Decide(sess, roles, false)).To(Equal(auth.DecisionConsent))
	})

	It("checks the role before consent", func() {
		sess := &internal.Session{Role: internal.RoleUser}
		Expect(auth.Decide(sess, []string{internal.RoleAdmin}, false)).To(Equal(auth.DecisionHome))
	})

	It("skips the consent check when asked to", func() {
		sess := &internal.Session{Role: internal.RoleUser}
		Expect(auth.Decide(sess, roles, true)).To(Equal(auth.DecisionAllow))
	})

	It("admits a consenting user with a matching role", func() {
		sess := &internal.Session{Role: internal.RoleAdmin, AcceptedPrivacy: true}
		Expect(auth.Decide(sess, roles, false)).To(Equal(auth.DecisionAllow))
	})
})
