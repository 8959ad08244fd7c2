package audit

import (
	"time"

	"gorm.io/gorm"
)

// Action tags written to the trail. Free-form strings kept short and stable
// so the log stays searchable.
const (
	ActionCreateAdmin    = "create admin"
	ActionCreateUser     = "create user"
	ActionToggleSenior   = "toggle senior"
	ActionAcceptPrivacy  = "accept privacy"
	ActionRevokePrivacy  = "revoke privacy"
	ActionCreateCategory = "create category"
	ActionDeleteCategory = "delete category"
	ActionCreateSkill    = "create skill"
	ActionDeleteSkill    = "delete skill"
	ActionSetSkillLevel  = "set skill level"
)

// Entry is one pending audit record. Data is marshaled to JSON on append.
type Entry struct {
	ActorID *int64
	Action  string
	Data    map[string]interface{}
}

// Writer appends entries inside the caller's transaction. Mutations hand
// their own tx in, so an entry is durable exactly when the change it
// documents is: a failed append rolls the whole operation back.
type Writer interface {
	Append(tx *gorm.DB, entry Entry) error
}

// Record is the read-side view of a committed entry.
type Record struct {
	EntryID   string    `json:"entry_id"`
	ActorID   *int64    `json:"actor_id,omitempty"`
	Action    string    `json:"action"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// Reader supports the simple chronological and actor-filtered listings.
type Reader interface {
	List(limit, offset int) ([]Record, error)
	ListByActor(actorID int64, limit, offset int) ([]Record, error)
}
