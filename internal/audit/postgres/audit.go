package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/skillz-hq/skillz/internal/audit"
	auditDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/audit"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append writes the entry on tx, not on the repository's own handle, so it
// commits or rolls back together with the mutation that produced it.
func (r *AuditRepository) Append(tx *gorm.DB, entry audit.Entry) error {
	if tx == nil {
		tx = r.db
	}

	payload, err := json.Marshal(entry.Data)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	row := &auditDatamodel.AuditLog{
		EntryID: uuid.NewString(),
		UserID:  entry.ActorID,
		Action:  entry.Action,
		Data:    string(payload),
	}
	return tx.Create(row).Error
}

func (r *AuditRepository) List(limit, offset int) ([]audit.Record, error) {
	var rows []auditDatamodel.AuditLog
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func (r *AuditRepository) ListByActor(actorID int64, limit, offset int) ([]audit.Record, error) {
	var rows []auditDatamodel.AuditLog
	err := r.db.Where("user_id = ?", actorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func toRecords(rows []auditDatamodel.AuditLog) []audit.Record {
	records := make([]audit.Record, len(rows))
	for i, row := range rows {
		records[i] = audit.Record{
			EntryID:   row.EntryID,
			ActorID:   row.UserID,
			Action:    row.Action,
			Data:      row.Data,
			CreatedAt: row.CreatedAt,
		}
	}
	return records
}
