package mysql

import (
	"context"
	"fmt"

	"github.com/storeops/replenish-backend/internal/domain"
)

type AuditRepository struct {
	db *DB
}

func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO log (uid, type, detail, timestamp, ip, user_agent) VALUES (?, ?, ?, NOW(), ?, ?)",
		entry.UID, entry.Type, entry.Detail, entry.IP, entry.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}
