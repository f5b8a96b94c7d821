package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateTx inserts an audit log inside the caller's transaction.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = ulid.Make().String()
	}

	before, err := stateText(log.BeforeState)
	if err != nil {
		return err
	}
	after, err := stateText(log.AfterState)
	if err != nil {
		return err
	}

	_, err = sqlTx(tx).ExecContext(ctx, `
		INSERT INTO audit_logs (
			id, actor, action, resource_type, resource_id, request_id,
			before_state, after_state, status, error_message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.Actor,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		before,
		after,
		log.Status,
		log.ErrorMessage,
		formatTimestamp(log.CreatedAt),
	)
	return err
}

// List retrieves audit logs with filtering, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		where = append(where, clause)
		args = append(args, v)
	}

	if filter.Action != "" {
		add(`action = ?`, filter.Action)
	}
	if filter.ResourceType != "" {
		add(`resource_type = ?`, filter.ResourceType)
	}
	if filter.ResourceID != "" {
		add(`resource_id = ?`, filter.ResourceID)
	}
	if filter.StartDate != nil {
		add(`created_at >= ?`, formatTimestamp(*filter.StartDate))
	}
	if filter.EndDate != nil {
		add(`created_at <= ?`, formatTimestamp(*filter.EndDate))
	}

	query := `
		SELECT id, actor, action, resource_type, resource_id, request_id,
		       before_state, after_state, status, error_message, created_at
		FROM audit_logs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	// SQLite only accepts OFFSET after LIMIT; -1 means no limit.
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var (
			log           domain.AuditLog
			before, after sql.NullString
			created       string
		)
		if err := rows.Scan(
			&log.ID,
			&log.Actor,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&before,
			&after,
			&log.Status,
			&log.ErrorMessage,
			&created,
		); err != nil {
			return nil, err
		}

		if before.Valid {
			_ = json.Unmarshal([]byte(before.String), &log.BeforeState)
		}
		if after.Valid {
			_ = json.Unmarshal([]byte(after.String), &log.AfterState)
		}
		log.CreatedAt = parseTimestamp(created)
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// GetByResourceID retrieves all audit logs for a specific resource.
func (r *AuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	return r.List(ctx, domain.AuditFilter{
		ResourceType: resourceType,
		ResourceID:   resourceID,
	})
}

func stateText(state domain.JSON) (sql.NullString, error) {
	if state == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
