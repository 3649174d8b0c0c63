package repository

import (
	"context"
	"time"

	"github.com/VndrewJ/AI-Shift-Scheduler/internal/domain"
)

// InsertShiftChange 记录一条排班变更的审计日志
// 班表只保留最终状态，所以每个处理过的请求都要在这里留痕
func (r *Repository) InsertShiftChange(change *domain.ShiftChange) error {
	query := `
		INSERT INTO shift_changes (person_name, day, action, entry, outcome, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{change.PersonName, change.Day, change.Action, change.Entry, change.Outcome, change.Source}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&change.ID, &change.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRecentShiftChanges(limit int) ([]*domain.ShiftChange, error) {
	query := `
		SELECT id, person_name, day, action, entry, outcome, source, created_at
		FROM shift_changes
		ORDER BY created_at DESC
		LIMIT $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := make([]*domain.ShiftChange, 0)
	for rows.Next() {
		change := &domain.ShiftChange{}
		dst := []any{&change.ID, &change.PersonName, &change.Day, &change.Action, &change.Entry, &change.Outcome, &change.Source, &change.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return changes, nil
}
