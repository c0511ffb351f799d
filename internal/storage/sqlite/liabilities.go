package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/pocketsage/internal/models"
)

const liabilityColumns = "id, name, balance, apr, minimum_payment, due_day, created_at"

// CreateLiability persists a new liability to the database.
func (s *SQLiteStore) CreateLiability(ctx context.Context, l *models.Liability) error {
	// Generate ID if not set
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt == 0 {
		l.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO liabilities ("+liabilityColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.Name, l.Balance, l.APR, l.MinimumPayment, l.DueDay, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert liability: %w", err)
	}
	return nil
}

// GetLiability retrieves a liability by ID.
func (s *SQLiteStore) GetLiability(ctx context.Context, id string) (*models.Liability, error) {
	l := &models.Liability{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+liabilityColumns+" FROM liabilities WHERE id = ?",
		id,
	).Scan(&l.ID, &l.Name, &l.Balance, &l.APR, &l.MinimumPayment, &l.DueDay, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, notFound("liability", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get liability: %w", err)
	}
	return l, nil
}

// ListLiabilities retrieves all liabilities in creation order.
func (s *SQLiteStore) ListLiabilities(ctx context.Context) ([]*models.Liability, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+liabilityColumns+" FROM liabilities ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []*models.Liability
	for rows.Next() {
		l := &models.Liability{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Balance, &l.APR, &l.MinimumPayment, &l.DueDay, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		liabilities = append(liabilities, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate liabilities: %w", err)
	}
	return liabilities, nil
}

// UpdateLiability updates name, amounts and due day of an existing liability.
func (s *SQLiteStore) UpdateLiability(ctx context.Context, l *models.Liability) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE liabilities SET name = ?, balance = ?, apr = ?, minimum_payment = ?, due_day = ? WHERE id = ?",
		l.Name, l.Balance, l.APR, l.MinimumPayment, l.DueDay, l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update liability: %w", err)
	}
	return requireAffected(res, "liability", l.ID)
}

// DeleteLiability removes a liability by ID.
func (s *SQLiteStore) DeleteLiability(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM liabilities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete liability: %w", err)
	}
	return requireAffected(res, "liability", id)
}

// requireAffected turns an UPDATE or DELETE that matched nothing into a not found error.
func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}
