// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/othinieljo/sentinelle/internal/platform/apperr"
	"github.com/othinieljo/sentinelle/internal/platform/database/schema"
	"github.com/othinieljo/sentinelle/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func paymentColumns(prefix string) string {
	p := schema.Payment
	cols := []string{p.ID, p.UserID, p.CampaignID, p.Amount, p.Method, p.Status, p.SpinsEarned, p.CreatedAt, p.UpdatedAt}
	if prefix != "" {
		for i, col := range cols {
			cols[i] = prefix + "." + col
		}
	}
	return strings.Join(cols, ", ")
}

/*
List returns a filtered, paginated slice of payments and the total count.

Parameters:
  - context: context.Context
  - filter: Filter (user, campaign, status)
  - limit: int
  - offset: int

Returns:
  - []*Payment: Matching contributions, newest first
  - int: Total count of records matching the filter
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Payment, int, error) {
	p := schema.Payment

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(
		"SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE TRUE",
		paymentColumns(""), p.Table,
	))

	if filter.UserID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", p.UserID, argID))
		args = append(args, filter.UserID)
		argID++
	}

	if filter.CampaignID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", p.CampaignID, argID))
		args = append(args, filter.CampaignID)
		argID++
	}

	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", p.Status, argID))
		args = append(args, filter.Status)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", p.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_payments")
	}
	defer rows.Close()

	payments := make([]*Payment, 0)
	var totalCount int

	for rows.Next() {
		payment := &Payment{}
		err := rows.Scan(
			&payment.ID,
			&payment.UserID,
			&payment.CampaignID,
			&payment.Amount,
			&payment.Method,
			&payment.Status,
			&payment.SpinsEarned,
			&payment.CreatedAt,
			&payment.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_payment")
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_payments_rows")
	}

	return payments, totalCount, nil
}

/*
FindByID retrieves a payment by primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Payment: Hydrated contribution record
  - error: dberr.ErrNotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Payment, error) {
	p := schema.Payment
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", paymentColumns(""), p.Table, p.ID)

	payment := &Payment{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&payment.ID,
		&payment.UserID,
		&payment.CampaignID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.SpinsEarned,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_payment_by_id")
	}
	return payment, nil
}

/*
Create persists a new pending payment.

Parameters:
  - context: context.Context
  - payment: *Payment

Returns:
  - error: Storage or constraint failures
*/
func (repository *PostgresRepository) Create(context context.Context, payment *Payment) error {
	p := schema.Payment
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.Table, p.ID, p.UserID, p.CampaignID, p.Amount, p.Method, p.Status,
		p.SpinsEarned, p.CreatedAt, p.UpdatedAt,
	)

	now := time.Now()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		payment.ID,
		payment.UserID,
		payment.CampaignID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.SpinsEarned,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_payment")
	}
	return nil
}

/*
Confirm flips a pending payment to confirmed and credits the member's spin
balance inside one transaction.

Description: The status flip is guarded on the pending state so a double
confirmation can never credit twice. The balance jump only runs when the
flip actually happened.

Parameters:
  - context: context.Context
  - id: string (Payment ID)
  - spinsEarned: int

Returns:
  - error: apperr.Conflict when already reviewed, transactional failures
*/
func (repository *PostgresRepository) Confirm(context context.Context, id string, spinsEarned int) error {
	p := schema.Payment
	u := schema.UserAccount

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_confirm_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Guarded Status Flip
	// The userid comes back so the balance credit targets the right account
	flipQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1 AND %s = $5
		RETURNING %s`,
		p.Table, p.Status, p.SpinsEarned, p.UpdatedAt, p.ID, p.Status, p.UserID,
	)

	var userID string
	err = transaction.QueryRow(context, flipQuery,
		id, StatusConfirmed, spinsEarned, time.Now(), StatusPending,
	).Scan(&userID)
	if err != nil {
		wrapped := dberr.Wrap(err, "confirm_payment")
		if errors.Is(wrapped, dberr.ErrNotFound) {
			return apperr.Conflict("Payment has already been reviewed")
		}
		return wrapped
	}

	// Step 2: Atomic Balance Credit
	creditQuery := fmt.Sprintf(
		"UPDATE %s SET %s = %s + $2, %s = $3 WHERE %s = $1",
		u.Table, u.Balance, u.Balance, u.UpdatedAt, u.ID,
	)
	_, err = transaction.Exec(context, creditQuery, userID, spinsEarned, time.Now())
	if err != nil {
		return dberr.Wrap(err, "credit_spin_balance")
	}

	// Persist Atomic Changeset
	return transaction.Commit(context)
}

/*
Reject flips a pending payment to rejected.

Parameters:
  - context: context.Context
  - id: string (Payment ID)

Returns:
  - error: apperr.Conflict when already reviewed, storage failures
*/
func (repository *PostgresRepository) Reject(context context.Context, id string) error {
	p := schema.Payment
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s = $4",
		p.Table, p.Status, p.UpdatedAt, p.ID, p.Status,
	)

	tag, err := repository.db.Exec(context, query, id, StatusRejected, time.Now(), StatusPending)
	if err != nil {
		return dberr.Wrap(err, "reject_payment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Payment has already been reviewed")
	}
	return nil
}
