// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package spin

import (
	"context"
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

/*
ExecuteSpin commits one wheel turn atomically.

Description: Three guarded steps in one transaction. The balance debit is
conditional on a positive balance, the stock decrement is conditional on
remaining stock. Either guard failing rolls back the whole turn, so a
member can never lose a credit without a recorded outcome.

Parameters:
  - context: context.Context
  - spin: *Spin
  - wonPrize: *WonPrize (nil on a loss)

Returns:
  - error: apperr.Conflict on empty balance or vanished stock,
    transactional failures otherwise
*/
func (repository *PostgresRepository) ExecuteSpin(context context.Context, spin *Spin, wonPrize *WonPrize) error {
	s := schema.Spin
	u := schema.UserAccount
	p := schema.Prize
	w := schema.WonPrize

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_spin_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Guarded Credit Debit
	debitQuery := fmt.Sprintf(
		"UPDATE %s SET %s = %s - 1, %s = $2 WHERE %s = $1 AND %s > 0",
		u.Table, u.Balance, u.Balance, u.UpdatedAt, u.ID, u.Balance,
	)
	tag, err := transaction.Exec(context, debitQuery, spin.UserID, time.Now())
	if err != nil {
		return dberr.Wrap(err, "debit_spin_credit")
	}
	if tag.RowsAffected() == 0 {
		return ErrNoCredits
	}

	// Step 2: Guarded Stock Decrement (wins only)
	if wonPrize != nil {
		stockQuery := fmt.Sprintf(
			"UPDATE %s SET %s = %s - 1, %s = $2 WHERE %s = $1 AND %s > 0",
			p.Table, p.Stock, p.Stock, p.UpdatedAt, p.ID, p.Stock,
		)
		tag, err := transaction.Exec(context, stockQuery, wonPrize.PrizeID, time.Now())
		if err != nil {
			return dberr.Wrap(err, "decrement_prize_stock")
		}
		if tag.RowsAffected() == 0 {
			return ErrStockGone
		}
	}

	// Step 3: Record the Turn
	if spin.CreatedAt.IsZero() {
		spin.CreatedAt = time.Now()
	}
	spinQuery := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)",
		s.Table, s.ID, s.UserID, s.CampaignID, s.PrizeID, s.IsWin, s.CreatedAt,
	)
	_, err = transaction.Exec(context, spinQuery,
		spin.ID, spin.UserID, spin.CampaignID, spin.PrizeID, spin.IsWin, spin.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "insert_spin")
	}

	// Step 4: Record the Pending Prize (wins only)
	if wonPrize != nil {
		if wonPrize.CreatedAt.IsZero() {
			wonPrize.CreatedAt = time.Now()
		}
		wonQuery := fmt.Sprintf(
			"INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)",
			w.Table, w.ID, w.UserID, w.PrizeID, w.SpinID, w.Status, w.CreatedAt,
		)
		_, err = transaction.Exec(context, wonQuery,
			wonPrize.ID, wonPrize.UserID, wonPrize.PrizeID, wonPrize.SpinID,
			wonPrize.Status, wonPrize.CreatedAt,
		)
		if err != nil {
			return dberr.Wrap(err, "insert_won_prize")
		}
	}

	// Persist Atomic Changeset
	return transaction.Commit(context)
}

func (repository *PostgresRepository) FindSpinByID(context context.Context, id string) (*Spin, error) {
	s := schema.Spin
	query := fmt.Sprintf(
		"SELECT %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1",
		s.ID, s.UserID, s.CampaignID, s.PrizeID, s.IsWin, s.CreatedAt, s.Table, s.ID,
	)

	spin := &Spin{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&spin.ID, &spin.UserID, &spin.CampaignID, &spin.PrizeID, &spin.IsWin, &spin.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_spin_by_id")
	}
	return spin, nil
}

/*
History returns a filtered, paginated slice of spins and the total count.

Parameters:
  - context: context.Context
  - filter: HistoryFilter
  - limit: int
  - offset: int

Returns:
  - []*Spin: Matching turns, newest first
  - int: Total count of records matching the filter
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) History(context context.Context, filter HistoryFilter, limit, offset int) ([]*Spin, int, error) {
	s := schema.Spin

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(
		"SELECT %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total_count FROM %s WHERE TRUE",
		s.ID, s.UserID, s.CampaignID, s.PrizeID, s.IsWin, s.CreatedAt, s.Table,
	))

	if filter.UserID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", s.UserID, argID))
		args = append(args, filter.UserID)
		argID++
	}

	if filter.CampaignID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", s.CampaignID, argID))
		args = append(args, filter.CampaignID)
		argID++
	}

	if filter.WinsOnly {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = TRUE", s.IsWin))
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", s.CreatedAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_spin_history")
	}
	defer rows.Close()

	spins := make([]*Spin, 0)
	var totalCount int

	for rows.Next() {
		spin := &Spin{}
		err := rows.Scan(
			&spin.ID, &spin.UserID, &spin.CampaignID, &spin.PrizeID,
			&spin.IsWin, &spin.CreatedAt, &totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_spin")
		}
		spins = append(spins, spin)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_spin_history_rows")
	}

	return spins, totalCount, nil
}

func (repository *PostgresRepository) Balance(context context.Context, userID string) (int, error) {
	u := schema.UserAccount
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL",
		u.Balance, u.Table, u.ID, u.DeletedAt,
	)

	var balance int
	if err := repository.db.QueryRow(context, query, userID).Scan(&balance); err != nil {
		return 0, dberr.Wrap(err, "get_spin_balance")
	}
	return balance, nil
}

/*
ListWonPrizes returns a member's won prizes with the prize name joined in.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int
  - offset: int

Returns:
  - []*WonPrize: Won prizes, newest first
  - int: Total count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListWonPrizes(context context.Context, userID string, limit, offset int) ([]*WonPrize, int, error) {
	w := schema.WonPrize
	p := schema.Prize

	query := fmt.Sprintf(`
		SELECT w.%s, w.%s, w.%s, w.%s, w.%s, w.%s, w.%s, w.%s, p.%s,
		       COUNT(*) OVER() AS total_count
		FROM %s w
		JOIN %s p ON w.%s = p.%s
		WHERE w.%s = $1
		ORDER BY w.%s DESC
		LIMIT $2 OFFSET $3`,
		w.ID, w.UserID, w.PrizeID, w.SpinID, w.Status, w.ClaimedAt, w.DeliveredAt, w.CreatedAt, p.Name,
		w.Table, p.Table, w.PrizeID, p.ID, w.UserID, w.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_won_prizes")
	}
	defer rows.Close()

	wonPrizes := make([]*WonPrize, 0)
	var totalCount int

	for rows.Next() {
		won := &WonPrize{}
		err := rows.Scan(
			&won.ID, &won.UserID, &won.PrizeID, &won.SpinID, &won.Status,
			&won.ClaimedAt, &won.DeliveredAt, &won.CreatedAt, &won.PrizeName,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_won_prize")
		}
		wonPrizes = append(wonPrizes, won)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_won_prizes_rows")
	}

	return wonPrizes, totalCount, nil
}

func (repository *PostgresRepository) FindWonPrizeByID(context context.Context, id string) (*WonPrize, error) {
	w := schema.WonPrize
	query := fmt.Sprintf(
		"SELECT %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1",
		w.ID, w.UserID, w.PrizeID, w.SpinID, w.Status, w.ClaimedAt, w.DeliveredAt, w.CreatedAt,
		w.Table, w.ID,
	)

	won := &WonPrize{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&won.ID, &won.UserID, &won.PrizeID, &won.SpinID, &won.Status,
		&won.ClaimedAt, &won.DeliveredAt, &won.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_won_prize_by_id")
	}
	return won, nil
}

// Claim flips pending to claimed, guarded on the pending state.
func (repository *PostgresRepository) Claim(context context.Context, id string) error {
	w := schema.WonPrize
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s = $4",
		w.Table, w.Status, w.ClaimedAt, w.ID, w.Status,
	)

	tag, err := repository.db.Exec(context, query, id, WonStatusClaimed, time.Now(), WonStatusPending)
	if err != nil {
		return dberr.Wrap(err, "claim_won_prize")
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Prize has already been claimed")
	}
	return nil
}

// Deliver flips pending or claimed to delivered, rejecting double hand-overs.
func (repository *PostgresRepository) Deliver(context context.Context, id string) error {
	w := schema.WonPrize
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s != $2",
		w.Table, w.Status, w.DeliveredAt, w.ID, w.Status,
	)

	tag, err := repository.db.Exec(context, query, id, WonStatusDelivered, time.Now())
	if err != nil {
		return dberr.Wrap(err, "deliver_won_prize")
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Prize has already been delivered")
	}
	return nil
}
