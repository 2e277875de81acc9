package prize

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

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func prizeColumns() string {
	p := schema.Prize
	return strings.Join([]string{
		p.ID, p.Name, p.Description, p.ImageURL, p.Weight, p.Stock,
		p.IsActive, p.CreatedAt, p.UpdatedAt,
	}, ", ")
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Prize, int, error) {
	p := schema.Prize

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(
		"SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE %s IS NULL",
		prizeColumns(), p.Table, p.DeletedAt,
	))

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", p.Name, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	if filter.IsActive != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", p.IsActive, argID))
		args = append(args, *filter.IsActive)
		argID++
	}

	if filter.InStock {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s > 0", p.Stock))
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC", p.Name))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_prizes")
	}
	defer rows.Close()

	prizes := make([]*Prize, 0)
	var totalCount int

	for rows.Next() {
		prize := &Prize{}
		err := rows.Scan(
			&prize.ID,
			&prize.Name,
			&prize.Description,
			&prize.ImageURL,
			&prize.Weight,
			&prize.Stock,
			&prize.IsActive,
			&prize.CreatedAt,
			&prize.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_prize")
		}
		prizes = append(prizes, prize)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_prizes_rows")
	}

	return prizes, totalCount, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Prize, error) {
	p := schema.Prize
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL",
		prizeColumns(), p.Table, p.ID, p.DeletedAt)

	prize := &Prize{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&prize.ID,
		&prize.Name,
		&prize.Description,
		&prize.ImageURL,
		&prize.Weight,
		&prize.Stock,
		&prize.IsActive,
		&prize.CreatedAt,
		&prize.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_prize_by_id")
	}
	return prize, nil
}

func (repository *PostgresRepository) Create(context context.Context, prize *Prize) error {
	p := schema.Prize
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.Table, p.ID, p.Name, p.Description, p.ImageURL, p.Weight, p.Stock,
		p.IsActive, p.CreatedAt, p.UpdatedAt,
	)

	now := time.Now()
	if prize.CreatedAt.IsZero() {
		prize.CreatedAt = now
	}
	prize.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		prize.ID,
		prize.Name,
		prize.Description,
		prize.ImageURL,
		prize.Weight,
		prize.Stock,
		prize.IsActive,
		prize.CreatedAt,
		prize.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_prize")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, prize *Prize) error {
	p := schema.Prize
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1 AND %s IS NULL`,
		p.Table, p.Name, p.Description, p.ImageURL, p.Weight, p.Stock,
		p.IsActive, p.UpdatedAt, p.ID, p.DeletedAt,
	)

	prize.UpdatedAt = time.Now()
	_, err := repository.db.Exec(context, query,
		prize.ID,
		prize.Name,
		prize.Description,
		prize.ImageURL,
		prize.Weight,
		prize.Stock,
		prize.IsActive,
		prize.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_prize")
	}
	return nil
}

func (repository *PostgresRepository) AdjustStock(context context.Context, id string, delta int) error {
	p := schema.Prize

	// Conditional update so concurrent adjustments can never drive the
	// stock below zero.
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = %s + $2, %s = $3
		WHERE %s = $1 AND %s IS NULL AND %s + $2 >= 0`,
		p.Table, p.Stock, p.Stock, p.UpdatedAt, p.ID, p.DeletedAt, p.Stock,
	)

	tag, err := repository.db.Exec(context, query, id, delta, time.Now())
	if err != nil {
		return dberr.Wrap(err, "adjust_prize_stock")
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("Prize stock exhausted")
	}
	return nil
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	p := schema.Prize
	query := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1", p.Table, p.DeletedAt, p.ID)

	_, err := repository.db.Exec(context, query, id, time.Now())
	if err != nil {
		return dberr.Wrap(err, "soft_delete_prize")
	}
	return nil
}
