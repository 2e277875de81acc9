package campaign

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/othinieljo/sentinelle/internal/platform/database/schema"
	"github.com/othinieljo/sentinelle/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func campaignColumns() string {
	c := schema.Campaign
	return strings.Join([]string{
		c.ID, c.Name, c.Slug, c.Description, c.StartsAt, c.EndsAt,
		c.AmountPerSpin, c.IsActive, c.CreatedAt, c.UpdatedAt,
	}, ", ")
}

func scanCampaign(row interface{ Scan(...any) error }) (*Campaign, error) {
	campaign := &Campaign{}
	err := row.Scan(
		&campaign.ID,
		&campaign.Name,
		&campaign.Slug,
		&campaign.Description,
		&campaign.StartsAt,
		&campaign.EndsAt,
		&campaign.AmountPerSpin,
		&campaign.IsActive,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Campaign, int, error) {
	c := schema.Campaign

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(
		"SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE %s IS NULL",
		campaignColumns(), c.Table, c.DeletedAt,
	))

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", c.Name, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	if filter.IsActive != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", c.IsActive, argID))
		args = append(args, *filter.IsActive)
		argID++
	}

	if filter.RunningAt != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = TRUE AND %s <= $%d AND %s > $%d", c.IsActive, c.StartsAt, argID, c.EndsAt, argID))
		args = append(args, *filter.RunningAt)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC", c.StartsAt))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_campaigns")
	}
	defer rows.Close()

	campaigns := make([]*Campaign, 0)
	var totalCount int

	for rows.Next() {
		campaign := &Campaign{}
		err := rows.Scan(
			&campaign.ID,
			&campaign.Name,
			&campaign.Slug,
			&campaign.Description,
			&campaign.StartsAt,
			&campaign.EndsAt,
			&campaign.AmountPerSpin,
			&campaign.IsActive,
			&campaign.CreatedAt,
			&campaign.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_campaign")
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_campaigns_rows")
	}

	return campaigns, totalCount, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Campaign, error) {
	c := schema.Campaign
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL",
		campaignColumns(), c.Table, c.ID, c.DeletedAt)

	campaign, err := scanCampaign(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_campaign_by_id")
	}
	return campaign, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Campaign, error) {
	c := schema.Campaign
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL",
		campaignColumns(), c.Table, c.Slug, c.DeletedAt)

	campaign, err := scanCampaign(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "get_campaign_by_slug")
	}
	return campaign, nil
}

func (repository *PostgresRepository) Create(context context.Context, campaign *Campaign) error {
	c := schema.Campaign
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.Table, c.ID, c.Name, c.Slug, c.Description, c.StartsAt, c.EndsAt,
		c.AmountPerSpin, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)

	now := time.Now()
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = now
	}
	campaign.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		campaign.ID,
		campaign.Name,
		campaign.Slug,
		campaign.Description,
		campaign.StartsAt,
		campaign.EndsAt,
		campaign.AmountPerSpin,
		campaign.IsActive,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_campaign")
	}
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, campaign *Campaign) error {
	c := schema.Campaign
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1 AND %s IS NULL`,
		c.Table, c.Name, c.Description, c.StartsAt, c.EndsAt,
		c.AmountPerSpin, c.IsActive, c.UpdatedAt, c.ID, c.DeletedAt,
	)

	campaign.UpdatedAt = time.Now()
	_, err := repository.db.Exec(context, query,
		campaign.ID,
		campaign.Name,
		campaign.Description,
		campaign.StartsAt,
		campaign.EndsAt,
		campaign.AmountPerSpin,
		campaign.IsActive,
		campaign.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_campaign")
	}
	return nil
}

func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	c := schema.Campaign
	query := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1", c.Table, c.DeletedAt, c.ID)

	_, err := repository.db.Exec(context, query, id, time.Now())
	if err != nil {
		return dberr.Wrap(err, "soft_delete_campaign")
	}
	return nil
}
