// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package screen

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/database/schema"
	"github.com/taibuivan/zled/internal/platform/dberr"
	"github.com/taibuivan/zled/internal/platform/sec"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectScreens joins each account with its document count.
var selectScreens = fmt.Sprintf(`
	SELECT a.%s, a.%s, a.%s, a.%s, a.%s, count(d.%s)
	FROM %s a
	LEFT JOIN %s d ON d.%s = a.%s
	WHERE a.%s = '%s'`,
	schema.SignageAccount.ID, schema.SignageAccount.Email, schema.SignageAccount.Name,
	schema.SignageAccount.CreatedAt, schema.SignageAccount.UpdatedAt, schema.SignageDocument.ID,
	schema.SignageAccount.Table,
	schema.SignageDocument.Table, schema.SignageDocument.AccountID, schema.SignageAccount.ID,
	schema.SignageAccount.Role, sec.RoleScreen,
)

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Screen, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.SignageAccount.Table, schema.SignageAccount.Role,
	)

	var total int
	if err := repository.db.QueryRow(context, countQuery, sec.RoleScreen).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Screen")
	}

	query := selectScreens + fmt.Sprintf(`
	GROUP BY a.%s
	ORDER BY a.%s DESC
	LIMIT $1 OFFSET $2`,
		schema.SignageAccount.ID, schema.SignageAccount.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Screen")
	}
	defer rows.Close()

	screens := []*Screen{}
	for rows.Next() {
		screen, err := scanScreen(rows)
		if err != nil {
			return nil, 0, err
		}
		screens = append(screens, screen)
	}

	return screens, total, dberr.Wrap(rows.Err(), "Screen")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Screen, error) {
	query := selectScreens + fmt.Sprintf(` AND a.%s = $1 GROUP BY a.%s`,
		schema.SignageAccount.ID, schema.SignageAccount.ID,
	)
	return scanScreen(repository.db.QueryRow(context, query, id))
}

func (repository *PostgresRepository) DocumentLocations(context context.Context, id string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.SignageDocument.FilePath, schema.SignageDocument.Table, schema.SignageDocument.AccountID,
	)

	rows, err := repository.db.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "Document")
	}

	locations, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return locations, dberr.Wrap(err, "Document")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SignageAccount.Table, schema.SignageAccount.ID, schema.SignageAccount.Role,
	)

	cmd, err := repository.db.Exec(context, query, id, sec.RoleScreen)
	if err != nil {
		return dberr.Wrap(err, "Screen")
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Screen")
	}
	return nil
}

func scanScreen(row pgx.Row) (*Screen, error) {
	screen := &Screen{}
	err := row.Scan(
		&screen.ID,
		&screen.Email,
		&screen.Name,
		&screen.CreatedAt,
		&screen.UpdatedAt,
		&screen.DocumentCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Screen")
	}
	return screen, nil
}
