// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/database/schema"
	"github.com/taibuivan/zled/internal/platform/dberr"
	"github.com/taibuivan/zled/internal/platform/postgres"
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

var documentColumns = strings.Join(schema.SignageDocument.Columns(), ", ")

func (repository *PostgresRepository) ScreenExists(context context.Context, screenID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.SignageAccount.Table, schema.SignageAccount.ID, schema.SignageAccount.Role,
	)

	var exists bool
	err := repository.db.QueryRow(context, query, screenID, sec.RoleScreen).Scan(&exists)
	return exists, dberr.Wrap(err, "Screen")
}

func (repository *PostgresRepository) ListByScreen(context context.Context, screenID string) ([]*Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC, %s ASC`,
		documentColumns, schema.SignageDocument.Table, schema.SignageDocument.AccountID,
		schema.SignageDocument.SortOrder, schema.SignageDocument.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, screenID)
	if err != nil {
		return nil, dberr.Wrap(err, "Document")
	}
	defer rows.Close()

	documents := []*Document{}
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	return documents, dberr.Wrap(rows.Err(), "Document")
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		documentColumns, schema.SignageDocument.Table, schema.SignageDocument.ID,
	)
	return scanDocument(repository.db.QueryRow(context, query, id))
}

func (repository *PostgresRepository) NextSortOrder(context context.Context, screenID string) (int, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s) + 1, 0) FROM %s WHERE %s = $1`,
		schema.SignageDocument.SortOrder, schema.SignageDocument.Table, schema.SignageDocument.AccountID,
	)

	var next int
	err := repository.db.QueryRow(context, query, screenID).Scan(&next)
	return next, dberr.Wrap(err, "Document")
}

func (repository *PostgresRepository) Create(context context.Context, document *Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING %s`,
		schema.SignageDocument.Table, documentColumns, schema.SignageDocument.CreatedAt,
	)

	err := repository.db.QueryRow(context, query,
		document.ID,
		document.ScreenID,
		document.Filename,
		document.FilePath,
		document.SortOrder,
		document.PageCount,
		document.SizeBytes,
	).Scan(&document.CreatedAt)

	return dberr.Wrap(err, "Screen")
}

func (repository *PostgresRepository) Delete(context context.Context, screenID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SignageDocument.Table, schema.SignageDocument.ID, schema.SignageDocument.AccountID,
	)

	cmd, err := repository.db.Exec(context, query, id, screenID)
	if err != nil {
		return dberr.Wrap(err, "Document")
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Document")
	}
	return nil
}

/*
Reorder rewrites sort orders inside one transaction.

Description: Ownership of every id is checked first, then the updates are
pipelined through a pgx.Batch.
*/
func (repository *PostgresRepository) Reorder(context context.Context, screenID string, ids []string) error {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1 AND %s = ANY($2)`,
		schema.SignageDocument.Table, schema.SignageDocument.AccountID, schema.SignageDocument.ID,
	)
	updateQuery := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2 AND %s = $3`,
		schema.SignageDocument.Table, schema.SignageDocument.SortOrder,
		schema.SignageDocument.ID, schema.SignageDocument.AccountID,
	)

	err := postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		var owned int
		if err := tx.QueryRow(context, countQuery, screenID, ids).Scan(&owned); err != nil {
			return err
		}
		if owned != len(ids) {
			return apperr.NotFound("Document")
		}

		batch := &pgx.Batch{}
		for index, id := range ids {
			batch.Queue(updateQuery, index, id, screenID)
		}

		response := tx.SendBatch(context, batch)
		if err := response.Close(); err != nil {
			return fmt.Errorf("postgres: failed to batch reorder documents: %w", err)
		}
		return nil
	})

	return dberr.Wrap(err, "Document")
}

func scanDocument(row pgx.Row) (*Document, error) {
	document := &Document{}
	err := row.Scan(
		&document.ID,
		&document.ScreenID,
		&document.Filename,
		&document.FilePath,
		&document.SortOrder,
		&document.PageCount,
		&document.SizeBytes,
		&document.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Document")
	}
	return document, nil
}
