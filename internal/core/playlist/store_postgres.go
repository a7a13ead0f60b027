// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/platform/database/schema"
	"github.com/taibuivan/zled/internal/platform/dberr"
	"github.com/taibuivan/zled/internal/platform/sec"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	selectScreen = fmt.Sprintf(`
		SELECT a.%s, a.%s, COALESCE(s.%s, %d)
		FROM %s a
		LEFT JOIN %s s ON s.%s = a.%s
		WHERE a.%s = $1 AND a.%s = $2`,
		schema.SignageAccount.ID, schema.SignageAccount.Name, schema.SignageScreenSetting.PageDuration, constants.DefaultPageDuration,
		schema.SignageAccount.Table,
		schema.SignageScreenSetting.Table, schema.SignageScreenSetting.AccountID, schema.SignageAccount.ID,
		schema.SignageAccount.ID, schema.SignageAccount.Role,
	)

	selectDocuments = fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC, %s ASC`,
		schema.SignageDocument.ID, schema.SignageDocument.Filename, schema.SignageDocument.FilePath,
		schema.SignageDocument.SortOrder, schema.SignageDocument.PageCount,
		schema.SignageDocument.Table,
		schema.SignageDocument.AccountID,
		schema.SignageDocument.SortOrder, schema.SignageDocument.CreatedAt,
	)
)

/*
Load sends the screen and document queries in one round trip.
*/
func (repository *PostgresRepository) Load(context context.Context, screenID string) (*Playlist, error) {
	batch := &pgx.Batch{}
	batch.Queue(selectScreen, screenID, sec.RoleScreen)
	batch.Queue(selectDocuments, screenID)

	results := repository.db.SendBatch(context, batch)
	defer results.Close()

	playlist := &Playlist{Documents: []Document{}}
	err := results.QueryRow().Scan(&playlist.Screen.ID, &playlist.Screen.Name, &playlist.Settings.PageDuration)
	if err != nil {
		return nil, dberr.Wrap(err, "Screen")
	}

	rows, err := results.Query()
	if err != nil {
		return nil, dberr.Wrap(err, "Document")
	}
	documents, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Document, error) {
		var document Document
		err := row.Scan(&document.ID, &document.Filename, &document.FilePath, &document.SortOrder, &document.PageCount)
		return document, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "Document")
	}

	playlist.Documents = append(playlist.Documents, documents...)
	return playlist, nil
}
