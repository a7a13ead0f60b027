// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

func (repository *PostgresRepository) ScreenExists(context context.Context, screenID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.SignageAccount.Table, schema.SignageAccount.ID, schema.SignageAccount.Role,
	)

	var exists bool
	err := repository.db.QueryRow(context, query, screenID, sec.RoleScreen).Scan(&exists)
	return exists, dberr.Wrap(err, "Screen")
}

func (repository *PostgresRepository) Find(context context.Context, screenID string) (*Settings, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.SignageScreenSetting.AccountID, schema.SignageScreenSetting.PageDuration, schema.SignageScreenSetting.UpdatedAt,
		schema.SignageScreenSetting.Table, schema.SignageScreenSetting.AccountID,
	)

	settings := &Settings{}
	err := repository.db.QueryRow(context, query, screenID).Scan(&settings.ScreenID, &settings.PageDuration, &settings.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "Settings")
	}
	return settings, nil
}

func (repository *PostgresRepository) Upsert(context context.Context, settings *Settings) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, NOW())
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s`,
		schema.SignageScreenSetting.Table,
		schema.SignageScreenSetting.AccountID, schema.SignageScreenSetting.PageDuration, schema.SignageScreenSetting.UpdatedAt,
		schema.SignageScreenSetting.AccountID,
		schema.SignageScreenSetting.PageDuration, schema.SignageScreenSetting.PageDuration,
		schema.SignageScreenSetting.UpdatedAt,
		schema.SignageScreenSetting.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, settings.ScreenID, settings.PageDuration).Scan(&settings.UpdatedAt)
	return dberr.Wrap(err, "Screen")
}
