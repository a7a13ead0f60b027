// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/database/schema"
	"github.com/taibuivan/zled/internal/platform/dberr"
	"github.com/taibuivan/zled/internal/platform/postgres"
	"github.com/taibuivan/zled/pkg/uuid"
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

var accountColumns = strings.Join(schema.SignageAccount.Columns(), ", ")

/*
FindByID retrieves an account by primary key.
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		accountColumns, schema.SignageAccount.Table, schema.SignageAccount.ID,
	)
	return scanAccount(repository.pool.QueryRow(context, query, id))
}

/*
FindByEmail retrieves an account by email, ignoring case.
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`,
		accountColumns, schema.SignageAccount.Table, schema.SignageAccount.Email,
	)
	return scanAccount(repository.pool.QueryRow(context, query, email))
}

/*
Create inserts the account and its settings row in one transaction.

Description: A unique violation on the email index becomes apperr.Conflict.
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account, pageDuration int) error {
	now := time.Now().UTC()
	if account.ID == "" {
		account.ID = uuid.New()
	}
	account.CreatedAt = now
	account.UpdatedAt = now

	accountQuery := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.SignageAccount.Table, accountColumns,
	)
	settingQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.SignageScreenSetting.Table,
		schema.SignageScreenSetting.AccountID,
		schema.SignageScreenSetting.PageDuration,
		schema.SignageScreenSetting.UpdatedAt,
	)

	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, accountQuery,
			account.ID,
			account.Email,
			account.Name,
			account.PasswordHash,
			account.Role,
			account.CreatedAt,
			account.UpdatedAt,
		); err != nil {
			return err
		}

		_, err := tx.Exec(context, settingQuery, account.ID, pageDuration, now)
		return err
	})

	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("User with this email already exists").WithCause(err)
	}
	return dberr.Wrap(err, "Account")
}

func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.PasswordHash,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Account")
	}
	return account, nil
}
