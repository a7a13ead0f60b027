// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/users/auth"
	"github.com/taibuivan/zled/pkg/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAccounts struct {
	mu        sync.Mutex
	accounts  map[string]*auth.Account
	durations map[string]int
	findErr   error
}

func newFakeAccounts(accounts ...*auth.Account) *fakeAccounts {
	repo := &fakeAccounts{accounts: map[string]*auth.Account{}, durations: map[string]int{}}
	for _, account := range accounts {
		repo.accounts[account.ID] = account
	}
	return repo
}

func (f *fakeAccounts) FindByID(_ context.Context, id string) (*auth.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[id]; ok {
		return account, nil
	}
	return nil, apperr.NotFound("Account")
}

func (f *fakeAccounts) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, account := range f.accounts {
		if strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (f *fakeAccounts) Create(_ context.Context, account *auth.Account, pageDuration int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return apperr.Conflict("User with this email already exists")
		}
	}
	if account.ID == "" {
		account.ID = uuid.New()
	}
	f.accounts[account.ID] = account
	f.durations[account.ID] = pageDuration
	return nil
}

type fakeTokens struct {
	issued []string
}

func (f *fakeTokens) GenerateAccessToken(accountID, _, role string, _ time.Duration) (string, error) {
	token := "token:" + accountID + ":" + role
	f.issued = append(f.issued, token)
	return token, nil
}
