// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/zled/internal/platform/apperr"
	"github.com/taibuivan/zled/internal/platform/constants"
	"github.com/taibuivan/zled/internal/platform/sec"
	"github.com/taibuivan/zled/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider signs access tokens; [sec.TokenService] in production.
type TokenProvider interface {
	GenerateAccessToken(accountID, email, role string, timeToLive time.Duration) (string, error)
}

// LoginInput carries the credentials of a login attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession is the result of a successful login.
type LoginSession struct {
	AccessToken string
	ExpiresIn   time.Duration
	Account     *Account
}

// AdminSeed describes the administrator created at startup.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

// Service implements account authentication use cases.
type Service struct {
	accountRepository AccountRepository
	tokenProvider     TokenProvider
	logger            *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(accountRepo AccountRepository, tokenProv TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		tokenProvider:     tokenProv,
		logger:            logger,
	}
}

// # Login Flow

/*
Login authenticates an account by email and password.

Description: Unknown emails and wrong passwords produce the same error so
accounts cannot be enumerated.

Returns:
  - *LoginSession: Access token and account
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	account, err := service.accountRepository.FindByEmail(context, strings.TrimSpace(input.Email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	if err := sec.ComparePassword(account.PasswordHash, input.Password); err != nil {
		if !errors.Is(err, sec.ErrPasswordMismatch) {
			service.logger.Error("password_hash_unusable", slog.String("account_id", account.ID), slog.Any("error", err))
		}
		service.logger.Warn("login_rejected", slog.String("account_id", account.ID))
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(account.ID, account.Email, string(account.Role), constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.Info("login_succeeded",
		slog.String("account_id", account.ID),
		slog.String("role", string(account.Role)),
	)

	return &LoginSession{
		AccessToken: accessToken,
		ExpiresIn:   constants.AccessTokenTTL,
		Account:     account,
	}, nil
}

// # Profile

// Me returns the account behind an authenticated request.
func (service *Service) Me(context context.Context, accountID string) (*Account, error) {
	return service.accountRepository.FindByID(context, accountID)
}

// # Bootstrap

/*
EnsureAdmin creates the administrator account on first start.

Description: Does nothing when seed has no email or the account already
exists. Existing passwords are never overwritten.
*/
func (service *Service) EnsureAdmin(context context.Context, seed AdminSeed) error {
	if seed.Email == "" {
		return nil
	}

	_, err := service.accountRepository.FindByEmail(context, seed.Email)
	if err == nil {
		service.logger.Debug("admin_seed_skipped", slog.String("email", seed.Email))
		return nil
	}
	if !apperr.IsNotFound(err) {
		return fmt.Errorf("auth: lookup admin: %w", err)
	}

	hash, err := sec.HashPassword(seed.Password)
	if err != nil {
		return err
	}

	name := seed.Name
	if name == "" {
		name = "Administrator"
	}

	account := &Account{
		Email:        seed.Email,
		Name:         name,
		PasswordHash: hash,
		Role:         sec.RoleAdmin,
	}
	if err := service.accountRepository.Create(context, account, constants.DefaultPageDuration); err != nil {
		return fmt.Errorf("auth: create admin: %w", err)
	}

	service.logger.Info("admin_seeded", slog.String("account_id", account.ID), slog.String("email", account.Email))
	return nil
}
