// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aromero/farmagestor/internal/config"
	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/store"
	"github.com/aromero/farmagestor/internal/utils"
	"github.com/aromero/farmagestor/models"
)

// AuthService authenticates users and tracks the active session.
type AuthService interface {
	// Login validates the credentials, records the session user and returns
	// a signed token for the HTTP surface.
	Login(ctx context.Context, username, password string) (models.Usuario, models.Token, error)

	// Logout clears the recorded session. Safe to call with no session.
	Logout(ctx context.Context) error

	// CurrentUser returns the recorded session user or [ErrNoSession].
	CurrentUser(ctx context.Context) (models.Usuario, error)
}

type authService struct {
	usuarios   repository.UsuarioRepository
	configRepo repository.ConfigRepository
	app        config.App
	logger     *logger.Logger
}

func NewAuthService(usuarios repository.UsuarioRepository, configRepo repository.ConfigRepository, app config.App, logger *logger.Logger) AuthService {
	return &authService{usuarios: usuarios, configRepo: configRepo, app: app, logger: logger}
}

func (s *authService) Login(ctx context.Context, username, password string) (models.Usuario, models.Token, error) {
	if username == "" || password == "" {
		return models.Usuario{}, models.Token{}, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.usuarios.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrRecordNotFound) {
		return models.Usuario{}, models.Token{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Usuario{}, models.Token{}, fmt.Errorf("error finding user: %w", err)
	}

	if user.Password != password {
		return models.Usuario{}, models.Token{}, ErrInvalidCredentials
	}
	if !user.Activo {
		return models.Usuario{}, models.Token{}, ErrUserInactive
	}

	token, err := utils.GenerateJWTToken(s.app.TokenIssuer, user.ID, s.app.TokenDuration, s.app.TokenSignKey)
	if err != nil {
		return models.Usuario{}, models.Token{}, fmt.Errorf("error generating token: %w", err)
	}

	session := user.SinPassword()
	if err := s.configRepo.Set(ctx, models.ConfigCurrentUser, session); err != nil {
		return models.Usuario{}, models.Token{}, fmt.Errorf("error recording session: %w", err)
	}

	s.logger.Info().
		Str("func", "authService.Login").
		Str("username", user.Username).
		Int64("user_id", user.ID).
		Msg("user logged in")

	return session, token, nil
}

func (s *authService) Logout(ctx context.Context) error {
	return s.configRepo.Delete(ctx, models.ConfigCurrentUser)
}

func (s *authService) CurrentUser(ctx context.Context) (models.Usuario, error) {
	var user models.Usuario
	err := s.configRepo.Get(ctx, models.ConfigCurrentUser, &user)
	if errors.Is(err, store.ErrRecordNotFound) {
		return models.Usuario{}, ErrNoSession
	}
	if err != nil {
		return models.Usuario{}, err
	}
	return user, nil
}
