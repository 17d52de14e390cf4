// Package auth implements the authentication core: password-backed
// registration and login, token pair issuance and verification, and
// refresh-token rotation. It holds no per-session server state: the two
// signing secrets and the user store are the only durable inputs.
package auth

import (
	"context"
	stderrors "errors"

	"github.com/gastoncarriquiry/menu-maker/auth/password"
	"github.com/gastoncarriquiry/menu-maker/errors"
	"github.com/gastoncarriquiry/menu-maker/logger"
	"github.com/gastoncarriquiry/menu-maker/store"
)

// Result is a successful registration or login: the user projection plus
// a fresh token pair.
type Result struct {
	User   AuthUser  `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Service orchestrates registration, login, profile lookup, and refresh.
// All failures crossing this boundary are *errors.AppError values.
type Service struct {
	store  store.UserStore
	hasher password.Hasher
	codec  *Codec
	log    *logger.Logger
}

// NewService wires the auth service from explicit dependencies.
func NewService(st store.UserStore, hasher password.Hasher, codec *Codec, log *logger.Logger) *Service {
	return &Service{
		store:  st,
		hasher: hasher,
		codec:  codec,
		log:    log.WithComponent("auth"),
	}
}

// Register creates a user and issues a first token pair. Input shape
// (well-formed email, password length) is enforced by the caller layer.
//
// Duplicate detection reads before writing; stores with atomic unique
// constraints additionally surface ErrDuplicateUser from Create, and both
// paths map to the same client error.
func (s *Service) Register(ctx context.Context, email, username, plainPassword string) (*Result, error) {
	_, err := s.store.GetByEmail(ctx, email)
	if err == nil {
		return nil, errors.DuplicateUser()
	}
	if !stderrors.Is(err, store.ErrUserNotFound) {
		return nil, errors.Database(err)
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, errors.Internal(err)
	}

	user := &store.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.store.Create(ctx, user); err != nil {
		if stderrors.Is(err, store.ErrDuplicateUser) {
			return nil, errors.DuplicateUser()
		}
		return nil, errors.Database(err)
	}

	authUser := AuthUser{ID: user.ID, Email: user.Email}
	tokens, err := s.codec.IssuePair(authUser)
	if err != nil {
		return nil, errors.Internal(err)
	}

	s.log.Info("user registered", logger.Fields(logger.FieldUserID, user.ID))
	return &Result{User: authUser, Tokens: tokens}, nil
}

// Login authenticates by email or username. Unknown identifier, wrong
// password, and deactivated account all fail with the same error so
// callers cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, identifier, plainPassword string) (*Result, error) {
	user, err := s.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if stderrors.Is(err, store.ErrUserNotFound) {
			return nil, errors.InvalidCredentials()
		}
		return nil, errors.Database(err)
	}

	if !user.IsActive || !s.hasher.Verify(plainPassword, user.PasswordHash) {
		return nil, errors.InvalidCredentials()
	}

	authUser := AuthUser{ID: user.ID, Email: user.Email}
	tokens, err := s.codec.IssuePair(authUser)
	if err != nil {
		return nil, errors.Internal(err)
	}

	s.log.Info("user logged in", logger.Fields(logger.FieldUserID, user.ID))
	return &Result{User: authUser, Tokens: tokens}, nil
}

// Refresh verifies the refresh token, re-reads the current user, and mints
// an entirely new pair. The old refresh token is not invalidated (there is
// no revocation store), but rotation always returns a new pair rather than
// renewing in place.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	subjectID, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, errors.InvalidToken().WithCause(err)
	}

	user, err := s.store.GetByID(ctx, subjectID)
	if err != nil {
		if stderrors.Is(err, store.ErrUserNotFound) {
			return TokenPair{}, errors.UserNotFound()
		}
		return TokenPair{}, errors.Database(err)
	}

	tokens, err := s.codec.IssuePair(AuthUser{ID: user.ID, Email: user.Email})
	if err != nil {
		return TokenPair{}, errors.Internal(err)
	}
	return tokens, nil
}

// GetByID looks up and projects a user.
func (s *Service) GetByID(ctx context.Context, id string) (*AuthUser, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, store.ErrUserNotFound) {
			return nil, errors.UserNotFound()
		}
		return nil, errors.Database(err)
	}
	return &AuthUser{ID: user.ID, Email: user.Email}, nil
}

// Codec exposes the token codec for the request guard middleware.
func (s *Service) Codec() *Codec {
	return s.codec
}
