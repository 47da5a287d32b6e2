package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/inmohub/identity-service/internal/auth"
	"github.com/inmohub/identity-service/internal/config"
	"github.com/inmohub/identity-service/internal/domain"
	"github.com/inmohub/identity-service/internal/events"
	"github.com/inmohub/identity-service/internal/repository"
	apperrors "github.com/inmohub/identity-service/pkg/util"
)

// OperatorService manages global administrative accounts.
type OperatorService struct {
	operators  repository.OperatorRepository
	staff      repository.StaffRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// OperatorDependencies encapsulates collaborator requirements.
type OperatorDependencies struct {
	OperatorRepo repository.OperatorRepository
	StaffRepo    repository.StaffRepository
	TokenManager *auth.TokenManager
	Dispatcher   events.Dispatcher
}

// NewOperatorService builds the service.
func NewOperatorService(cfg config.Config, deps OperatorDependencies) *OperatorService {
	return &OperatorService{
		operators:  deps.OperatorRepo,
		staff:      deps.StaffRepo,
		tokens:     deps.TokenManager,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Create registers a new operator on behalf of creatorRole. Admins may
// create admins and support; support may only create support.
func (s *OperatorService) Create(ctx context.Context, operator *domain.Operator, password string, creatorRole domain.SystemRole) error {
	if !creatorRole.CanCreate(operator.SystemRole) {
		return apperrors.NewForbidden("insufficient role to create this user: " + operator.Email)
	}
	if err := s.assertEmailUnused(ctx, operator.Email); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	operator.PasswordHash = hash
	operator.RegistrationDate = time.Now()
	if err := s.operators.Create(ctx, operator); err != nil {
		return err
	}
	s.publish(ctx, events.EventOperatorRegistered, operator.Email)
	return nil
}

// Login verifies credentials and mints a token carrying the operator's
// single global role.
func (s *OperatorService) Login(ctx context.Context, email, password string) (string, error) {
	operator, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("operator not found")
		}
		return "", err
	}
	if err := auth.ComparePassword(operator.PasswordHash, password); err != nil {
		return "", apperrors.NewUnauthorized("invalid credentials")
	}
	return s.tokens.CreateToken(operator.Email, operator.FullName(), operator.SystemRole)
}

// ChangePassword replaces the operator credential after verifying the old
// one.
func (s *OperatorService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	operator, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("operator not found")
		}
		return err
	}
	if err := auth.ComparePassword(operator.PasswordHash, oldPassword); err != nil {
		return apperrors.NewBadRequest("passwords do not match with old password")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	operator.PasswordHash = hash
	if err := s.operators.Update(ctx, operator); err != nil {
		return err
	}
	s.publish(ctx, events.EventOperatorPasswordChanged, email)
	return nil
}

// OperatorInfo is the mutable profile slice exposed by the general-info
// endpoints.
type OperatorInfo struct {
	FirstName  string
	FamilyName string
}

// UpdateGeneralInfo overwrites the operator profile fields.
func (s *OperatorService) UpdateGeneralInfo(ctx context.Context, email string, info OperatorInfo) error {
	operator, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("operator not found")
		}
		return err
	}
	operator.FirstName = info.FirstName
	operator.FamilyName = info.FamilyName
	return s.operators.Update(ctx, operator)
}

// ReadGeneralInfo returns the operator profile fields.
func (s *OperatorService) ReadGeneralInfo(ctx context.Context, email string) (*OperatorInfo, error) {
	operator, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("operator not found")
		}
		return nil, err
	}
	return &OperatorInfo{
		FirstName:  operator.FirstName,
		FamilyName: operator.FamilyName,
	}, nil
}

func (s *OperatorService) assertEmailUnused(ctx context.Context, email string) error {
	if _, err := s.operators.GetByEmail(ctx, email); err == nil {
		return apperrors.NewConflict("the email already exists: " + email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if s.staff != nil {
		if _, err := s.staff.GetByEmail(ctx, email); err == nil {
			return apperrors.NewConflict("the email already exists: " + email)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	return nil
}

func (s *OperatorService) publish(ctx context.Context, eventType events.EventType, email string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Email:     email,
		Timestamp: time.Now(),
	})
}
