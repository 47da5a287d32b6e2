package service

import (
	"context"
	"errors"
	"fmt"
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

// Cooldowner bounds how often notification codes can be requested per
// email. A nil Cooldowner disables throttling.
type Cooldowner interface {
	AcquireCooldown(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// StaffService owns the staff account state machine: invitation, company
// assignment, activation via code, credential change and reset.
type StaffService struct {
	staff       repository.StaffRepository
	operators   repository.OperatorRepository
	tokens      *auth.TokenManager
	dispatcher  events.Dispatcher
	cooldown    Cooldowner
	bcryptCost  int
	messages    config.MessageConfig
	cooldownTTL time.Duration
}

// StaffDependencies encapsulates collaborator requirements.
type StaffDependencies struct {
	StaffRepo    repository.StaffRepository
	OperatorRepo repository.OperatorRepository
	TokenManager *auth.TokenManager
	Dispatcher   events.Dispatcher
	Cooldown     Cooldowner
}

// NewStaffService builds the service.
func NewStaffService(cfg config.Config, deps StaffDependencies) *StaffService {
	return &StaffService{
		staff:       deps.StaffRepo,
		operators:   deps.OperatorRepo,
		tokens:      deps.TokenManager,
		dispatcher:  deps.Dispatcher,
		cooldown:    deps.Cooldown,
		bcryptCost:  cfg.Auth.BcryptCost,
		messages:    cfg.Message,
		cooldownTTL: cfg.Notification.Cooldown(),
	}
}

// newActivationCode mints a random code valid for thirty minutes.
func newActivationCode() domain.ActivationCode {
	return domain.ActivationCode{
		Code:           uuid.NewString(),
		ExpirationDate: time.Now().Add(domain.ActivationCodeTTL),
	}
}

// RegisterWithoutCompany creates a self-registered staff account: inactive,
// no company yet. Password may be empty; it can be set during activation.
func (s *StaffService) RegisterWithoutCompany(ctx context.Context, staff *domain.Staff, password string) error {
	staff.SetDefaultNoCompany()
	if err := s.assertEmailUnused(ctx, staff.Email); err != nil {
		return err
	}
	if password != "" {
		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return err
		}
		staff.PasswordHash = hash
	}
	staff.RegistrationDate = time.Now()
	if err := s.staff.Create(ctx, staff); err != nil {
		return err
	}
	s.publish(ctx, events.EventStaffRegistered, staff.Email, events.StaffRegisteredPayload{
		TaxIdentificationNumber: staff.TaxIdentificationNumber,
		CompanyRole:             string(staff.CompanyRole),
	})
	return nil
}

// RegisterWithCompany creates an invited staff membership for an existing
// company. Credentials are cleared until the invitation is accepted.
func (s *StaffService) RegisterWithCompany(ctx context.Context, staff *domain.Staff) error {
	staff.SetNewCompanyUserDefault()
	if err := s.assertEmailUnused(ctx, staff.Email); err != nil {
		return err
	}
	staff.RegistrationDate = time.Now()
	if err := s.staff.Create(ctx, staff); err != nil {
		return err
	}
	s.publish(ctx, events.EventStaffRegistered, staff.Email, events.StaffRegisteredPayload{
		TaxIdentificationNumber: staff.TaxIdentificationNumber,
		CompanyRole:             string(staff.CompanyRole),
	})
	return nil
}

// AssignCompany attaches a company to an inactive staff account that has
// none yet.
func (s *StaffService) AssignCompany(ctx context.Context, email, taxIdentificationNumber string) error {
	staff, err := s.staff.GetByEmailAndStatus(ctx, email, domain.StatusInactive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("there is no inactive user without company: " + email)
		}
		return err
	}
	if staff.HasCompany() {
		return apperrors.NewNotFound("there is no inactive user without company: " + email)
	}
	staff.TaxIdentificationNumber = &taxIdentificationNumber
	return s.staff.Update(ctx, staff)
}

// RequestActivationCode mints a new activation code for an inactive
// membership and returns the rendered message body for external delivery.
func (s *StaffService) RequestActivationCode(ctx context.Context, email, taxIdentificationNumber string) (string, error) {
	staff, err := s.staff.GetByEmailAndCompany(ctx, email, taxIdentificationNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("membership not found: " + email)
		}
		return "", err
	}
	if staff.Status == domain.StatusActive {
		return "", apperrors.NewConflict(fmt.Sprintf(
			"relationship is not inactive: email %s - taxIdentificationNumber %s",
			email, taxIdentificationNumber))
	}
	if err := s.acquireCooldown(ctx, "notify:activation:"+email); err != nil {
		return "", err
	}

	code := newActivationCode()
	if err := s.staff.AddActivationCode(ctx, staff.ID, &code); err != nil {
		return "", err
	}
	body := renderCodeMessage(s.messages.ActivationText, s.messages.ActivationBaseURL, code.Code)
	s.publish(ctx, events.EventActivationCodeIssued, email, events.CodeIssuedPayload{
		Subject:                 "Join the platform",
		Body:                    body,
		TaxIdentificationNumber: staff.TaxIdentificationNumber,
	})
	return body, nil
}

// RequestPasswordResetCode mints a new code for an active staff account and
// returns the rendered reset message body.
func (s *StaffService) RequestPasswordResetCode(ctx context.Context, email string) (string, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewConflict("user is not active: email " + email)
		}
		return "", err
	}
	if staff.Status != domain.StatusActive {
		return "", apperrors.NewConflict("user is not active: email " + email)
	}
	if err := s.acquireCooldown(ctx, "notify:reset:"+email); err != nil {
		return "", err
	}

	code := newActivationCode()
	if err := s.staff.AddActivationCode(ctx, staff.ID, &code); err != nil {
		return "", err
	}
	body := renderCodeMessage(s.messages.ResetText, s.messages.ResetBaseURL, code.Code)
	s.publish(ctx, events.EventPasswordResetRequested, email, events.CodeIssuedPayload{
		Subject: "Reset your password",
		Body:    body,
	})
	return body, nil
}

// Activate marks the staff owning an unexpired matching code as ACTIVE and
// reports whether the account already has a password.
func (s *StaffService) Activate(ctx context.Context, code string) (bool, error) {
	staff, err := s.staff.FindByActivationCode(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.NewNotFound("activation code not found or expired: " + code)
		}
		return false, err
	}
	staff.Status = domain.StatusActive
	if err := s.staff.Update(ctx, staff); err != nil {
		return false, err
	}
	passwordSet := staff.PasswordSet()
	s.publish(ctx, events.EventAccountActivated, staff.Email, events.AccountActivatedPayload{
		PasswordSet: passwordSet,
	})
	return passwordSet, nil
}

// ChangePassword replaces the credential of an active staff account after
// verifying the old one.
func (s *StaffService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	staff, err := s.staff.GetByEmailAndStatus(ctx, email, domain.StatusActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user not found")
		}
		return err
	}
	if err := auth.ComparePassword(staff.PasswordHash, oldPassword); err != nil {
		return apperrors.NewBadRequest("passwords do not match with old password")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	staff.PasswordHash = hash
	if err := s.staff.Update(ctx, staff); err != nil {
		return err
	}
	s.publish(ctx, events.EventStaffPasswordChanged, email, nil)
	return nil
}

// ResetPassword replaces the credential of the active staff account that
// owns the given unexpired code and matches the given email.
func (s *StaffService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	staff, err := s.staff.FindByActivationCode(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user not found")
		}
		return err
	}
	if staff.Status != domain.StatusActive || staff.Email != email {
		return apperrors.NewNotFound("user not found")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	staff.PasswordHash = hash
	if err := s.staff.Update(ctx, staff); err != nil {
		return err
	}
	s.publish(ctx, events.EventStaffPasswordChanged, email, nil)
	return nil
}

// Login verifies credentials and mints a token whose company-role claim
// covers every ACTIVE membership of the email.
func (s *StaffService) Login(ctx context.Context, email, password string) (string, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("user not found")
		}
		return "", err
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return "", apperrors.NewUnauthorized("invalid credentials")
	}

	memberships, err := s.staff.ListByEmailAndStatus(ctx, email, domain.StatusActive)
	if err != nil {
		return "", err
	}
	companyRoles := make(map[string]string, len(memberships))
	for _, membership := range memberships {
		if membership.TaxIdentificationNumber != nil {
			companyRoles[*membership.TaxIdentificationNumber] = string(membership.CompanyRole)
		}
	}
	return s.tokens.CreateCompanyToken(staff.Email, staff.FullName(), companyRoles)
}

// StaffInfo is the mutable profile slice exposed by the general-info
// endpoints.
type StaffInfo struct {
	FirstName        string
	FamilyName       string
	BirthDate        *time.Time
	IdentityDocument string
	JobTitle         string
	Address          string
	Phone            string
	Gender           domain.Gender
}

// UpdateGeneralInfo overwrites the profile fields of an active staff.
func (s *StaffService) UpdateGeneralInfo(ctx context.Context, email string, info StaffInfo) error {
	staff, err := s.staff.GetByEmailAndStatus(ctx, email, domain.StatusActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff not found")
		}
		return err
	}
	staff.FirstName = info.FirstName
	staff.FamilyName = info.FamilyName
	staff.BirthDate = info.BirthDate
	staff.IdentityDocument = info.IdentityDocument
	staff.JobTitle = info.JobTitle
	staff.Address = info.Address
	staff.Phone = info.Phone
	staff.Gender = info.Gender
	return s.staff.Update(ctx, staff)
}

// ReadGeneralInfo returns the profile fields of an active staff.
func (s *StaffService) ReadGeneralInfo(ctx context.Context, email string) (*StaffInfo, error) {
	staff, err := s.staff.GetByEmailAndStatus(ctx, email, domain.StatusActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff not found")
		}
		return nil, err
	}
	return &StaffInfo{
		FirstName:        staff.FirstName,
		FamilyName:       staff.FamilyName,
		BirthDate:        staff.BirthDate,
		IdentityDocument: staff.IdentityDocument,
		JobTitle:         staff.JobTitle,
		Address:          staff.Address,
		Phone:            staff.Phone,
		Gender:           staff.Gender,
	}, nil
}

// assertEmailUnused enforces the single global email namespace across both
// operator and staff populations. Relies on the store's read-then-write
// sequencing; no in-process locks.
func (s *StaffService) assertEmailUnused(ctx context.Context, email string) error {
	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return apperrors.NewConflict("the email already exists: " + email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if s.operators != nil {
		if _, err := s.operators.GetByEmail(ctx, email); err == nil {
			return apperrors.NewConflict("the email already exists: " + email)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	return nil
}

func (s *StaffService) acquireCooldown(ctx context.Context, key string) error {
	if s.cooldown == nil || s.cooldownTTL <= 0 {
		return nil
	}
	ok, err := s.cooldown.AcquireCooldown(ctx, key, s.cooldownTTL)
	if err != nil {
		// fail open: throttling is best effort
		return nil
	}
	if !ok {
		return apperrors.NewConflict("a code was requested too recently")
	}
	return nil
}

func (s *StaffService) publish(ctx context.Context, eventType events.EventType, email string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Email:     email,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func renderCodeMessage(text, baseURL, code string) string {
	return fmt.Sprintf("%s %s/%s", text, baseURL, code)
}
