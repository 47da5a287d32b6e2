package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inmohub/identity-service/internal/domain"
)

// fakeStaffRepo keeps staff records in memory and resolves activation codes
// by scanning every record, mirroring store behavior for the service layer.
type fakeStaffRepo struct {
	seq     int
	records []*domain.Staff
}

func (f *fakeStaffRepo) Create(_ context.Context, staff *domain.Staff) error {
	f.seq++
	staff.ID = f.seq
	stored := *staff
	f.records = append(f.records, &stored)
	return nil
}

func (f *fakeStaffRepo) Update(_ context.Context, staff *domain.Staff) error {
	for i, record := range f.records {
		if record.ID == staff.ID {
			updated := *staff
			updated.ActivationCodes = record.ActivationCodes
			f.records[i] = &updated
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.Staff, error) {
	for _, record := range f.records {
		if record.Email == email {
			copied := *record
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) GetByEmailAndStatus(_ context.Context, email string, status domain.MembershipStatus) (*domain.Staff, error) {
	for _, record := range f.records {
		if record.Email == email && record.Status == status {
			copied := *record
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) ListByEmailAndStatus(_ context.Context, email string, status domain.MembershipStatus) ([]domain.Staff, error) {
	var result []domain.Staff
	for _, record := range f.records {
		if record.Email == email && record.Status == status {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (f *fakeStaffRepo) GetByEmailAndCompany(_ context.Context, email, taxIdentificationNumber string) (*domain.Staff, error) {
	for _, record := range f.records {
		if record.Email == email && record.TaxIdentificationNumber != nil &&
			*record.TaxIdentificationNumber == taxIdentificationNumber {
			copied := *record
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) AddActivationCode(_ context.Context, staffID int, code *domain.ActivationCode) error {
	for _, record := range f.records {
		if record.ID == staffID {
			code.ID = len(record.ActivationCodes) + 1
			record.ActivationCodes = append(record.ActivationCodes, *code)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeStaffRepo) FindByActivationCode(_ context.Context, code string, now time.Time) (*domain.Staff, error) {
	for _, record := range f.records {
		if _, ok := record.FindValidCode(code, now); ok {
			copied := *record
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeOperatorRepo struct {
	seq     int
	records []*domain.Operator
}

func (f *fakeOperatorRepo) Create(_ context.Context, operator *domain.Operator) error {
	f.seq++
	operator.ID = f.seq
	stored := *operator
	f.records = append(f.records, &stored)
	return nil
}

func (f *fakeOperatorRepo) Update(_ context.Context, operator *domain.Operator) error {
	for i, record := range f.records {
		if record.ID == operator.ID {
			updated := *operator
			f.records[i] = &updated
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeOperatorRepo) GetByEmail(_ context.Context, email string) (*domain.Operator, error) {
	for _, record := range f.records {
		if record.Email == email {
			copied := *record
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// downStaffRepo simulates a backing store outage: every call fails with the
// same non-sentinel error.
type downStaffRepo struct {
	err error
}

func (f *downStaffRepo) Create(context.Context, *domain.Staff) error { return f.err }
func (f *downStaffRepo) Update(context.Context, *domain.Staff) error { return f.err }
func (f *downStaffRepo) GetByEmail(context.Context, string) (*domain.Staff, error) {
	return nil, f.err
}
func (f *downStaffRepo) GetByEmailAndStatus(context.Context, string, domain.MembershipStatus) (*domain.Staff, error) {
	return nil, f.err
}
func (f *downStaffRepo) ListByEmailAndStatus(context.Context, string, domain.MembershipStatus) ([]domain.Staff, error) {
	return nil, f.err
}
func (f *downStaffRepo) GetByEmailAndCompany(context.Context, string, string) (*domain.Staff, error) {
	return nil, f.err
}
func (f *downStaffRepo) AddActivationCode(context.Context, int, *domain.ActivationCode) error {
	return f.err
}
func (f *downStaffRepo) FindByActivationCode(context.Context, string, time.Time) (*domain.Staff, error) {
	return nil, f.err
}

type downOperatorRepo struct {
	err error
}

func (f *downOperatorRepo) Create(context.Context, *domain.Operator) error { return f.err }
func (f *downOperatorRepo) Update(context.Context, *domain.Operator) error { return f.err }
func (f *downOperatorRepo) GetByEmail(context.Context, string) (*domain.Operator, error) {
	return nil, f.err
}

// fakeCooldown grants or denies every acquisition.
type fakeCooldown struct {
	allow bool
	keys  []string
}

func (f *fakeCooldown) AcquireCooldown(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allow, nil
}
