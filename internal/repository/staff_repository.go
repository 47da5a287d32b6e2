package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inmohub/identity-service/internal/domain"
)

// StaffRepository defines persistence access for staff memberships and
// their activation codes.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	Update(ctx context.Context, staff *domain.Staff) error
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
	GetByEmailAndStatus(ctx context.Context, email string, status domain.MembershipStatus) (*domain.Staff, error)
	ListByEmailAndStatus(ctx context.Context, email string, status domain.MembershipStatus) ([]domain.Staff, error)
	GetByEmailAndCompany(ctx context.Context, email, taxIdentificationNumber string) (*domain.Staff, error)
	AddActivationCode(ctx context.Context, staffID int, code *domain.ActivationCode) error
	FindByActivationCode(ctx context.Context, code string, now time.Time) (*domain.Staff, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository returns a Postgres-backed implementation.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, first_name, family_name, email, password_hash, company_role, status,
        tax_identification_number, birth_date, identity_document, job_title, address, phone, gender,
        registration_date`

func scanStaff(row pgx.Row) (*domain.Staff, error) {
	var staff domain.Staff
	if err := row.Scan(
		&staff.ID,
		&staff.FirstName,
		&staff.FamilyName,
		&staff.Email,
		&staff.PasswordHash,
		&staff.CompanyRole,
		&staff.Status,
		&staff.TaxIdentificationNumber,
		&staff.BirthDate,
		&staff.IdentityDocument,
		&staff.JobTitle,
		&staff.Address,
		&staff.Phone,
		&staff.Gender,
		&staff.RegistrationDate,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	const query = `
        INSERT INTO staff_profile (first_name, family_name, email, password_hash, company_role, status,
            tax_identification_number, birth_date, identity_document, job_title, address, phone, gender,
            registration_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		staff.FirstName,
		staff.FamilyName,
		staff.Email,
		staff.PasswordHash,
		staff.CompanyRole,
		staff.Status,
		staff.TaxIdentificationNumber,
		staff.BirthDate,
		staff.IdentityDocument,
		staff.JobTitle,
		staff.Address,
		staff.Phone,
		staff.Gender,
		staff.RegistrationDate,
	).Scan(&staff.ID)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	const query = `
        UPDATE staff_profile
        SET first_name=$1, family_name=$2, password_hash=$3, company_role=$4, status=$5,
            tax_identification_number=$6, birth_date=$7, identity_document=$8, job_title=$9,
            address=$10, phone=$11, gender=$12
        WHERE id=$13`

	cmd, err := r.pool.Exec(ctx, query,
		staff.FirstName,
		staff.FamilyName,
		staff.PasswordHash,
		staff.CompanyRole,
		staff.Status,
		staff.TaxIdentificationNumber,
		staff.BirthDate,
		staff.IdentityDocument,
		staff.JobTitle,
		staff.Address,
		staff.Phone,
		staff.Gender,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff_profile WHERE email=$1 ORDER BY id LIMIT 1`
	return scanStaff(r.pool.QueryRow(ctx, query, email))
}

func (r *staffRepository) GetByEmailAndStatus(ctx context.Context, email string, status domain.MembershipStatus) (*domain.Staff, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff_profile WHERE email=$1 AND status=$2 ORDER BY id LIMIT 1`
	return scanStaff(r.pool.QueryRow(ctx, query, email, status))
}

func (r *staffRepository) ListByEmailAndStatus(ctx context.Context, email string, status domain.MembershipStatus) ([]domain.Staff, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff_profile WHERE email=$1 AND status=$2 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, email, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Staff
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) GetByEmailAndCompany(ctx context.Context, email, taxIdentificationNumber string) (*domain.Staff, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff_profile
        WHERE email=$1 AND tax_identification_number=$2 ORDER BY id LIMIT 1`
	return scanStaff(r.pool.QueryRow(ctx, query, email, taxIdentificationNumber))
}

func (r *staffRepository) AddActivationCode(ctx context.Context, staffID int, code *domain.ActivationCode) error {
	const query = `
        INSERT INTO activation_code (staff_id, code, expiration_date)
        VALUES ($1, $2, $3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, staffID, code.Code, code.ExpirationDate).Scan(&code.ID)
}

// FindByActivationCode resolves the staff owning an unexpired code with the
// given value. The store's index over code values stands in for a scan of
// every staff record; observable behavior is the same.
func (r *staffRepository) FindByActivationCode(ctx context.Context, code string, now time.Time) (*domain.Staff, error) {
	const query = `SELECT ` + prefixedStaffColumns + ` FROM staff_profile s
        JOIN activation_code c ON c.staff_id = s.id
        WHERE c.code=$1 AND c.expiration_date > $2
        ORDER BY s.id LIMIT 1`
	return scanStaff(r.pool.QueryRow(ctx, query, code, now))
}

const prefixedStaffColumns = `s.id, s.first_name, s.family_name, s.email, s.password_hash, s.company_role,
        s.status, s.tax_identification_number, s.birth_date, s.identity_document, s.job_title, s.address,
        s.phone, s.gender, s.registration_date`
