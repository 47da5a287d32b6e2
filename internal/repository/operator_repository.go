package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inmohub/identity-service/internal/domain"
)

// OperatorRepository defines persistence access for operator accounts.
type OperatorRepository interface {
	Create(ctx context.Context, operator *domain.Operator) error
	Update(ctx context.Context, operator *domain.Operator) error
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
}

type operatorRepository struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository returns a Postgres-backed implementation.
func NewOperatorRepository(pool *pgxpool.Pool) OperatorRepository {
	return &operatorRepository{pool: pool}
}

func (r *operatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	const query = `
        INSERT INTO operator_profile (first_name, family_name, email, password_hash, system_role, registration_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		operator.FirstName,
		operator.FamilyName,
		operator.Email,
		operator.PasswordHash,
		operator.SystemRole,
		operator.RegistrationDate,
	).Scan(&operator.ID)
}

func (r *operatorRepository) Update(ctx context.Context, operator *domain.Operator) error {
	const query = `
        UPDATE operator_profile
        SET first_name=$1, family_name=$2, password_hash=$3, system_role=$4
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		operator.FirstName,
		operator.FamilyName,
		operator.PasswordHash,
		operator.SystemRole,
		operator.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	const query = `
        SELECT id, first_name, family_name, email, password_hash, system_role, registration_date
        FROM operator_profile WHERE email=$1`

	var operator domain.Operator
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&operator.ID,
		&operator.FirstName,
		&operator.FamilyName,
		&operator.Email,
		&operator.PasswordHash,
		&operator.SystemRole,
		&operator.RegistrationDate,
	); err != nil {
		return nil, err
	}
	return &operator, nil
}
