package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Upsert inserts or updates a member record keyed by id.
func (r *PostgresRepository) Upsert(ctx context.Context, m *Member) error {
	var err error
	if m.ID == uuid.Nil {
		query := `
			INSERT INTO members (first_name, last_name, email, service_number, membership_status, created_by, updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			RETURNING id, created_at, updated_at`
		err = r.pool.QueryRow(ctx, query,
			m.FirstName, m.LastName, m.Email, m.ServiceNumber, m.Status, m.CreatedBy,
		).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	} else {
		query := `
			UPDATE members
			SET first_name = $2, last_name = $3, email = $4, service_number = $5,
			    membership_status = $6, updated_by = $7, updated_at = now()
			WHERE id = $1
			RETURNING created_at, updated_at, created_by`
		err = r.pool.QueryRow(ctx, query,
			m.ID, m.FirstName, m.LastName, m.Email, m.ServiceNumber, m.Status, m.UpdatedBy,
		).Scan(&m.CreatedAt, &m.UpdatedAt, &m.CreatedBy)
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrMemberNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("upserting member: %w", err)
	}

	return nil
}

// GetByID retrieves a single member by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	query := `
		SELECT id, first_name, last_name, email, service_number, membership_status,
		       created_by, updated_by, created_at, updated_at
		FROM members
		WHERE id = $1`

	var m Member
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.ServiceNumber, &m.Status,
		&m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("querying member: %w", err)
	}

	return &m, nil
}

// List retrieves all members ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Member, error) {
	query := `
		SELECT id, first_name, last_name, email, service_number, membership_status,
		       created_by, updated_by, created_at, updated_at
		FROM members
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		err := rows.Scan(
			&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.ServiceNumber, &m.Status,
			&m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	if members == nil {
		members = []Member{}
	}

	return members, nil
}

// Delete removes a member by its UUID. Join rows cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMemberNotFound
	}

	return nil
}
