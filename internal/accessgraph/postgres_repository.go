package accessgraph

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

// CreateAccessGroup inserts a new access group record.
func (r *PostgresRepository) CreateAccessGroup(ctx context.Context, g *AccessGroup) error {
	query := `
		INSERT INTO access_groups (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, g.Name, g.Description).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateGroupName
		}
		return fmt.Errorf("inserting access group: %w", err)
	}

	return nil
}

// GetAccessGroupByID retrieves a single access group by its UUID.
func (r *PostgresRepository) GetAccessGroupByID(ctx context.Context, id uuid.UUID) (*AccessGroup, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM access_groups
		WHERE id = $1`

	var g AccessGroup
	err := r.pool.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("querying access group: %w", err)
	}

	return &g, nil
}

// ListAccessGroups retrieves all access groups ordered by creation time.
func (r *PostgresRepository) ListAccessGroups(ctx context.Context) ([]AccessGroup, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM access_groups
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing access groups: %w", err)
	}
	defer rows.Close()

	var groups []AccessGroup
	for rows.Next() {
		var g AccessGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning access group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating access group rows: %w", err)
	}

	if groups == nil {
		groups = []AccessGroup{}
	}

	return groups, nil
}

// CreateSection inserts a new section record.
func (r *PostgresRepository) CreateSection(ctx context.Context, s *Section) error {
	query := `
		INSERT INTO sections (name, type, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, s.Name, s.Type, s.Description).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting section: %w", err)
	}

	return nil
}

// GetSectionByID retrieves a single section by its UUID.
func (r *PostgresRepository) GetSectionByID(ctx context.Context, id uuid.UUID) (*Section, error) {
	query := `
		SELECT id, name, type, description, created_at, updated_at
		FROM sections
		WHERE id = $1`

	var s Section
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Type, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("querying section: %w", err)
	}

	return &s, nil
}

// ListSections retrieves all sections ordered by creation time.
func (r *PostgresRepository) ListSections(ctx context.Context) ([]Section, error) {
	query := `
		SELECT id, name, type, description, created_at, updated_at
		FROM sections
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	defer rows.Close()

	var sections []Section
	for rows.Next() {
		var s Section
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning section row: %w", err)
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating section rows: %w", err)
	}

	if sections == nil {
		sections = []Section{}
	}

	return sections, nil
}

// AddMemberToGroup upserts the member↔group join row.
func (r *PostgresRepository) AddMemberToGroup(ctx context.Context, memberID, groupID uuid.UUID) (JoinOutcome, error) {
	query := `
		INSERT INTO member_access_groups (member_id, access_group_id)
		VALUES ($1, $2)
		ON CONFLICT (member_id, access_group_id) DO NOTHING`

	return r.upsertJoin(ctx, query, memberID, groupID)
}

// RemoveMemberFromGroup deletes the member↔group join row if present.
func (r *PostgresRepository) RemoveMemberFromGroup(ctx context.Context, memberID, groupID uuid.UUID) (JoinOutcome, error) {
	query := `
		DELETE FROM member_access_groups
		WHERE member_id = $1 AND access_group_id = $2`

	return r.deleteJoin(ctx, query, memberID, groupID)
}

// GrantSectionToGroup upserts the section↔group join row.
func (r *PostgresRepository) GrantSectionToGroup(ctx context.Context, sectionID, groupID uuid.UUID) (JoinOutcome, error) {
	query := `
		INSERT INTO section_access_groups (section_id, access_group_id)
		VALUES ($1, $2)
		ON CONFLICT (section_id, access_group_id) DO NOTHING`

	return r.upsertJoin(ctx, query, sectionID, groupID)
}

// RevokeSectionFromGroup deletes the section↔group join row if present.
func (r *PostgresRepository) RevokeSectionFromGroup(ctx context.Context, sectionID, groupID uuid.UUID) (JoinOutcome, error) {
	query := `
		DELETE FROM section_access_groups
		WHERE section_id = $1 AND access_group_id = $2`

	return r.deleteJoin(ctx, query, sectionID, groupID)
}

// GroupsForMember retrieves the access groups the member belongs to.
func (r *PostgresRepository) GroupsForMember(ctx context.Context, memberID uuid.UUID) ([]AccessGroup, error) {
	query := `
		SELECT g.id, g.name, g.description, g.created_at, g.updated_at
		FROM access_groups g
		JOIN member_access_groups mag ON mag.access_group_id = g.id
		WHERE mag.member_id = $1`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("querying groups for member: %w", err)
	}
	defer rows.Close()

	var groups []AccessGroup
	for rows.Next() {
		var g AccessGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning access group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating access group rows: %w", err)
	}

	if groups == nil {
		groups = []AccessGroup{}
	}

	return groups, nil
}

// SectionsForGroup retrieves the sections granted to the access group.
func (r *PostgresRepository) SectionsForGroup(ctx context.Context, groupID uuid.UUID) ([]Section, error) {
	query := `
		SELECT s.id, s.name, s.type, s.description, s.created_at, s.updated_at
		FROM sections s
		JOIN section_access_groups sag ON sag.section_id = s.id
		WHERE sag.access_group_id = $1`

	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("querying sections for group: %w", err)
	}
	defer rows.Close()

	var sections []Section
	for rows.Next() {
		var s Section
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning section row: %w", err)
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating section rows: %w", err)
	}

	if sections == nil {
		sections = []Section{}
	}

	return sections, nil
}

func (r *PostgresRepository) upsertJoin(ctx context.Context, query string, a, b uuid.UUID) (JoinOutcome, error) {
	result, err := r.pool.Exec(ctx, query, a, b)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return "", ErrUnknownEntity
		}
		return "", fmt.Errorf("upserting join row: %w", err)
	}

	if result.RowsAffected() == 0 {
		return JoinExists, nil
	}
	return JoinCreated, nil
}

func (r *PostgresRepository) deleteJoin(ctx context.Context, query string, a, b uuid.UUID) (JoinOutcome, error) {
	result, err := r.pool.Exec(ctx, query, a, b)
	if err != nil {
		return "", fmt.Errorf("deleting join row: %w", err)
	}

	if result.RowsAffected() == 0 {
		return JoinAbsent, nil
	}
	return JoinRemoved, nil
}
