package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/famboard/famboard-go/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FamilyRepository resolves family slugs and ids against the shared
// database. The family middleware depends on it.
type FamilyRepository struct {
	db *pgxpool.Pool
}

func NewFamilyRepository(db *pgxpool.Pool) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// GetFamilyBySlug retrieves an active family by its slug.
func (r *FamilyRepository) GetFamilyBySlug(ctx context.Context, slug string) (*models.Family, error) {
	query := `
		SELECT id, slug, name, status, created_at, updated_at, deleted_at
		FROM families
		WHERE slug = $1 AND deleted_at IS NULL
	`

	var family models.Family
	err := r.db.QueryRow(ctx, query, slug).Scan(
		&family.ID, &family.Slug, &family.Name, &family.Status,
		&family.CreatedAt, &family.UpdatedAt, &family.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFamilyNotFound
		}
		return nil, fmt.Errorf("query family %s: %w", slug, err)
	}
	return &family, nil
}

// GetFamilyByID retrieves a family by id.
func (r *FamilyRepository) GetFamilyByID(ctx context.Context, id uuid.UUID) (*models.Family, error) {
	query := `
		SELECT id, slug, name, status, created_at, updated_at, deleted_at
		FROM families
		WHERE id = $1 AND deleted_at IS NULL
	`

	var family models.Family
	err := r.db.QueryRow(ctx, query, id).Scan(
		&family.ID, &family.Slug, &family.Name, &family.Status,
		&family.CreatedAt, &family.UpdatedAt, &family.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFamilyNotFound
		}
		return nil, fmt.Errorf("query family %s: %w", id, err)
	}
	return &family, nil
}
