package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/famboard/famboard-go/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListTasks returns every task of the family keyed by ID, active or not;
// resolved schedules still need snapshots for tasks deactivated after being
// scheduled.
func (r *ScheduleRepository) ListTasks(ctx context.Context, familyID uuid.UUID) (map[uuid.UUID]models.Task, error) {
	query := `
		SELECT id, family_id, name, color, icon, default_start_time,
		       default_duration, is_active, created_at, updated_at
		FROM tasks
		WHERE family_id = $1
	`

	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := map[uuid.UUID]models.Task{}
	for rows.Next() {
		var t models.Task
		err := rows.Scan(
			&t.ID, &t.FamilyID, &t.Name, &t.Color, &t.Icon, &t.DefaultStartTime,
			&t.DefaultDuration, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks[t.ID] = t
	}
	return tasks, rows.Err()
}

// ListActiveTasks returns the family's active tasks ordered by start time,
// for the task list endpoint.
func (r *ScheduleRepository) ListActiveTasks(ctx context.Context, familyID uuid.UUID) ([]models.Task, error) {
	query := `
		SELECT id, family_id, name, color, icon, default_start_time,
		       default_duration, is_active, created_at, updated_at
		FROM tasks
		WHERE family_id = $1 AND is_active = true
		ORDER BY default_start_time ASC, name ASC
	`

	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		err := rows.Scan(
			&t.ID, &t.FamilyID, &t.Name, &t.Color, &t.Icon, &t.DefaultStartTime,
			&t.DefaultDuration, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListMembers returns every member of the family keyed by ID.
func (r *ScheduleRepository) ListMembers(ctx context.Context, familyID uuid.UUID) (map[uuid.UUID]models.Member, error) {
	query := `
		SELECT id, family_id, username, first_name, last_name, email,
		       avatar_color, is_admin, is_active, created_at, updated_at
		FROM members
		WHERE family_id = $1
	`

	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	members := map[uuid.UUID]models.Member{}
	for rows.Next() {
		var m models.Member
		err := rows.Scan(
			&m.ID, &m.FamilyID, &m.Username, &m.FirstName, &m.LastName, &m.Email,
			&m.AvatarColor, &m.IsAdmin, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members[m.ID] = m
	}
	return members, rows.Err()
}

// ListActiveMembers returns the family's active members for the member list
// endpoint.
func (r *ScheduleRepository) ListActiveMembers(ctx context.Context, familyID uuid.UUID) ([]models.Member, error) {
	query := `
		SELECT id, family_id, username, first_name, last_name, email,
		       avatar_color, is_admin, is_active, created_at, updated_at
		FROM members
		WHERE family_id = $1 AND is_active = true
		ORDER BY first_name ASC, username ASC
	`

	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		err := rows.Scan(
			&m.ID, &m.FamilyID, &m.Username, &m.FirstName, &m.LastName, &m.Email,
			&m.AvatarColor, &m.IsAdmin, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMemberForLogin fetches a member and their password hash by family and
// username, for the login handler.
func (r *ScheduleRepository) GetMemberForLogin(ctx context.Context, familyID uuid.UUID, username string) (*models.Member, string, error) {
	query := `
		SELECT id, family_id, username, first_name, last_name, email,
		       avatar_color, is_admin, is_active, created_at, updated_at,
		       password_hash
		FROM members
		WHERE family_id = $1 AND username = $2 AND is_active = true
	`

	var m models.Member
	var hash string
	err := r.db.QueryRow(ctx, query, familyID, username).Scan(
		&m.ID, &m.FamilyID, &m.Username, &m.FirstName, &m.LastName, &m.Email,
		&m.AvatarColor, &m.IsAdmin, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
		&hash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrMemberNotFound
		}
		return nil, "", fmt.Errorf("query member: %w", err)
	}
	return &m, hash, nil
}
