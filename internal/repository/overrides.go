package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/famboard/famboard-go/internal/models"
	"github.com/famboard/famboard-go/internal/schedule"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetWeekOverride loads the override row for (family, week start) with its
// task overrides, relation snapshots, and pinned template. Returns nil when
// the week has no override row.
func (r *ScheduleRepository) GetWeekOverride(ctx context.Context, familyID uuid.UUID, weekStart time.Time) (*models.WeekOverride, error) {
	query := `
		SELECT id, family_id, week_start_date, week_template_id, created_at, updated_at
		FROM week_overrides
		WHERE family_id = $1 AND week_start_date = $2
	`

	var wo models.WeekOverride
	err := r.db.QueryRow(ctx, query, familyID, weekStart).Scan(
		&wo.ID, &wo.FamilyID, &wo.WeekStartDate, &wo.WeekTemplateID,
		&wo.CreatedAt, &wo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query week override: %w", err)
	}

	if wo.WeekTemplateID != nil {
		template, err := getWeekTemplate(ctx, r.db, familyID, *wo.WeekTemplateID)
		if err != nil {
			return nil, err
		}
		wo.Template = template
	}

	overrides, err := r.loadTaskOverrides(ctx, wo.ID)
	if err != nil {
		return nil, err
	}
	wo.TaskOverrides = overrides

	return &wo, nil
}

// loadTaskOverrides fetches the task override rows for one week override
// with task and member snapshots joined in.
func (r *ScheduleRepository) loadTaskOverrides(ctx context.Context, weekOverrideID uuid.UUID) ([]models.TaskOverride, error) {
	query := `
		SELECT o.id, o.week_override_id, o.assigned_date, o.task_id, o.action,
		       o.original_member_id, o.new_member_id, o.override_time, o.override_duration,
		       o.created_at,
		       t.name, t.color, t.icon, t.default_start_time, t.default_duration,
		       om.username, om.first_name, om.last_name, om.avatar_color,
		       nm.username, nm.first_name, nm.last_name, nm.avatar_color
		FROM task_overrides o
		JOIN tasks t ON o.task_id = t.id
		LEFT JOIN members om ON o.original_member_id = om.id
		LEFT JOIN members nm ON o.new_member_id = nm.id
		WHERE o.week_override_id = $1
		ORDER BY o.assigned_date ASC, o.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, weekOverrideID)
	if err != nil {
		return nil, fmt.Errorf("query task overrides: %w", err)
	}
	defer rows.Close()

	overrides := []models.TaskOverride{}
	for rows.Next() {
		var (
			o                                models.TaskOverride
			taskName, taskColor              string
			taskIcon, taskStart              *string
			taskDuration                     *int
			omUsername, omFirst, omLast      *string
			omColor                          *string
			nmUsername, nmFirst, nmLast      *string
			nmColor                          *string
		)

		err := rows.Scan(
			&o.ID, &o.WeekOverrideID, &o.AssignedDate, &o.TaskID, &o.Action,
			&o.OriginalMemberID, &o.NewMemberID, &o.OverrideTime, &o.OverrideDuration,
			&o.CreatedAt,
			&taskName, &taskColor, &taskIcon, &taskStart, &taskDuration,
			&omUsername, &omFirst, &omLast, &omColor,
			&nmUsername, &nmFirst, &nmLast, &nmColor,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task override: %w", err)
		}

		o.Task = &models.TaskSummary{ID: o.TaskID, Name: taskName, Color: taskColor, Icon: taskIcon}
		if taskStart != nil {
			o.Task.DefaultStartTime = *taskStart
		}
		if taskDuration != nil {
			o.Task.DefaultDuration = *taskDuration
		}
		if o.OriginalMemberID != nil && omUsername != nil {
			o.OriginalMember = &models.MemberSummary{
				ID: *o.OriginalMemberID, Username: *omUsername,
				FirstName: deref(omFirst), LastName: deref(omLast), AvatarColor: omColor,
			}
		}
		if o.NewMemberID != nil && nmUsername != nil {
			o.NewMember = &models.MemberSummary{
				ID: *o.NewMemberID, Username: *nmUsername,
				FirstName: deref(nmFirst), LastName: deref(nmLast), AvatarColor: nmColor,
			}
		}

		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// DeleteWeekOverride reverts a week: the override row and, via cascade, all
// its task overrides. Deleting an absent week is a no-op.
func (r *ScheduleRepository) DeleteWeekOverride(ctx context.Context, familyID uuid.UUID, weekStart time.Time) error {
	query := `DELETE FROM week_overrides WHERE family_id = $1 AND week_start_date = $2`
	_, err := r.db.Exec(ctx, query, familyID, weekStart)
	return err
}

// InOverrideTx runs fn inside one database transaction, so the upsert,
// scoped deletes, and inserts of a single apply call commit or roll back
// together.
func (r *ScheduleRepository) InOverrideTx(ctx context.Context, fn func(tx schedule.Tx) error) error {
	dbTx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback(ctx)

	if err := fn(&overrideTx{tx: dbTx}); err != nil {
		return err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// overrideTx is the transactional store slice handed to the apply operation.
type overrideTx struct {
	tx pgx.Tx
}

// GetWeekOverrideForUpdate loads and row-locks the week override, so
// concurrent applies for the same week queue up behind each other.
func (t *overrideTx) GetWeekOverrideForUpdate(ctx context.Context, familyID uuid.UUID, weekStart time.Time) (*models.WeekOverride, error) {
	query := `
		SELECT id, family_id, week_start_date, week_template_id, created_at, updated_at
		FROM week_overrides
		WHERE family_id = $1 AND week_start_date = $2
		FOR UPDATE
	`

	var wo models.WeekOverride
	err := t.tx.QueryRow(ctx, query, familyID, weekStart).Scan(
		&wo.ID, &wo.FamilyID, &wo.WeekStartDate, &wo.WeekTemplateID,
		&wo.CreatedAt, &wo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query week override for update: %w", err)
	}
	return &wo, nil
}

// CreateWeekOverride inserts the row. Concurrent first-creates for the same
// week collide on the (family_id, week_start_date) unique constraint, which
// is the intended serialization point.
func (t *overrideTx) CreateWeekOverride(ctx context.Context, wo *models.WeekOverride) error {
	query := `
		INSERT INTO week_overrides (id, family_id, week_start_date, week_template_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return t.tx.QueryRow(ctx, query,
		wo.ID, wo.FamilyID, wo.WeekStartDate, wo.WeekTemplateID,
	).Scan(&wo.CreatedAt, &wo.UpdatedAt)
}

func (t *overrideTx) UpdateWeekOverrideTemplate(ctx context.Context, weekOverrideID uuid.UUID, templateID *uuid.UUID) error {
	query := `UPDATE week_overrides SET week_template_id = $1, updated_at = NOW() WHERE id = $2`
	_, err := t.tx.Exec(ctx, query, templateID, weekOverrideID)
	return err
}

func (t *overrideTx) DeleteTaskOverridesForDate(ctx context.Context, weekOverrideID uuid.UUID, date time.Time) error {
	query := `DELETE FROM task_overrides WHERE week_override_id = $1 AND assigned_date = $2`
	_, err := t.tx.Exec(ctx, query, weekOverrideID, date)
	return err
}

func (t *overrideTx) DeleteAllTaskOverrides(ctx context.Context, weekOverrideID uuid.UUID) error {
	query := `DELETE FROM task_overrides WHERE week_override_id = $1`
	_, err := t.tx.Exec(ctx, query, weekOverrideID)
	return err
}

func (t *overrideTx) DeleteTaskOverrideSlot(ctx context.Context, weekOverrideID uuid.UUID, date time.Time, taskID uuid.UUID) error {
	query := `DELETE FROM task_overrides WHERE week_override_id = $1 AND assigned_date = $2 AND task_id = $3`
	_, err := t.tx.Exec(ctx, query, weekOverrideID, date, taskID)
	return err
}

func (t *overrideTx) InsertTaskOverride(ctx context.Context, o *models.TaskOverride) error {
	query := `
		INSERT INTO task_overrides (
			id, week_override_id, assigned_date, task_id, action,
			original_member_id, new_member_id, override_time, override_duration, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`
	return t.tx.QueryRow(ctx, query,
		o.ID, o.WeekOverrideID, o.AssignedDate, o.TaskID, o.Action,
		o.OriginalMemberID, o.NewMemberID, o.OverrideTime, o.OverrideDuration,
	).Scan(&o.CreatedAt)
}

func (t *overrideTx) ListActiveWeekTemplates(ctx context.Context, familyID uuid.UUID) ([]models.WeekTemplate, error) {
	return listActiveWeekTemplates(ctx, t.tx, familyID)
}
