package schedule

import (
	"context"
	"time"

	"github.com/famboard/famboard-go/internal/models"
	"github.com/google/uuid"
)

// Store is the persistence surface the engine needs. Any store honoring
// these key/shape contracts is substitutable; the pgx repository is the
// production implementation and the tests use an in-memory fake.
type Store interface {
	// ListActiveWeekTemplates returns the family's active week templates
	// with days and day template items loaded, sorted descending by
	// priority then ascending by creation time (the selector's pre-sort
	// contract).
	ListActiveWeekTemplates(ctx context.Context, familyID uuid.UUID) ([]models.WeekTemplate, error)

	// GetWeekTemplate loads one week template with days and items, or nil
	// if it does not exist for the family.
	GetWeekTemplate(ctx context.Context, familyID, templateID uuid.UUID) (*models.WeekTemplate, error)

	// GetWeekOverride loads the override row for (family, week start) with
	// its task overrides, relation snapshots, and pinned template fully
	// loaded. Returns nil when no row exists.
	GetWeekOverride(ctx context.Context, familyID uuid.UUID, weekStart time.Time) (*models.WeekOverride, error)

	// DeleteWeekOverride removes the override row and all its task
	// overrides for (family, week start). Deleting a week that has no
	// override row is not an error.
	DeleteWeekOverride(ctx context.Context, familyID uuid.UUID, weekStart time.Time) error

	// ListTasks and ListMembers load the family's lookup maps used to
	// denormalize resolved schedules and notifications.
	ListTasks(ctx context.Context, familyID uuid.UUID) (map[uuid.UUID]models.Task, error)
	ListMembers(ctx context.Context, familyID uuid.UUID) (map[uuid.UUID]models.Member, error)

	// InOverrideTx runs fn inside a single store transaction. The upsert,
	// scoped deletes, and inserts of one apply call all go through the same
	// Tx so concurrent applies for one week serialize at the store.
	InOverrideTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the transactional slice of the store used by the apply operation.
type Tx interface {
	// GetWeekOverrideForUpdate loads and row-locks the override row for
	// (family, week start), or returns nil when none exists yet.
	GetWeekOverrideForUpdate(ctx context.Context, familyID uuid.UUID, weekStart time.Time) (*models.WeekOverride, error)

	// CreateWeekOverride inserts a new override row.
	CreateWeekOverride(ctx context.Context, wo *models.WeekOverride) error

	// UpdateWeekOverrideTemplate sets (or clears, with nil) the pinned
	// template on an existing override row.
	UpdateWeekOverrideTemplate(ctx context.Context, weekOverrideID uuid.UUID, templateID *uuid.UUID) error

	// The three deletion scopes of the apply operation.
	DeleteTaskOverridesForDate(ctx context.Context, weekOverrideID uuid.UUID, date time.Time) error
	DeleteAllTaskOverrides(ctx context.Context, weekOverrideID uuid.UUID) error
	DeleteTaskOverrideSlot(ctx context.Context, weekOverrideID uuid.UUID, date time.Time, taskID uuid.UUID) error

	// InsertTaskOverride persists one surviving draft.
	InsertTaskOverride(ctx context.Context, o *models.TaskOverride) error

	// ListActiveWeekTemplates mirrors Store.ListActiveWeekTemplates inside
	// the transaction, for rule-based pinning on first create.
	ListActiveWeekTemplates(ctx context.Context, familyID uuid.UUID) ([]models.WeekTemplate, error)
}

// ReassignmentEvent describes one applied override for the notification
// collaborator.
type ReassignmentEvent struct {
	TaskID           uuid.UUID
	TaskName         string
	Date             string // "YYYY-MM-DD"
	Action           models.OverrideAction
	OriginalMemberID *uuid.UUID
	NewMemberID      *uuid.UUID
	ActingUserID     uuid.UUID
	ActingName       string
}

// Notifier delivers best-effort notifications about applied overrides.
// Implementations must not block the apply path; errors are logged and
// dropped by the caller.
type Notifier interface {
	NotifyTaskReassigned(ctx context.Context, familyID uuid.UUID, event ReassignmentEvent) error
}
