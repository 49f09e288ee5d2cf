package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/famboard/famboard-go/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListActiveWeekTemplates returns the family's active week templates with
// days and items loaded, in the selector's pre-sort order: priority
// descending, creation time ascending.
func (r *ScheduleRepository) ListActiveWeekTemplates(ctx context.Context, familyID uuid.UUID) ([]models.WeekTemplate, error) {
	return listActiveWeekTemplates(ctx, r.db, familyID)
}

func listActiveWeekTemplates(ctx context.Context, q querier, familyID uuid.UUID) ([]models.WeekTemplate, error) {
	query := `
		SELECT id, family_id, name, description, is_active, is_default,
		       apply_rule, priority, created_at, updated_at
		FROM week_templates
		WHERE family_id = $1 AND is_active = true
		ORDER BY priority DESC, created_at ASC
	`

	rows, err := q.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("query week templates: %w", err)
	}
	defer rows.Close()

	templates := []models.WeekTemplate{}
	for rows.Next() {
		var t models.WeekTemplate
		err := rows.Scan(
			&t.ID, &t.FamilyID, &t.Name, &t.Description, &t.IsActive,
			&t.IsDefault, &t.ApplyRule, &t.Priority, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan week template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadWeekTemplateDays(ctx, q, templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// GetWeekTemplate loads one week template with days and items, or nil when
// no such template exists for the family.
func (r *ScheduleRepository) GetWeekTemplate(ctx context.Context, familyID, templateID uuid.UUID) (*models.WeekTemplate, error) {
	return getWeekTemplate(ctx, r.db, familyID, templateID)
}

func getWeekTemplate(ctx context.Context, q querier, familyID, templateID uuid.UUID) (*models.WeekTemplate, error) {
	query := `
		SELECT id, family_id, name, description, is_active, is_default,
		       apply_rule, priority, created_at, updated_at
		FROM week_templates
		WHERE id = $1 AND family_id = $2
	`

	var t models.WeekTemplate
	err := q.QueryRow(ctx, query, templateID, familyID).Scan(
		&t.ID, &t.FamilyID, &t.Name, &t.Description, &t.IsActive,
		&t.IsDefault, &t.ApplyRule, &t.Priority, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query week template: %w", err)
	}

	templates := []models.WeekTemplate{t}
	if err := loadWeekTemplateDays(ctx, q, templates); err != nil {
		return nil, err
	}
	return &templates[0], nil
}

// loadWeekTemplateDays populates Days (with their day templates and items)
// on every template in the slice.
func loadWeekTemplateDays(ctx context.Context, q querier, templates []models.WeekTemplate) error {
	if len(templates) == 0 {
		return nil
	}

	templateIDs := make([]uuid.UUID, 0, len(templates))
	for i := range templates {
		templateIDs = append(templateIDs, templates[i].ID)
	}

	query := `
		SELECT wd.id, wd.week_template_id, wd.day_of_week, wd.day_template_id,
		       dt.id, dt.family_id, dt.name, dt.description, dt.created_at, dt.updated_at
		FROM week_template_days wd
		JOIN day_templates dt ON wd.day_template_id = dt.id
		WHERE wd.week_template_id = ANY($1)
		ORDER BY wd.day_of_week
	`

	rows, err := q.Query(ctx, query, templateIDs)
	if err != nil {
		return fmt.Errorf("query week template days: %w", err)
	}
	defer rows.Close()

	dayTemplates := map[uuid.UUID]*models.DayTemplate{}
	byTemplate := map[uuid.UUID][]models.WeekTemplateDay{}
	for rows.Next() {
		var day models.WeekTemplateDay
		var dt models.DayTemplate
		err := rows.Scan(
			&day.ID, &day.WeekTemplateID, &day.DayOfWeek, &day.DayTemplateID,
			&dt.ID, &dt.FamilyID, &dt.Name, &dt.Description, &dt.CreatedAt, &dt.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("scan week template day: %w", err)
		}

		// The same day template can back several week template days.
		shared, ok := dayTemplates[dt.ID]
		if !ok {
			copied := dt
			shared = &copied
			dayTemplates[dt.ID] = shared
		}
		day.Template = shared
		byTemplate[day.WeekTemplateID] = append(byTemplate[day.WeekTemplateID], day)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := loadDayTemplateItems(ctx, q, dayTemplates); err != nil {
		return err
	}

	for i := range templates {
		templates[i].Days = byTemplate[templates[i].ID]
		if templates[i].Days == nil {
			templates[i].Days = []models.WeekTemplateDay{}
		}
	}
	return nil
}

// loadDayTemplateItems populates Items on every day template in the map,
// ordered by sort order.
func loadDayTemplateItems(ctx context.Context, q querier, dayTemplates map[uuid.UUID]*models.DayTemplate) error {
	if len(dayTemplates) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(dayTemplates))
	for id := range dayTemplates {
		ids = append(ids, id)
	}

	query := `
		SELECT id, day_template_id, task_id, member_id,
		       override_time, override_duration, sort_order
		FROM day_template_items
		WHERE day_template_id = ANY($1)
		ORDER BY sort_order ASC
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("query day template items: %w", err)
	}
	defer rows.Close()

	for id := range dayTemplates {
		dayTemplates[id].Items = []models.DayTemplateItem{}
	}

	for rows.Next() {
		var item models.DayTemplateItem
		err := rows.Scan(
			&item.ID, &item.DayTemplateID, &item.TaskID, &item.MemberID,
			&item.OverrideTime, &item.OverrideDuration, &item.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("scan day template item: %w", err)
		}
		if dt, ok := dayTemplates[item.DayTemplateID]; ok {
			dt.Items = append(dt.Items, item)
		}
	}
	return rows.Err()
}

// ListDayTemplates returns the family's day templates with items loaded.
func (r *ScheduleRepository) ListDayTemplates(ctx context.Context, familyID uuid.UUID) ([]models.DayTemplate, error) {
	query := `
		SELECT id, family_id, name, description, created_at, updated_at
		FROM day_templates
		WHERE family_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("query day templates: %w", err)
	}
	defer rows.Close()

	byID := map[uuid.UUID]*models.DayTemplate{}
	order := []uuid.UUID{}
	for rows.Next() {
		var dt models.DayTemplate
		err := rows.Scan(&dt.ID, &dt.FamilyID, &dt.Name, &dt.Description, &dt.CreatedAt, &dt.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan day template: %w", err)
		}
		copied := dt
		byID[dt.ID] = &copied
		order = append(order, dt.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadDayTemplateItems(ctx, r.db, byID); err != nil {
		return nil, err
	}

	templates := make([]models.DayTemplate, 0, len(order))
	for _, id := range order {
		templates = append(templates, *byID[id])
	}
	return templates, nil
}
