package handlers

import (
	"errors"
	"net/http"

	"github.com/famboard/famboard-go/internal/middleware"
	"github.com/famboard/famboard-go/internal/models"
	"github.com/famboard/famboard-go/internal/schedule"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetWeekSchedule returns the resolved schedule for the week starting at the
// :weekStart date (must be a Monday).
func GetWeekSchedule(svc *schedule.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		familyID, ok := middleware.GetFamilyID(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Family context required"})
			return
		}

		resolved, err := svc.GetWeekSchedule(c.Request.Context(), familyID, c.Param("weekStart"))
		if err != nil {
			respondScheduleError(c, err)
			return
		}

		c.JSON(http.StatusOK, resolved)
	}
}

// ApplyOverridesRequest is the request body for applying week overrides.
// week_template_id distinguishes absent (keep stored pin) from explicit null
// (clear the pin).
type ApplyOverridesRequest struct {
	WeekTemplateID  models.OptionalUUID        `json:"week_template_id"`
	Overrides       []models.TaskOverrideDraft `json:"overrides"`
	ReplaceExisting bool                       `json:"replace_existing"`
}

// ApplyWeekOverrides validates and persists a batch of task override drafts
// for the week starting at :weekStart.
func ApplyWeekOverrides(svc *schedule.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		familyID, ok := middleware.GetFamilyID(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Family context required"})
			return
		}

		var req ApplyOverridesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		input := schedule.ApplyInput{
			TemplateID:      req.WeekTemplateID.Value,
			TemplateIDSet:   req.WeekTemplateID.Set,
			Drafts:          req.Overrides,
			ReplaceExisting: req.ReplaceExisting,
		}
		if userID, ok := middleware.GetAuthUserID(c); ok {
			id := userID
			input.ActingUserID = &id
		}

		override, err := svc.ApplyOverrides(c.Request.Context(), familyID, c.Param("weekStart"), input)
		if err != nil {
			respondScheduleError(c, err)
			return
		}

		c.JSON(http.StatusOK, override)
	}
}

// RevertWeekOverrides deletes the override record for the week starting at
// :weekStart, restoring pure rule-based resolution.
func RevertWeekOverrides(svc *schedule.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		familyID, ok := middleware.GetFamilyID(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Family context required"})
			return
		}

		if err := svc.RevertWeek(c.Request.Context(), familyID, c.Param("weekStart")); err != nil {
			respondScheduleError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Week overrides reverted"})
	}
}

// respondScheduleError maps engine errors onto HTTP statuses.
func respondScheduleError(c *gin.Context, err error) {
	var ve *schedule.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
		return
	}
	if errors.Is(err, schedule.ErrInternalConsistency) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal consistency error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process schedule request", "details": err.Error()})
}

// parseIDParam parses a UUID path param, responding 400 on bad input.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return uuid.Nil, false
	}
	return id, true
}
