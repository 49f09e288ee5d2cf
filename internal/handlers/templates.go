package handlers

import (
	"net/http"

	"github.com/famboard/famboard-go/internal/middleware"
	"github.com/famboard/famboard-go/internal/repository"
	"github.com/gin-gonic/gin"
)

// ListWeekTemplates returns the family's active week templates in selection
// precedence order (priority descending, oldest first on ties).
func ListWeekTemplates(repo *repository.ScheduleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		familyID, ok := middleware.GetFamilyID(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Family context required"})
			return
		}

		templates, err := repo.ListActiveWeekTemplates(c.Request.Context(), familyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query week templates", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"templates": templates,
			"count":     len(templates),
		})
	}
}

// GetWeekTemplate returns one week template with its days and items.
func GetWeekTemplate(repo *repository.ScheduleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		familyID, ok := middleware.GetFamilyID(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Family context required"})
			return
		}

		templateID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		template, err := repo.GetWeekTemplate(c.Request.Context(), familyID, templateID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query week template", "details": err.Error()})
			return
		}
		if template == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Week template not found"})
			return
		}

		c.JSON(http.StatusOK, template)
	}
}

// ListDayTemplates returns the family's day templates with their items.
func ListDayTemplates(repo *repository.ScheduleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		familyID, ok := middleware.GetFamilyID(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Family context required"})
			return
		}

		templates, err := repo.ListDayTemplates(c.Request.Context(), familyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query day templates", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"templates": templates,
			"count":     len(templates),
		})
	}
}
