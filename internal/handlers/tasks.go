package handlers

import (
	"net/http"

	"github.com/famboard/famboard-go/internal/middleware"
	"github.com/famboard/famboard-go/internal/repository"
	"github.com/gin-gonic/gin"
)

// ListTasks returns all active tasks for the family
func ListTasks(repo *repository.ScheduleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		familyID, ok := middleware.GetFamilyID(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Family context required"})
			return
		}

		tasks, err := repo.ListActiveTasks(c.Request.Context(), familyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query tasks", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"tasks": tasks,
			"count": len(tasks),
		})
	}
}

// ListMembers returns all active members for the family
func ListMembers(repo *repository.ScheduleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		familyID, ok := middleware.GetFamilyID(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Family context required"})
			return
		}

		members, err := repo.ListActiveMembers(c.Request.Context(), familyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query members", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"members": members,
			"count":   len(members),
		})
	}
}
