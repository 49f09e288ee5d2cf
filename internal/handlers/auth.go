package handlers

import (
	"errors"
	"net/http"

	"github.com/famboard/famboard-go/internal/auth"
	"github.com/famboard/famboard-go/internal/middleware"
	"github.com/famboard/famboard-go/internal/repository"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest is the request body for POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a family member and returns a JWT token
func Login(repo *repository.ScheduleRepository, jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		family, ok := middleware.GetFamily(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Family context required"})
			return
		}

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		member, hash, err := repo.GetMemberForLogin(c.Request.Context(), family.ID, req.Username)
		if err != nil {
			if errors.Is(err, repository.ErrMemberNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up member"})
			}
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		token, err := jwtService.GenerateToken(member.ID, family.ID, member.Username, member.IsAdmin)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":  token,
			"member": member,
		})
	}
}
