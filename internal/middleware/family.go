package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/famboard/famboard-go/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type contextKey string

const (
	FamilyContextKey contextKey = "family"
	FamilyIDKey      contextKey = "family_id"
	FamilySlugKey    contextKey = "family_slug"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)

// FamilyResolver looks a family up by slug.
type FamilyResolver interface {
	GetFamilyBySlug(ctx context.Context, slug string) (*models.Family, error)
}

// ExtractFamilySlug extracts the family slug from the request subdomain.
// Examples:
//   - gamull.famboard.app → "gamull"
//   - smith-nyc.famboard.app → "smith-nyc"
//   - api.famboard.app → "" (no family, API-only)
func ExtractFamilySlug(host string, baseDomain string) string {
	// Remove port if present
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}

	host = strings.ToLower(host)
	baseDomain = strings.ToLower(baseDomain)

	if host == baseDomain || host == "www."+baseDomain {
		return ""
	}

	if !strings.HasSuffix(host, "."+baseDomain) {
		return ""
	}

	slug := strings.TrimSuffix(host, "."+baseDomain)

	// Reserved subdomains that are not family slugs
	reserved := map[string]bool{
		"api":     true,
		"www":     true,
		"app":     true,
		"admin":   true,
		"staging": true,
		"dev":     true,
	}

	if reserved[slug] {
		return ""
	}

	return slug
}

// FamilyMiddleware extracts the family slug from the subdomain and loads the
// family row into the request context.
func FamilyMiddleware(resolver FamilyResolver, baseDomain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := ExtractFamilySlug(c.Request.Host, baseDomain)

		// No slug: continue without family context (API-only routes)
		if slug == "" {
			c.Next()
			return
		}

		if !ValidateSlug(slug) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid family identifier"})
			c.Abort()
			return
		}

		family, err := resolver.GetFamilyBySlug(c.Request.Context(), slug)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Family not found", "slug": slug})
			c.Abort()
			return
		}

		if family.Status != "active" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Family account is inactive"})
			c.Abort()
			return
		}

		c.Set(string(FamilyIDKey), family.ID)
		c.Set(string(FamilySlugKey), family.Slug)
		c.Set(string(FamilyContextKey), family)

		c.Next()
	}
}

// RequireFamily ensures a family context exists
func RequireFamily() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, exists := c.Get(string(FamilyIDKey))
		if !exists {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Family context required. Please access via your family subdomain (e.g., yourfamily.famboard.app)",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetFamilyID retrieves family ID from context
func GetFamilyID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(string(FamilyIDKey))
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

// GetFamily retrieves the full family object from context
func GetFamily(c *gin.Context) (*models.Family, bool) {
	val, exists := c.Get(string(FamilyContextKey))
	if !exists {
		return nil, false
	}
	family, ok := val.(*models.Family)
	return family, ok
}

// ValidateSlug checks if a slug is valid:
//   - 3-50 characters
//   - lowercase letters, numbers, hyphens only
//   - must start and end with a letter or number
//   - no consecutive hyphens
func ValidateSlug(slug string) bool {
	if len(slug) < 3 || len(slug) > 50 {
		return false
	}
	if !slugRegex.MatchString(slug) {
		return false
	}
	if strings.Contains(slug, "--") {
		return false
	}
	return true
}
