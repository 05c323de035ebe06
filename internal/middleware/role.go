// Package middleware holds the gin middleware shared by the HTTP
// controllers.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rackops-backend/internal/model"
)

// Roles recognised by the API. Anyone can read and file tickets;
// inventory changes, status edits and bulk deletes require the
// engineer role.
const (
	RoleHeader     = "X-Role"
	RoleEngineer   = "Engineer"
	RoleTechnician = "Technician"
)

// RequireRole rejects requests whose role header does not match. The
// check is enforced here, server side; clients hiding buttons is a
// courtesy, not a control.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(RoleHeader)
		if got != role {
			log.Warn().
				Str("required", role).
				Str("got", got).
				Str("path", c.FullPath()).
				Msg("Role check failed")
			c.AbortWithStatusJSON(http.StatusForbidden, model.NewResponse("forbidden: requires role "+role, nil))
			return
		}
		c.Next()
	}
}
