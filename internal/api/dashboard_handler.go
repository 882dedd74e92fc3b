package api

import (
	"errors"
	"net/http"
	"strings"

	"gym-coach-app/internal/domain"
	"gym-coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DashboardHandler holds the dashboard service dependency.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary Get the role-specific dashboard payload
// @Description Returns the trainer dashboard when the user holds the trainer
// role, otherwise the trainee dashboard. Users holding both roles can force
// a view with the ?role= query parameter.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param role query string false "Dashboard view (TRAINER or TRAINEE)"
// @Success 200 {object} service.DashboardData
// @Failure 403 {object} gin.H "Requested role not held"
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	roles, err := getUserRolesFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user roles from token.")
		return
	}

	role, err := resolveDashboardRole(c.Query("role"), roles)
	if err != nil {
		abortWithError(c, http.StatusForbidden, err.Error())
		return
	}

	data, err := h.dashboardService.GetDashboardData(c.Request.Context(), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDashboardUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrUnsupportedDashboardRole):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to build dashboard.")
		}
		return
	}

	c.JSON(http.StatusOK, data)
}

// resolveDashboardRole picks which dashboard to build. An explicit query
// value must be one of the roles the token carries; with no explicit value
// the trainer view wins for dual-role users.
func resolveDashboardRole(requested string, held []domain.Role) (domain.Role, error) {
	if requested != "" {
		want := domain.Role(strings.ToUpper(requested))
		for _, r := range held {
			if r == want {
				return want, nil
			}
		}
		return "", errors.New("requested dashboard role is not held by this user")
	}
	for _, r := range held {
		if r == domain.RoleTrainer {
			return domain.RoleTrainer, nil
		}
	}
	return domain.RoleTrainee, nil
}

// GetAnalytics godoc
// @Summary Get body-composition and strength series for a trainee
// @Description Defaults to the authenticated user. A trainer may pass
// ?userId= to view a trainee they are assigned to.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param userId query string false "Target trainee ID"
// @Success 200 {object} service.TraineeAnalytics
// @Failure 403 {object} gin.H "Not assigned to the requested trainee"
// @Router /analytics [get]
func (h *DashboardHandler) GetAnalytics(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	roles, err := getUserRolesFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user roles from token.")
		return
	}

	targetID := actorID
	if raw := c.Query("userId"); raw != "" {
		targetID, err = primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid user ID format.")
			return
		}
	}

	analytics, err := h.dashboardService.GetTraineeAnalytics(c.Request.Context(), actorID, targetID, roles)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			abortWithError(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrAnalyticsAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrDashboardUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to build analytics.")
		}
		return
	}

	c.JSON(http.StatusOK, analytics)
}
