package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/colortherapy-api/internal/access"
	"github.com/harentsoaR/colortherapy-api/internal/apperror"
	"github.com/harentsoaR/colortherapy-api/internal/auth"
	"github.com/harentsoaR/colortherapy-api/internal/logger"
	"github.com/harentsoaR/colortherapy-api/internal/middleware"
	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/services"
	"github.com/harentsoaR/colortherapy-api/internal/session"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

// ConfigSource serves the remote AppConfig.
type ConfigSource interface {
	Load(ctx context.Context) (*models.AppConfig, error)
	Reload(ctx context.Context) (*models.AppConfig, error)
}

// Stores is one repository per collection.
type Stores struct {
	Users     store.UserStore
	Patients  store.PatientStore
	Visits    store.VisitStore
	HumanBody store.HumanBodyStore
	Reports   store.ReportStore
}

// Handler carries everything the HTTP handlers need.
type Handler struct {
	Stores
	Identity        auth.IdentityProvider
	Tokens          *auth.TokenIssuer
	Limiter         *auth.LoginLimiter
	Sessions        *session.Manager
	Config          ConfigSource
	NotificationSvc *services.NotificationService
	Metrics         *middleware.Metrics
	Log             *logger.Logger
	DefaultRole     models.Role
}

// RegisterRoutes wires every endpoint onto r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	requireAuth := middleware.AuthMiddleware(h.Tokens, h.Sessions)

	r.GET("/health", h.Health)
	r.GET("/about", h.About)
	r.GET("/nav/resolve", middleware.OptionalAuth(h.Tokens, h.Sessions), h.ResolveRoute)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
	}

	api := r.Group("/api")
	api.Use(requireAuth)
	{
		api.POST("/auth/logout", h.Logout)
		api.GET("/session", h.GetSession)
		api.GET("/navigation", h.GetNavigation)
		api.GET("/config", middleware.RequireUserManager(), h.GetConfig)
		api.POST("/config/reload", middleware.RequireUserManager(), h.ReloadConfig)

		api.GET("/profile", h.GetProfile)
		api.PUT("/profile", h.UpdateProfile)

		api.GET("/dashboard", middleware.RequirePage(models.PageDashboard, models.ActionView), h.GetDashboard)

		patients := api.Group("/patients")
		{
			patients.GET("", middleware.RequirePage(models.PagePatientHistory, models.ActionView), h.ListPatients)
			patients.POST("", middleware.RequirePage(models.PagePatientHistory, models.ActionCreate), h.CreatePatient)
			patients.GET("/:id", middleware.RequirePage(models.PagePatientHistory, models.ActionView), h.GetPatient)
			patients.PUT("/:id", middleware.RequirePage(models.PagePatientHistory, models.ActionUpdate), h.UpdatePatient)
			patients.DELETE("/:id", middleware.RequirePage(models.PagePatientHistory, models.ActionDelete), h.DeletePatient)

			patients.GET("/:id/visits", middleware.RequirePage(models.PagePatientHistory, models.ActionView), h.ListVisits)
			patients.POST("/:id/visits", middleware.RequirePage(models.PagePatientHistory, models.ActionCreate), h.CreateVisit)
			patients.PUT("/:id/visits/:visitId", middleware.RequirePage(models.PagePatientHistory, models.ActionUpdate), h.UpdateVisit)
			patients.DELETE("/:id/visits/:visitId", middleware.RequirePage(models.PagePatientHistory, models.ActionDelete), h.DeleteVisit)
		}

		body := api.Group("/human-body")
		{
			body.GET("", middleware.RequirePage(models.PageHumanBody, models.ActionView), h.ListHumanBody)
			body.POST("", middleware.RequirePage(models.PageHumanBody, models.ActionCreate), h.CreateHumanBody)
			body.PUT("/:id", middleware.RequirePage(models.PageHumanBody, models.ActionUpdate), h.UpdateHumanBody)
			body.DELETE("/:id", middleware.RequirePage(models.PageHumanBody, models.ActionDelete), h.DeleteHumanBody)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireUserManager())
		{
			users.GET("", middleware.RequirePage(models.PageUserManagement, models.ActionView), h.ListUsers)
			users.GET("/:id", middleware.RequirePage(models.PageUserManagement, models.ActionView), h.GetUser)
			users.PUT("/:id", middleware.RequirePage(models.PageUserManagement, models.ActionUpdate), h.UpdateUser)
			users.DELETE("/:id", middleware.RequirePage(models.PageUserManagement, models.ActionDelete), h.DeleteUser)
		}

		api.POST("/reports", h.CreateReport)
		api.GET("/reports", middleware.RequirePage(models.PageReports, models.ActionView), h.ListReports)
	}
}

// resolve computes the access and menu of user under cfg.
func resolve(user *models.User, cfg *models.AppConfig) (access.Access, []access.Entry) {
	a := access.Resolve(user, cfg)
	return a, access.Navigation(a, user.Role, cfg)
}

// refreshUserSessions re-resolves every live session of user after an edit.
func (h *Handler) refreshUserSessions(c *gin.Context, user *models.User) {
	if user.Blocked {
		h.Sessions.ClearUser(user.ID.Hex())
		return
	}
	cfg, err := h.Config.Load(c.Request.Context())
	if err != nil {
		// Without a config the old matrix cannot be trusted either.
		h.Sessions.ClearUser(user.ID.Hex())
		return
	}
	a, nav := resolve(user, cfg)
	h.Sessions.Replace(*user, a, nav)
}

// respondError writes err as {"error": message} with the status of its kind.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperror.Status(err)
	if status >= http.StatusInternalServerError {
		h.Log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": apperror.PublicMessage(err)})
}

func currentSession(c *gin.Context) *session.Session {
	s, _ := middleware.CurrentSession(c)
	return s
}

func parseID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return primitive.NilObjectID, false
	}
	return id, true
}
