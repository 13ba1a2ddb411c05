package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farellandr/civic-events/config"
	"github.com/farellandr/civic-events/internal/handlers"
	"github.com/farellandr/civic-events/internal/helpers"
	"github.com/farellandr/civic-events/internal/lib/logger/sl"
	"github.com/farellandr/civic-events/internal/metrics"
	"github.com/farellandr/civic-events/internal/middleware"
	"github.com/farellandr/civic-events/internal/services/feedback"
	"github.com/farellandr/civic-events/internal/services/registration"
	"github.com/farellandr/civic-events/internal/storage"
)

// Start serves the API until ctx is cancelled and then shuts down gracefully.
func Start(ctx context.Context, log *slog.Logger, cfg *config.Config) error {
	const op = "server.Start"

	db, err := config.InitDatabase(&cfg.DB)
	if err != nil {
		return fmt.Errorf("%s: failed to initialize database: %w", op, err)
	}

	st := storage.New(db)
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("failed to close database", sl.Err(err))
		}
	}()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(log, db, metrics.New(), cfg.JWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("http server stopped")

	return nil
}

func NewRouter(log *slog.Logger, db *gorm.DB, m *metrics.Metrics, secret string) *gin.Engine {
	st := storage.New(db)
	h := handlers.New(
		log,
		st,
		registration.New(log, st, secret, m.RegistrationOutcomes),
		feedback.New(log, st, m.FeedbackOutcomes),
	)

	helpers.RegisterValidatorTagNames()

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.Metrics(m),
		middleware.Recovery(log, m.PanicsTotal),
	)

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	setupRoutes(r.Group("/api"), h, secret)

	return r
}

func setupRoutes(api *gin.RouterGroup, h *handlers.Handler, secret string) {
	auth := middleware.JWTAuthMiddleware(secret)
	optionalAuth := middleware.OptionalAuthMiddleware(secret)
	admin := middleware.RequireAdmin()

	events := api.Group("/events")
	{
		events.GET("", optionalAuth, h.ListEvents)
		events.GET("/:id", optionalAuth, h.GetEvent)
		events.POST("", auth, admin, h.CreateEvent)
		events.PUT("/:id", auth, admin, h.UpdateEvent)
		events.DELETE("/:id", auth, admin, h.DeleteEvent)
	}

	registrations := api.Group("/event-registrations")
	registrations.Use(auth)
	{
		registrations.POST("/register", h.RegisterForEvent)
		registrations.POST("/cancel", h.CancelRegistration)
		registrations.GET("/my-registrations", h.MyRegistrations)
		registrations.GET("/status/:eventId", h.RegistrationStatus)
		registrations.GET("/pass/:eventId", h.RegistrationPass)
		registrations.POST("/pass/verify", admin, h.VerifyPass)
		registrations.GET("/event/:eventId", admin, h.EventAttendees)
	}

	feedback := api.Group("/event-feedback")
	{
		feedback.POST("", auth, h.SubmitFeedback)
		feedback.GET("/event/:eventId", optionalAuth, h.EventFeedback)
		feedback.GET("/event/:eventId/summary", optionalAuth, h.FeedbackSummary)
	}

	announcements := api.Group("/announcements")
	{
		announcements.GET("", optionalAuth, h.ListAnnouncements)
		announcements.GET("/:id", optionalAuth, h.GetAnnouncement)
		announcements.POST("", auth, admin, h.CreateAnnouncement)
		announcements.PUT("/:id", auth, admin, h.UpdateAnnouncement)
		announcements.DELETE("/:id", auth, admin, h.DeleteAnnouncement)
	}

	promos := api.Group("/promos")
	{
		promos.GET("", optionalAuth, h.ListPromos)
		promos.GET("/:id", optionalAuth, h.GetPromo)
		promos.POST("", auth, admin, h.CreatePromo)
		promos.PUT("/:id", auth, admin, h.UpdatePromo)
		promos.DELETE("/:id", auth, admin, h.DeletePromo)
	}

	api.GET("/profile", auth, h.GetProfile)

	notifications := api.Group("/notifications")
	notifications.Use(auth)
	{
		notifications.GET("", h.ListNotifications)
		notifications.PATCH("/:id/read", h.MarkNotificationRead)
		notifications.POST("", admin, h.CreateNotification)
	}
}
