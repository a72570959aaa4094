package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/colortherapy-api/internal/appconfig"
	"github.com/harentsoaR/colortherapy-api/internal/auth"
	"github.com/harentsoaR/colortherapy-api/internal/config"
	"github.com/harentsoaR/colortherapy-api/internal/handlers"
	"github.com/harentsoaR/colortherapy-api/internal/logger"
	"github.com/harentsoaR/colortherapy-api/internal/middleware"
	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/services"
	"github.com/harentsoaR/colortherapy-api/internal/session"
	"github.com/harentsoaR/colortherapy-api/internal/store/mongostore"
)

const sweepInterval = 5 * time.Minute

func connect(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongostore.Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, mongostore.New(client.Database(cfg.MongoDatabase)), nil
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	defaultRole, err := models.ParseRole(cfg.DefaultRole)
	if err != nil {
		return fmt.Errorf("DEFAULT_ROLE: %w", err)
	}

	// --- Database Connection ---
	client, st, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())
	if err := st.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	log.WithField("database", cfg.MongoDatabase).Info("Connected to MongoDB")

	// --- Login limiter ---
	var attempts auth.AttemptStore = auth.NewMemoryAttemptStore()
	if cfg.LoginLimiterRedisURL != "" {
		redisStore, err := auth.NewRedisAttemptStore(ctx, cfg.LoginLimiterRedisURL)
		if err != nil {
			return fmt.Errorf("login limiter: %w", err)
		}
		defer redisStore.Close()
		attempts = redisStore
		log.Info("Login limiter backed by Redis")
	}

	// --- Initialize Services ---
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	loader := appconfig.NewLoader(st.Config)
	if _, err := loader.Load(ctx); err != nil {
		// Logins answer 503 until the config becomes readable.
		log.WithError(err).Warn("App config not loaded at startup")
	}
	sessions := session.NewManager(cfg.TokenTTL)
	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)

	h := &handlers.Handler{
		Stores: handlers.Stores{
			Users:     st.Users,
			Patients:  st.Patients,
			Visits:    st.Visits,
			HumanBody: st.HumanBody,
			Reports:   st.Reports,
		},
		Identity:        auth.NewCredentialProvider(st.Credentials, auth.DefaultCost),
		Tokens:          tokens,
		Limiter:         auth.NewLoginLimiter(attempts, cfg.LoginMaxAttempts, cfg.LoginCooldown),
		Sessions:        sessions,
		Config:          loader,
		NotificationSvc: services.NewNotificationService(cfg.ReportWebhookURL, log),
		Metrics:         metrics,
		Log:             log,
		DefaultRole:     defaultRole,
	}

	// --- Gin Router ---
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(metrics.Handler())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					log.WithField("expired", n).Debug("Swept expired sessions")
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func seedConfig(ctx context.Context, owners []string, force bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	client, st, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	if !force {
		if _, err := appconfig.NewLoader(st.Config).Load(ctx); err == nil {
			log.Info("App config already present, use --force to overwrite")
			return nil
		}
	}

	appCfg := models.DefaultAppConfig()
	for _, email := range owners {
		appCfg.NonRemoveableUsers = append(appCfg.NonRemoveableUsers, auth.NormalizeEmail(email))
	}
	if err := st.Config.Save(ctx, appCfg); err != nil {
		return fmt.Errorf("save app config: %w", err)
	}
	log.WithField("owners", appCfg.NonRemoveableUsers).Info("App config seeded")
	return nil
}
