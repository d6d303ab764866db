package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mairiedoc/mairiedoc/handlers"
	"github.com/mairiedoc/mairiedoc/internal/config"
	"github.com/mairiedoc/mairiedoc/internal/database"
	dochandler "github.com/mairiedoc/mairiedoc/internal/document/handler"
	docrepo "github.com/mairiedoc/mairiedoc/internal/document/repository"
	docservice "github.com/mairiedoc/mairiedoc/internal/document/service"
	"github.com/mairiedoc/mairiedoc/internal/municipality"
	"github.com/mairiedoc/mairiedoc/internal/personne"
	"github.com/mairiedoc/mairiedoc/internal/render"
	"github.com/mairiedoc/mairiedoc/internal/sessions"
	"github.com/mairiedoc/mairiedoc/internal/storage"
	"github.com/mairiedoc/mairiedoc/internal/template"
	"github.com/mairiedoc/mairiedoc/internal/tokens"
	"github.com/mairiedoc/mairiedoc/internal/users"
	"github.com/mairiedoc/mairiedoc/pkg/logger"
	"github.com/mairiedoc/mairiedoc/pkg/metrics"
	"github.com/mairiedoc/mairiedoc/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging level is controlled with LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v latex=%s", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.LaTeX.Binary)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Connect to Redis early so the rate-limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// MongoDB is the primary store; retry with backoff to tolerate startup races
	if cfg.MongoDB.URI == "" {
		logger.Fatalf("MONGODB_URI is required")
	}
	const maxAttempts = 5
	backoff := time.Second
	var client *mongo.Client
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err == nil {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if err != nil {
		logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, err)
	}
	defer func() { _ = client.Disconnect(ctx) }()
	db := client.Database(cfg.MongoDB.Database)

	// Optional object storage for the logo and archived PDF copies
	var objStore *storage.MinIOStorage
	if mc := storage.LoadMinIOConfig(); mc.Endpoint != "" {
		objStore, err = storage.NewMinIOStorage(mc)
		if err != nil {
			logger.Warnf("object storage unavailable: %v", err)
			objStore = nil
		}
	}

	// External typesetting compiler
	compiler := render.NewCompiler(cfg.LaTeX.Binary, cfg.LaTeX.Timeout, cfg.LaTeX.WorkDir)
	if !compiler.Available() {
		logger.Warnf("typesetting compiler %q not found on PATH; renders will fail until it is installed", cfg.LaTeX.Binary)
	}

	// Repositories and services
	personRepo := personne.NewMongoRepository(db)
	personSvc := personne.NewService(personRepo)
	mairieRepo := municipality.NewMongoRepository(db)
	var logos municipality.LogoStore
	if objStore != nil {
		logos = objStore
	}
	mairieSvc := municipality.NewService(mairieRepo, logos)

	docs := docrepo.NewMongoRepo(db)
	bindings := docrepo.NewMongoBindingRepo(db)
	templateSvc := template.NewService(template.NewMongoRepository(db), docs)

	deps := docservice.Deps{
		Docs:      docs,
		Bindings:  bindings,
		Templates: templateSvc,
		Persons:   personRepo,
		Mairie:    mairieRepo,
		Compiler:  compiler,
		RecordURI: cfg.MongoDB.URI,
		RecordDB:  cfg.MongoDB.Database,
	}
	if objStore != nil {
		deps.PDFStore = objStore
	}
	docSvc := docservice.NewService(deps)

	userSvc := users.NewService(users.NewMongoRepository(db))

	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
	}

	// Health and readiness
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		deps["mongodb"] = client.Ping(c.Request.Context(), nil) == nil
		if !deps["mongodb"] {
			ready = false
		}
		deps["compiler"] = compiler.Available()
		if !deps["compiler"] {
			ready = false
		}
		if cfg.Redis.Host != "" {
			deps["redis"] = redisClient != nil && redisClient.Ping(c.Request.Context()).Err() == nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
	})

	// Routes
	api := r.Group("/api/v1")

	if sessionsSvc != nil {
		h := handlers.NewAuthHandler(cfg, userSvc, sessionsSvc)
		h.Register(api)
	} else {
		logger.Warnf("auth endpoints not registered because Redis session storage is unavailable")
	}

	verifier := tokens.NewVerifier(cfg.JWT.Secret)
	protected := api.Group("", middleware.AuthMiddleware(verifier))

	adminOnly := middleware.RequireRole(users.RoleAdmin)
	personne.RegisterRoutes(protected.Group("/personnes"), personSvc, adminOnly)
	municipality.RegisterRoutes(protected.Group("/mairie"), mairieSvc)
	template.RegisterRoutes(protected.Group("/templates"), templateSvc, adminOnly)
	dochandler.RegisterRoutes(protected.Group("/documents"), docSvc, adminOnly)
	users.RegisterRoutes(protected.Group("/users", adminOnly), userSvc)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting mairiedoc API on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
