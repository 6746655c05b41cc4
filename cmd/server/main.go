package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/auralabs/aurameter/internal/adapters"
	"github.com/auralabs/aurameter/internal/cache"
	apperrors "github.com/auralabs/aurameter/internal/errors"
	"github.com/auralabs/aurameter/internal/history"
	"github.com/auralabs/aurameter/internal/monitoring"
	"github.com/auralabs/aurameter/internal/ratelimit"
	"github.com/auralabs/aurameter/internal/scoring"
	"github.com/auralabs/aurameter/internal/security"
	"github.com/auralabs/aurameter/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const version = "1.0.0"

// server bundles the handler dependencies so routes can be wired the
// same way in main and in tests.
type server struct {
	logger  *monitoring.Logger
	metrics *monitoring.Metrics
	cache   *cache.Cache
	limiter *ratelimit.RateLimiter
	redis   *ratelimit.RedisClient
	store   *history.Store
	vision  *adapters.VisionAdapter
	engines map[scoring.Variant]*scoring.Engine
}

func newServer(store *history.Store) (*server, error) {
	faceEngine, err := scoring.NewEngine(scoring.FaceConfig())
	if err != nil {
		return nil, fmt.Errorf("face engine: %w", err)
	}
	bodyEngine, err := scoring.NewEngine(scoring.BodyConfig())
	if err != nil {
		return nil, fmt.Errorf("body engine: %w", err)
	}

	return &server{
		logger:  monitoring.NewLogger(),
		metrics: monitoring.NewMetrics(),
		cache:   cache.NewCache(cacheTTL()),
		store:   store,
		engines: map[scoring.Variant]*scoring.Engine{
			scoring.VariantFace: faceEngine,
			scoring.VariantBody: bodyEngine,
		},
	}, nil
}

func (s *server) setupRouter() *gin.Engine {
	r := gin.New()

	r.Use(s.requestMetrics())
	r.Use(apperrors.RecoveryHandler())
	r.Use(apperrors.ErrorHandler())
	r.Use(security.HeadersMiddleware())
	r.Use(cors.New(corsConfig()))

	if s.limiter != nil {
		r.Use(s.limiter.IPRateLimitMiddleware())
	}
	r.Use(s.cache.Middleware(s.metrics))

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/cache/stats", s.handleCacheStats)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/v1")
	{
		v1.POST("/score/face", s.handleScore(scoring.VariantFace))
		v1.POST("/score/body", s.handleScore(scoring.VariantBody))
		v1.GET("/history/recent", s.handleHistory)

		// Vision calls are expensive; keep a tighter budget per IP.
		analyze := v1.Group("/analyze")
		if s.limiter != nil {
			analyze.Use(s.limiter.EndpointRateLimitMiddleware("analyze", 10))
		}
		analyze.POST("/face", s.handleAnalyze(scoring.VariantFace))
		analyze.POST("/body", s.handleAnalyze(scoring.VariantBody))
	}

	return r
}

// requestMetrics records per-request counters and the access log entry
func (s *server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		s.metrics.IncrementRequest()
		s.metrics.RecordResponseTime(duration)
		s.metrics.RecordRequestByStatus(status)
		if status >= http.StatusBadRequest {
			s.metrics.IncrementError()
		}

		s.logger.RequestLogger(c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.Request.UserAgent(), status, duration)
	}
}

// handleScore scores pre-extracted measurements for one variant.
//
//	@Summary	Score a capture from extracted measurements
//	@Accept		json
//	@Produce	json
//	@Param		request	body		types.ScoreRequest	true	"Measurements and capture signals"
//	@Success	200		{object}	types.ScoreResponse
//	@Failure	422		{object}	types.BlockedResponse
//	@Router		/v1/score/face [post]
//	@Router		/v1/score/body [post]
func (s *server) handleScore(variant scoring.Variant) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ScoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := apperrors.NewValidationError("invalid request body", err.Error())
			apperrors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		s.score(c, variant, req)
	}
}

// score runs the quality gate and the pipeline for an already-bound
// request. Shared by the score and analyze endpoints.
func (s *server) score(c *gin.Context, variant scoring.Variant, req types.ScoreRequest) {
	engine := s.engines[variant]
	start := time.Now()

	assessment := engine.AssessQuality(req.Signals)
	if !assessment.CanProceed {
		s.metrics.IncrementBlockedCapture()
		s.logger.QualityBlockLogger(string(variant), assessment.Score, issueStrings(assessment.Issues))
		c.JSON(http.StatusUnprocessableEntity, types.BlockedResponse{
			Error:   "capture quality too low to score reliably",
			Quality: assessment,
		})
		return
	}

	out, err := engine.Score(scoring.Input{
		Measurements: req.Measurements,
		Quality:      assessment,
		SideProvided: req.Signals.SideProvided,
		Appearance:   req.Appearance,
		Overrides:    req.Overrides,
	})
	if err != nil {
		appErr := apperrors.NewValidationError(err.Error())
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	s.metrics.IncrementScore(string(variant))
	s.logger.ScoringLogger(string(variant), out.Overall.Current, string(out.Overall.Confidence), assessment.Score, time.Since(start), false)

	if s.store != nil {
		rec := history.NewRecord(req.SubjectID, variant, assessment.Score, out)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.store.Save(ctx, rec); err != nil {
				slog.Error("Failed to save score record", "error", err)
			}
		}()
	}

	c.JSON(http.StatusOK, types.ScoreResponse{
		Variant: string(variant),
		Quality: assessment,
		Result:  out,
	})
}

// handleAnalyze runs the vision provider on a hosted image, then scores
// the extracted measurements through the same pipeline.
//
//	@Summary	Analyze a hosted image and score it
//	@Accept		json
//	@Produce	json
//	@Param		request	body		types.AnalyzeImageRequest	true	"Image location"
//	@Success	200		{object}	types.ScoreResponse
//	@Router		/v1/analyze/face [post]
//	@Router		/v1/analyze/body [post]
func (s *server) handleAnalyze(variant scoring.Variant) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.vision == nil || !s.vision.Enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image analysis is not configured"})
			return
		}

		var req types.AnalyzeImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := apperrors.NewValidationError("invalid request body", err.Error())
			apperrors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		start := time.Now()
		s.metrics.IncrementVisionCalls()
		extraction, err := s.vision.Extract(c.Request.Context(), variant, req.ImageURL, req.SideURL)
		s.metrics.RecordExternalAPIRequest("vision", err == nil)
		s.logger.ExternalAPILogger("vision", http.MethodPost, "/v1/extract", 0, time.Since(start), err == nil)
		if err != nil {
			appErr := apperrors.ToAppError(err)
			apperrors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		s.score(c, variant, types.ScoreRequest{
			SubjectID:    req.SubjectID,
			Signals:      extraction.Signals,
			Measurements: extraction.Measurements,
			Appearance:   extraction.Appearance,
			Overrides:    extraction.Overrides,
		})
	}
}

// handleHistory returns recent score records, optionally for a subject.
//
//	@Summary	List recent score records
//	@Produce	json
//	@Param		subject	query	string	false	"Subject identifier"
//	@Param		limit	query	int		false	"Max records (default 20)"
//	@Router		/v1/history/recent [get]
func (s *server) handleHistory(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is not configured"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var records []*history.Record
	var err error
	if subject := c.Query("subject"); subject != "" {
		records, err = s.store.SubjectHistory(c.Request.Context(), subject, limit)
	} else {
		records, err = s.store.Recent(c.Request.Context(), limit)
	}
	if err != nil {
		appErr := apperrors.NewInternalError("failed to load history", err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	if records == nil {
		records = []*history.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}

// handleHealth reports liveness plus dependency checks.
//
//	@Summary	Health check
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Router		/health [get]
func (s *server) handleHealth(c *gin.Context) {
	checks := make(map[string]string)
	status := "ok"

	if s.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.HealthCheck(ctx); err != nil {
			checks["history"] = "unavailable: " + err.Error()
			status = "degraded"
		} else {
			checks["history"] = "ok"
		}
	}

	if s.redis != nil && s.redis.IsEnabled() {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.redis.HealthCheck(ctx); err != nil {
			checks["redis"] = "unavailable: " + err.Error()
			status = "degraded"
		} else {
			checks["redis"] = "ok"
		}
	}

	c.JSON(http.StatusOK, types.HealthResponse{
		Status:  status,
		Version: version,
		Checks:  checks,
	})
}

func (s *server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.GetStats())
}

func (s *server) handleCacheStats(c *gin.Context) {
	stats := s.cache.Stats()
	if s.limiter != nil {
		stats["rate_limiter"] = s.limiter.GetStats()
	}
	c.JSON(http.StatusOK, stats)
}

func issueStrings(issues []scoring.IssueKind) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, string(is))
	}
	return out
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

func cacheTTL() time.Duration {
	minutes, err := strconv.Atoi(getEnvOrDefault("CACHE_TTL_MINUTES", "15"))
	if err != nil || minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logger := monitoring.NewLogger()
	slog.SetDefault(logger.Logger)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := history.NewStore(getEnvOrDefault("DATA_DIR", "./data"))
	if err != nil {
		slog.Error("Failed to open history store", "error", err)
		os.Exit(1)
	}

	srv, err := newServer(store)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	redisDB, _ := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	redisClient, err := ratelimit.NewRedisClient(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASSWORD"), redisDB)
	if err != nil {
		// Rate limiting degrades to the in-memory fallback.
		slog.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		redisClient, _ = ratelimit.NewRedisClient("", "", 0)
	}
	srv.redis = redisClient

	limitCfg := ratelimit.DefaultConfig()
	if perMin, err := strconv.Atoi(os.Getenv("RATE_LIMIT_PER_MIN")); err == nil && perMin > 0 {
		limitCfg.IPLimitPerMin = perMin
	}
	srv.limiter = ratelimit.NewRateLimiter(redisClient, limitCfg, srv.metrics)

	visionTimeout, _ := strconv.Atoi(getEnvOrDefault("VISION_TIMEOUT_SECONDS", "30"))
	srv.vision = adapters.NewVisionAdapter(
		os.Getenv("VISION_API_URL"),
		os.Getenv("VISION_API_KEY"),
		time.Duration(visionTimeout)*time.Second,
	)

	router := srv.setupRouter()

	port := getEnvOrDefault("PORT", "8080")
	httpSrv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", port, "version", version, "vision_enabled", srv.vision.Enabled())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}

	apperrors.SafeClose(store, "history store")
	apperrors.SafeClose(redisClient, "redis client")

	slog.Info("Server stopped")
}
