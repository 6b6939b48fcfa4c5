package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"roadmap_backend/internal/config"
	"roadmap_backend/internal/controller"
	"roadmap_backend/internal/middleware"
	"roadmap_backend/internal/service"
	"roadmap_backend/pkg/configwatcher"
	"roadmap_backend/pkg/database"
	"roadmap_backend/pkg/logger"
	"roadmap_backend/pkg/monitoring"
	"roadmap_backend/pkg/security"
	"roadmap_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerProvider  *sdktrace.TracerProvider
}

type services struct {
	roadmap *service.RoadmapService
	codes   service.CodeStore
}

type controllers struct {
	roadmap *controller.RoadmapController
	auth    *controller.AuthController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initServices(cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	roadmap, err := service.NewRoadmapService(cfg.AI, nil)
	if err != nil {
		return nil, err
	}
	s.roadmap = roadmap

	codes, err := service.NewCodeStore(cfg.Auth.OTP, rdb)
	if err != nil {
		return nil, err
	}
	s.codes = codes

	return s, nil
}

func (a *App) initControllers(s *services, cfg *config.Config, rdb *redis.Client) *controllers {
	return &controllers{
		roadmap: controller.NewRoadmapController(s.roadmap),
		auth:    controller.NewAuthController(s.codes, cfg.Auth.OTP.ExposeCode),
		health:  controller.NewHealthController(rdb, s.roadmap.HasAPIKey),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.AccessLog())
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	app := &App{Config: cfg}

	if cfg.Auth.OTP.Mode == config.OTPModeRedis {
		rdb, err := database.InitRedis(context.Background(), &cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
		app.Redis = rdb
	}

	services, err := app.initServices(cfg, app.Redis)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.services = services
	controllers := app.initControllers(services, cfg, app.Redis)

	if cfg.AI.APIKey == "" {
		logger.Log.Warn("GEMINI_API_KEY is not set; roadmap requests will fail until it is configured")
	}

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracerProvider = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	// 配置热更新：只替换上游模型相关设置
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		if err := services.roadmap.UpdateConfig(newCfg.AI); err != nil {
			logger.Log.Error("Failed to apply reloaded AI config", zap.Error(err))
			return
		}
		logger.Log.Info("AI config updated",
			zap.String("model", newCfg.AI.Model),
			zap.String("transport", newCfg.AI.Transport),
			zap.Bool("api_key_set", newCfg.AI.APIKey != ""),
		)
	})

	return app, nil
}

func (a *App) reloadConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

// Run 阻塞直到收到 SIGINT/SIGTERM
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}

// Serve 运行 HTTP 服务与配置监听，ctx 结束后优雅关闭
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if a.Config.ConfigFile != "" {
		w, err := configwatcher.New(a.Config.ConfigFile, a.reloadConfig)
		if err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		} else {
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	err := g.Wait()
	a.Close()
	logger.Log.Info("Server exiting")
	return err
}

// Close 释放 Redis 连接并刷新追踪数据
func (a *App) Close() {
	if a.tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
		a.tracerProvider = nil
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
		a.Redis = nil
	}
}
