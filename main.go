package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"code_arena/internal/api"
	"code_arena/internal/middleware"
	"code_arena/internal/models"
	"code_arena/internal/repository"
	"code_arena/internal/service"
	"code_arena/internal/storage"
	"code_arena/pkg/config"
	"code_arena/pkg/logger"
)

func main() {
	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 資料庫只用來存放比賽與聊天紀錄，房間狀態一律在記憶體中
	var repos *repository.Repositories
	if cfg.DB.Enabled {
		db, err := storage.NewPostgresDB(cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer db.Close()

		if err := db.AutoMigrate(&models.MatchRecord{}, &models.ChatRecord{}); err != nil {
			log.Fatal().Err(err).Msg("failed to auto migrate database")
		}
		repos = repository.NewRepositories(db)
	}

	// 初始化服務
	services := service.NewServices(cfg.Arena, repos)
	rec, persist := services.Recorder.(*service.Recorder)
	if persist {
		go rec.Run(ctx)
	}

	// 設置 Gin 路由
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	api.SetupRoutes(r, services, cfg)

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Address).Bool("db", cfg.DB.Enabled).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server crashed")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	services.Arena.Shutdown()
	if persist {
		rec.Close()
		rec.Wait()
	}

	log.Info().Msg("shutdown complete")
}
