package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wisefido-risk-engine/internal/careplan"
	"wisefido-risk-engine/internal/config"
	"wisefido-risk-engine/internal/enrich"
	"wisefido-risk-engine/internal/httpapi"
	"wisefido-risk-engine/internal/logger"
	"wisefido-risk-engine/internal/population"
	"wisefido-risk-engine/internal/scoring"
	"wisefido-risk-engine/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "wisefido-risk-engine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// NLU 增强：配置完整时走在线客户端，否则降级为内置 fallback
	var enricher enrich.Enricher
	if cfg.NLU.Enabled {
		enricher = enrich.NewClient(cfg.NLU.BaseURL, cfg.NLU.APIKey, time.Duration(cfg.NLU.Timeout)*time.Second, log)
		log.Info("NLU enrichment enabled", zap.String("base_url", cfg.NLU.BaseURL))
	} else {
		enricher = enrich.NewNoop()
		log.Info("NLU enrichment disabled, using fallback insights")
	}

	assessor := scoring.NewAssessor(log)
	aggregator := population.NewAggregator(assessor, cfg.Scoring.Workers, log)
	plans := careplan.NewGenerator()

	router := httpapi.NewRouter(log)
	router.RegisterAssessmentRoutes(httpapi.NewAssessmentHandler(assessor, enricher, plans, log))
	router.RegisterPopulationRoutes(httpapi.NewPopulationHandler(
		aggregator, enricher, int64(cfg.Scoring.UploadMaxMB)<<20, log))
	router.RegisterHealthRoutes()

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server exited", zap.Error(err))
		}
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}
