package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/quantlab/factorpanel/internal/artifacts"
	"github.com/quantlab/factorpanel/internal/config"
	"github.com/quantlab/factorpanel/internal/database"
	"github.com/quantlab/factorpanel/internal/pipeline"
	"github.com/quantlab/factorpanel/internal/scheduler"
	"github.com/quantlab/factorpanel/internal/server"
	"github.com/quantlab/factorpanel/internal/snapshot"
	"github.com/quantlab/factorpanel/pkg/logger"
)

// summaryHolder shares the latest run summary between the pipeline and the
// results server.
type summaryHolder struct {
	mu      sync.RWMutex
	summary *pipeline.RunSummary
}

func (h *summaryHolder) set(s *pipeline.RunSummary) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.summary = s
}

func (h *summaryHolder) get() *pipeline.RunSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.summary
}

// pipelineJob adapts the pipeline to the scheduler.
type pipelineJob struct {
	pipe   *pipeline.Pipeline
	holder *summaryHolder
}

func (j *pipelineJob) Name() string { return "dataset_run" }

func (j *pipelineJob) Run() error {
	summary, err := j.pipe.Run(context.Background())
	if err != nil {
		return err
	}
	j.holder.set(summary)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info"})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel})
	logger.SetGlobalLogger(log)
	log.Info().Msg("Starting factor panel generator")

	db, err := database.New(database.Config{
		Path:    cfg.DatabasePath(),
		Profile: database.ProfileBulk,
		Name:    "research",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open research database")
	}
	defer db.Close()

	repos, err := pipeline.NewRepositories(db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize repositories")
	}

	exporter, err := artifacts.NewExporter(cfg.ResultsDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize exporter")
	}

	ctx := context.Background()

	var uploader pipeline.ArtifactUploader
	if cfg.S3Bucket != "" {
		up, err := artifacts.NewUploader(ctx, cfg.S3Bucket, cfg.S3Prefix, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 uploader")
		}
		uploader = up
	}

	var cache *snapshot.Store
	if cfg.SnapshotCache {
		cache = snapshot.NewStore(cfg.SnapshotPath(), log)
	}

	pipe := pipeline.New(cfg, repos, exporter,
		pipeline.NewLiveFetcher(cfg, log), uploader, cache, nil, log)

	holder := &summaryHolder{}
	job := &pipelineJob{pipe: pipe, holder: holder}

	if err := job.Run(); err != nil {
		log.Fatal().Err(err).Msg("Pipeline run failed")
	}

	daemon := cfg.CronSchedule != "" || cfg.Port > 0
	if !daemon {
		log.Info().Msg("Run complete")
		return
	}

	if cfg.CronSchedule != "" {
		sched := scheduler.New(log)
		if err := sched.AddJob(cfg.CronSchedule, job); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.CronSchedule).
				Msg("Failed to register pipeline job")
		}
		sched.Start()
		defer sched.Stop()
	}

	var srv *server.Server
	if cfg.Port > 0 {
		srv = server.New(server.Config{
			Port:    cfg.Port,
			Repos:   repos,
			LastRun: holder.get,
			Log:     log,
		})
		go func() {
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("Results server failed")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
	}
}
