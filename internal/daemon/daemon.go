package daemon

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ecosphere-platform/ecosphere/internal/api"
	"github.com/ecosphere-platform/ecosphere/internal/app/emissions"
	"github.com/ecosphere-platform/ecosphere/internal/app/ledger"
	"github.com/ecosphere-platform/ecosphere/internal/app/score"
	"github.com/ecosphere-platform/ecosphere/internal/app/session"
	"github.com/ecosphere-platform/ecosphere/internal/domain"
	"github.com/ecosphere-platform/ecosphere/internal/infra/catalog"
	"github.com/ecosphere-platform/ecosphere/internal/infra/predictor"
	"github.com/ecosphere-platform/ecosphere/internal/infra/sqlite"
)

// Daemon is the assembled platform process.
type Daemon struct {
	cfg    Config
	log    *zap.SugaredLogger
	store  *sqlite.DB
	server *http.Server
}

// New assembles the daemon from config.
func New(cfg Config) (*Daemon, error) {
	logger, err := ConfigureZap(cfg.Log)
	if err != nil {
		return nil, err
	}
	log := logger.Sugar()

	if cfg.Storage.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o700); err != nil {
			return nil, err
		}
	}
	store, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	rewards := ledger.NewRewards(cfg.Ledger, store, log)
	srv := api.NewServer(api.Deps{
		Sessions:    session.NewManager(store, log),
		Calculator:  emissions.New(cfg.Emissions),
		Processor:   ledger.NewProcessor(cfg.Ledger, rewards, store, log),
		Rewards:     rewards,
		Impact:      score.New(cfg.Score),
		Marketplace: catalog.DefaultMarketplace(),
		Redemptions: catalog.DefaultRedemptionCatalog(),
		Log:         log,
	})
	srv.SetRewardsHub(api.NewRewardsHub())
	srv.SetClassifiers(loadModels(cfg.Models, log))
	if cfg.API.EnableMetrics {
		srv.EnableMetrics()
	}

	return &Daemon{
		cfg:   cfg,
		log:   log,
		store: store,
		server: &http.Server{
			Addr:              cfg.API.Addr(),
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// loadModels loads whichever prediction artifacts are configured. A model
// that fails to load is logged and skipped; its endpoint then reports
// unavailable instead of failing the boot.
func loadModels(cfg ModelsConfig, log *zap.SugaredLogger) (crop, fire domain.Classifier) {
	if cfg.CropPath != "" {
		m, err := predictor.LoadCropModel(cfg.CropPath)
		if err != nil {
			log.Warnw("crop model unavailable", "path", cfg.CropPath, "err", err)
		} else {
			crop = m
		}
	}
	if cfg.FirePath != "" {
		m, err := predictor.LoadFireModel(cfg.FirePath)
		if err != nil {
			log.Warnw("fire model unavailable", "path", cfg.FirePath, "err", err)
		} else {
			fire = m
		}
	}
	return crop, fire
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (d *Daemon) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		d.log.Infow("api listening", "addr", d.cfg.API.Addr())
		if err := d.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		d.store.Close()
		return err
	case <-ctx.Done():
	}

	d.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := d.server.Shutdown(shutdownCtx)
	if cerr := d.store.Close(); err == nil {
		err = cerr
	}
	return err
}
