package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dkeye/Multiplayer/internal/adapters/hostauth"
	router "github.com/dkeye/Multiplayer/internal/adapters/http"
	"github.com/dkeye/Multiplayer/internal/app/orch"
	"github.com/dkeye/Multiplayer/internal/config"
)

const releaseVersion = "0.1.0"

func main() {
	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := newCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "multiplayer",
		Short:         "Authoritative room coordinator for real-time multi-user sessions.",
		Args:          cobra.NoArgs,
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())
	cmd.CompletionOptions.HiddenDefaultCmd = true
	return cmd
}

func run(parent context.Context, cfg *config.Config) error {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.HostAuthURL == "" {
		log.Warn().Msg("host_auth_url not set, every host request will be rejected")
	}
	o := orch.New(hostauth.NewClient(cfg.HostAuthURL, cfg.HostAuthTimeout))

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router.SetupRouter(ctx, cfg, o),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return o.RunSnapshots(ctx, cfg.SnapshotRate)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		o.Rooms.StopAll()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}
