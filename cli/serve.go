package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"disasterprep/api"
	"disasterprep/config"
	"disasterprep/middleware"
	"disasterprep/seed"
	"disasterprep/services"
	"disasterprep/session"
)

const (
	sweepInterval   = 10 * time.Minute
	shutdownTimeout = 15 * time.Second
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server on server.port.

When content.seed_file is set, its fixtures are loaded before the server
starts accepting requests; records that already exist are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rootOpts.cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := zap.L().Named("Main")
	gin.SetMode(cfg.Server.Mode)

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	if cfg.Content.SeedFile != "" {
		res, err := seed.LoadFile(ctx, repo, cfg.Content.SeedFile)
		if err != nil {
			return err
		}
		log.Info("Seed file loaded", zap.String("file", cfg.Content.SeedFile), zap.Int("created", res.Total()))
	}

	volunteers := services.NewVolunteerService(repo)
	handler := api.NewAPIHandler(
		repo,
		services.NewAboutService(repo),
		volunteers,
		services.NewDashboardService(volunteers),
		api.Options{
			FetchTimeout:   cfg.Content.FetchTimeout,
			RenderWait:     cfg.Content.RenderWait,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Cookies: middleware.CookieOptions{
				SessionCookie: cfg.Session.CookieName,
				NoticeCookie:  cfg.Session.NoticeCookie,
				MaxAge:        cfg.Session.MaxAge,
				Secure:        cfg.Session.Secure,
			},
		},
	)

	sessions := session.NewManager(session.NewStaticIdentityProvider(cfg.Members), cfg.Session.MaxAge)
	go sessions.RunSweeper(ctx, sweepInterval)

	router := api.NewRouter(handler, sessions)
	if err := router.SetTrustedProxies(nil); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}
