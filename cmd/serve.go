package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/vastu/internal/config"
	"github.com/abhisek/vastu/internal/dedupe"
	"github.com/abhisek/vastu/internal/mail"
	"github.com/abhisek/vastu/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the notification service",
	Long: `Serve POST /api/questionnaire-email: validate and rescore a completed
questionnaire, store it, and email the result to the respondent.

Mail goes through SendGrid when VASTU_SENDGRID_API_KEY is set and is
printed to stderr otherwise.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", "", "Listen address (default :8080)")
	f.String("admin-email", "", "Address that receives a copy of every result")
	f.String("allowed-origins", "", "Comma-separated CORS origins (default *)")
	f.String("redis-addr", "", "Redis address for idempotency keys (default in-memory)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger()

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	guard, err := newGuard(ctx, cfg)
	if err != nil {
		return err
	}
	defer guard.Close()

	mailer, err := newMailer(cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Catalog:        catalog,
		Submissions:    st.SubmissionRepo(),
		Guard:          guard,
		Mailer:         mailer,
		AdminEmail:     cfg.AdminEmail,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("notification service listening", "addr", cfg.Addr, "questions", catalog.Len())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return httpServer.Close()
	}
	return nil
}

func newGuard(ctx context.Context, cfg config.Config) (dedupe.Guard, error) {
	if cfg.RedisAddr == "" {
		return dedupe.NewMemory(dedupe.DefaultTTL), nil
	}
	g, err := dedupe.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, dedupe.DefaultTTL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return g, nil
}

func newMailer(cfg config.Config) (mail.Service, error) {
	renderer, err := mail.NewRenderer(cfg.FromName, cfg.BookingURL)
	if err != nil {
		return nil, fmt.Errorf("load mail templates: %w", err)
	}
	sender := mail.NewSender(cfg.FromName, cfg.FromEmail)
	if cfg.SendGridAPIKey == "" {
		return mail.NewConsoleService(os.Stderr, sender, renderer), nil
	}
	return mail.NewSendGridService(cfg.SendGridAPIKey, sender, renderer), nil
}
