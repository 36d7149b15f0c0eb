package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/csg33k/beneficiary-admin/internal/adapters/httpapi"
	"github.com/csg33k/beneficiary-admin/internal/config"
	"github.com/csg33k/beneficiary-admin/internal/crud"
	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/forms"
	"github.com/csg33k/beneficiary-admin/internal/handlers"
	"github.com/csg33k/beneficiary-admin/internal/logger"
	"github.com/csg33k/beneficiary-admin/internal/notify"
	"github.com/csg33k/beneficiary-admin/internal/ports"
	"github.com/csg33k/beneficiary-admin/internal/session"
	"github.com/csg33k/beneficiary-admin/internal/views"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:          "beneficiary-admin",
		Short:        "Admin console for employees and their beneficiaries",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("api-host", "", "base URL of the remote API")
	flags.String("auth-scheme", "JWT", "scheme prefix of the Authorization header")
	flags.Duration("timeout", 30*time.Second, "remote API request timeout")
	flags.String("session-backend", config.BackendSQLite, "token store: sqlite, redis or memory")
	flags.String("db-path", "session.db", "SQLite token store path")
	flags.String("redis-addr", "localhost:6379", "Redis token store address")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "console", "console or json")
	bindFlags(v, root, map[string]string{
		"api.base_url":    "api-host",
		"api.auth_scheme": "auth-scheme",
		"api.timeout":     "timeout",
		"session.backend": "session-backend",
		"session.db_path": "db-path",
		"redis.addr":      "redis-addr",
		"log.level":       "log-level",
		"log.format":      "log-format",
	})

	root.AddCommand(
		newServeCommand(v),
		newLoginCommand(v),
		newLogoutCommand(v),
	)
	return root
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		_ = v.BindPFlag(key, cmd.PersistentFlags().Lookup(name))
	}
}

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	session *session.Session
	client  *httpapi.Client
	store   ports.TokenStore
	close   func() error
}

func setup(ctx context.Context, v *viper.Viper) (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Format)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}
	sess := session.New(store, log)
	client := httpapi.NewClient(cfg.API.BaseURL, sess,
		httpapi.WithTimeout(cfg.API.Timeout),
		httpapi.WithAuthScheme(cfg.API.AuthScheme),
		httpapi.WithLogger(log),
	)
	return &app{cfg: cfg, log: log, session: sess, client: client, store: store, close: closeStore}, nil
}

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), v)
		},
	}
	cmd.Flags().Int("port", 8080, "HTTP listen port")
	_ = v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

func serve(ctx context.Context, v *viper.Viper) error {
	a, err := setup(ctx, v)
	if err != nil {
		return err
	}
	defer a.close()

	notices := notify.NewRecorder()
	ws := views.NewWorkspace(a.client, notify.Logged(notices, a.log), crud.Preconfirmed, a.log)
	h := handlers.New(a.client, a.session, ws, notices, a.log)

	if _, ok := a.session.Token(ctx); ok {
		attrs := []any{"backend", a.cfg.Session.Backend}
		if at, ok := savedAt(ctx, a.store); ok {
			attrs = append(attrs, "saved_at", at.Format(time.DateTime))
		}
		a.log.Info("restored session token", attrs...)
	}

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: a.cfg.API.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("beneficiary admin running",
			"url", "http://localhost"+a.cfg.Server.Addr(),
			"api", a.cfg.API.BaseURL,
			"session", a.cfg.Session.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}

	a.log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server forced to shutdown", "error", err)
		return err
	}
	a.log.Info("server exited gracefully")
	return nil
}

func newLoginCommand(v *viper.Viper) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, v)
			if err != nil {
				return err
			}
			defer a.close()

			cred, err := promptCredential(cmd, username)
			if err != nil {
				return err
			}
			if err := forms.ValidateCredential(&cred); err != nil {
				return err
			}
			if _, err := a.client.Login(ctx, cred); err != nil {
				return fmt.Errorf("login failed: %s", notify.Describe(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed in.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username (prompted when empty)")
	return cmd
}

func promptCredential(cmd *cobra.Command, username string) (domain.AdminCredential, error) {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	if username == "" {
		fmt.Fprint(out, "Username: ")
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return domain.AdminCredential{}, fmt.Errorf("read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	fmt.Fprint(out, "Password: ")
	var password string
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return domain.AdminCredential{}, fmt.Errorf("read password: %w", err)
		}
		password = string(b)
	} else {
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return domain.AdminCredential{}, fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	return domain.AdminCredential{Username: username, Password: password}, nil
}

func newLogoutCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, v)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.session.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
