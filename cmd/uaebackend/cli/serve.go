package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kharelpawan/uaebackend/internal/auth"
	"github.com/kharelpawan/uaebackend/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP server that exposes the public content API and the admin API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 5000, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe() error {
	logger := buildLogger()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info("database ready", "driver", viper.GetString("db.driver"))

	authSvc, err := auth.NewService(st, auth.Config{
		Secret:            viper.GetString("auth.jwt_secret"),
		TokenTTL:          viper.GetDuration("auth.token_ttl"),
		BootstrapEmail:    viper.GetString("auth.bootstrap_email"),
		BootstrapPassword: viper.GetString("auth.bootstrap_password"),
	})
	if err != nil {
		if errors.Is(err, auth.ErrMissingSecret) {
			return fmt.Errorf("auth.jwt_secret is not set: configure it in uaebackend.yaml or via UAEBACKEND_AUTH_JWT_SECRET")
		}
		return fmt.Errorf("init auth service: %w", err)
	}

	count, err := st.CountAdmins(context.Background())
	if err != nil {
		logger.Warn("failed to check for admin account", "error", err)
	} else if count == 0 {
		logger.Warn("no admin account found - POST /api/auth/setup or run: uaebackend admin create")
	}

	cfg := buildServerConfig()
	srv := server.New(cfg, st, authSvc, logger)

	fmt.Printf("→ Listening on http://%s:%d\n", cfg.Host, cfg.Port)
	fmt.Printf("→ Health: http://%s:%d/health\n", cfg.Host, cfg.Port)
	fmt.Println()

	return srv.ListenAndServe()
}

// buildServerConfig overlays the server.* and rate_limit.* config keys on
// the built-in defaults. Zero or absent keys keep the default value.
func buildServerConfig() server.Config {
	cfg := server.DefaultConfig()
	if host := viper.GetString("server.host"); host != "" {
		cfg.Host = host
	}
	if port := viper.GetInt("server.port"); port > 0 {
		cfg.Port = port
	}
	if origins := viper.GetStringSlice("server.cors_origins"); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	if dir := viper.GetString("server.uploads_dir"); dir != "" {
		cfg.UploadsDir = dir
	}
	if n := viper.GetInt64("server.max_body_bytes"); n > 0 {
		cfg.MaxBodyBytes = n
	}
	if d := viper.GetDuration("server.shutdown_timeout"); d > 0 {
		cfg.ShutdownTimeout = d
	}
	if window := viper.GetDuration("rate_limit.window"); window > 0 {
		cfg.RateLimitWindow = window
	}
	if max := viper.GetInt("rate_limit.max_requests"); max > 0 {
		cfg.MaxRequests = max
	}
	if max := viper.GetInt("rate_limit.auth_max_requests"); max > 0 {
		cfg.AuthMaxRequests = max
	}
	return cfg
}
