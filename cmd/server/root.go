package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tbeaudouin05/polar-checkout-gateway/api/bootstrap"
	"github.com/tbeaudouin05/polar-checkout-gateway/api/config"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	v := viper.New()
	var verbosity int

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve the product page, checkout, customer portal and webhook routes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(verbosity)

			cfg, err := config.LoadConfig(v)
			if err != nil {
				logger.Error("configuration error", "err", err)
				return err
			}
			if err := serve(cmd.Context(), cfg, logger); err != nil {
				logger.Error("server stopped", "err", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringP("port", "p", "", "HTTP listen port (env PORT, default "+config.DefaultHTTPPort+")")
	cmd.Flags().String("grpc-port", "", "gRPC health listen port (env GRPC_PORT, default "+config.DefaultGRPCPort+")")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase logger verbosity (default InfoLevel)")
	_ = v.BindPFlag(config.EnvHTTPPort, cmd.Flags().Lookup("port"))
	_ = v.BindPFlag(config.EnvGRPCPort, cmd.Flags().Lookup("grpc-port"))

	return cmd
}

func newLogger(verbosity int) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo - slog.Level(verbosity*4),
	}))
}

// serve runs the HTTP and gRPC listeners until a signal arrives or one of them fails.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	httpLis, err := net.Listen("tcp", net.JoinHostPort("", cfg.HTTPPort))
	if err != nil {
		return err
	}
	grpcLis, err := net.Listen("tcp", net.JoinHostPort("", cfg.GRPCPort))
	if err != nil {
		_ = httpLis.Close()
		return err
	}
	httpSrv := &http.Server{
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("serving gRPC", "address", grpcLis.Addr().String())
		errCh <- app.GRPC.Serve(grpcLis)
	}()
	go func() {
		logger.Info("serving HTTP", "address", httpLis.Addr().String(), "provider", cfg.PaymentProvider)
		if err := httpSrv.Serve(httpLis); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	// Both listeners are bound at this point.
	app.GRPC.SetServing(true)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errCh:
	}

	app.GRPC.SetServing(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := httpSrv.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	app.GRPC.Stop()
	return err
}
