package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/iliyamo/box-office/internal/boxoffice"
	"github.com/iliyamo/box-office/internal/config"
	"github.com/iliyamo/box-office/internal/handler"
	"github.com/iliyamo/box-office/internal/logger"
	"github.com/iliyamo/box-office/internal/router"
	queue_publisher "github.com/iliyamo/box-office/internal/service"
	"github.com/iliyamo/box-office/internal/shell"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// globalFlags are shared by every command.
type globalFlags struct {
	envFile  string
	logLevel string
	httpAddr string
}

func (f *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.envFile, "env-file", ".env", "path of an optional .env file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
}

// load reads the configuration and applies command line overrides.
func (f *globalFlags) load() (config.Config, error) {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return config.Config{}, err
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.httpAddr != "" {
		cfg.HTTPAddr = f.httpAddr
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "boxoffice",
		Short: "Movie theater box office",
		Long: `Sell, refund and report on movie tickets from an interactive shell.
With --http (or HTTP_ADDR) the same operations are served as a JSON API.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return runBoxOffice(cmd.Context(), cfg)
		},
	}
	flags.register(root.PersistentFlags())
	root.Flags().StringVar(&flags.httpAddr, "http", "", "serve the operator API on this address; overrides HTTP_ADDR")

	root.AddCommand(
		newConsumeCmd(flags),
		newHashPasswordCmd(flags),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of the box office",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "boxoffice %s\n", version)
		},
	}
}

// runBoxOffice runs the shell on stdin until quit, end of input or a
// termination signal, serving the operator API alongside when enabled.
func runBoxOffice(parent context.Context, cfg config.Config) error {
	zaplog, err := logger.NewZapLog(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = zaplog.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var pub boxoffice.Publisher
	if cfg.AMQPURL != "" {
		pub = queue_publisher.NewAMQPPublisher(cfg.AMQPURL, zaplog)
		zaplog.Info("publishing sales events", zap.String("env", cfg.Env))
	}
	office := boxoffice.New(boxoffice.RealClock(), loc, pub, zaplog)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM)
	defer stop()

	if cfg.HTTPEnabled() {
		if err := cfg.ValidateHTTP(); err != nil {
			return err
		}
		stopHTTP := serveHTTP(office, cfg, zaplog)
		defer stopHTTP()
	}

	reader, err := shell.NewLineReader(os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("shell input: %w", err)
	}
	defer reader.Close()

	sh := shell.New(office, os.Stdout, zaplog)
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx, reader) }()

	select {
	case err := <-done:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-ctx.Done():
		zaplog.Info("termination signal received")
		return nil
	}
}

// serveHTTP starts the operator API in the background and returns a
// function shutting it down.
func serveHTTP(office *boxoffice.BoxOffice, cfg config.Config, zaplog *zap.Logger) func() {
	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		if rdb = config.NewRedisClient(cfg.Redis); rdb == nil {
			zaplog.Warn("redis unreachable; rate limiting disabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	e := router.New(router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, zaplog),
		Tickets: handler.NewTicketHandler(office, zaplog),
		Reports: handler.NewReportHandler(office, zaplog),
	}, cfg, rdb, zaplog)

	go func() {
		zaplog.Info("operator API listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.Env))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zaplog.Error("operator API stopped", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			zaplog.Warn("operator API shutdown", zap.Error(err))
		}
		if rdb != nil {
			_ = rdb.Close()
		}
	}
}
