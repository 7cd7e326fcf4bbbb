package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/box-office/internal/logger"
	"github.com/iliyamo/box-office/internal/queue"
)

var errNoBroker = errors.New("consume needs AMQP_URL or RABBITMQ_URL")

func newConsumeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Append sales events from RabbitMQ to the sales log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cfg.AMQPURL == "" {
				return errNoBroker
			}
			zaplog, err := logger.NewZapLog(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer func() { _ = zaplog.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			zaplog.Info("sales consumer starting", zap.String("dir", cfg.SalesLogDir))
			err = queue.StartSalesConsumer(ctx, cfg.AMQPURL, cfg.SalesLogDir, zaplog)
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}
