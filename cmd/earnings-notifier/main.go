// Command earnings-notifier consumes the notifications the server publishes to
// AMQP and delivers them to the log.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"earnings/internal/amqp"
	"earnings/internal/cli"
	"earnings/internal/log"
	"earnings/internal/notify"
)

func main() {
	cfg, logger := cli.Bootstrap("earnings-notifier", os.Stdout)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notifier")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	sink := notify.NewLogger(logger)
	handle := func(m *amqp.NotificationMessage) error {
		return sink.Notify(ctx, notify.FromMessage(m))
	}

	err = client.ConsumeNotifications(ctx, handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	<-done
	logger.Info("Notifier stopped")
}
