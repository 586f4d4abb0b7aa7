// Command worker consumes domain events from RabbitMQ and mails staff
// notifications for new quote requests and contact messages.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/config"
	"github.com/xavierca1/tes-insurance/internal/infra/mail"
	"github.com/xavierca1/tes-insurance/internal/infra/queue"
	"github.com/xavierca1/tes-insurance/internal/logger"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("worker stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL must be set")
	}
	if !cfg.MailEnabled() {
		return errors.New("SMTP_HOST and NOTIFY_EMAIL must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
	if err != nil {
		return err
	}
	defer rabbitMQ.Close()

	sender := mail.NewEmailSender(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
		cfg.MailFrom, cfg.NotifyEmail,
	)

	worker := queue.NewWorker(rabbitMQ.Ch, sender, log)
	return worker.Start(ctx, queue.QueueName)
}
