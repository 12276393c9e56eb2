package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/joho/godotenv"
	"github.com/kvenegas/tasks-api/config"
	"github.com/kvenegas/tasks-api/pkg/helpers"
	"github.com/kvenegas/tasks-api/pkg/mailer"
)

// Consumes email jobs from RabbitMQ and delivers them via Mailgun.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	q, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}
	if err := ch.Qos(5, 0, false); err != nil {
		log.Fatalf("failed to set qos: %v", err)
	}

	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to start consumer: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	logger.Infof("email worker consuming from %q", q.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker shutting down")
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("delivery channel closed")
				return
			}
			handleDelivery(ctx, cfg, logger, mg, d)
		}
	}
}

func handleDelivery(ctx context.Context, cfg *config.Config, logger *logrus.Logger, mg *mailer.Mailgun, d amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logger.Errorf("invalid email job, dropping: %v", err)
		_ = d.Nack(false, false)
		return
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailer.Render(job.Template, job.Data)
		if err != nil {
			logger.Errorf("render template %q: %v", job.Template, err)
			_ = d.Nack(false, false)
			return
		}
		subject, text, html = s, t, h
	}

	if !cfg.MailSendEnabled {
		// Dry-run mode: acknowledge without hitting Mailgun.
		_ = d.Ack(false)
		return
	}

	if err := mg.Send(ctx, job.To, subject, text, html); err != nil {
		logger.Errorf("send email to %s: %v", job.To, err)
		_ = d.Nack(false, true) // requeue for retry
		return
	}
	_ = d.Ack(false)
}
