package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"telecom-support-be/internal/config"
	"telecom-support-be/internal/pkg/logger"
	"telecom-support-be/pkg/events"
	pkgNats "telecom-support-be/pkg/nats"
)

// Audit worker: consumes the mirrored support event stream from NATS and
// writes an audit trail. Runs separately from the API process so external
// consumers have a reference implementation of the durable stream.
func main() {
	cfg := config.Load()

	sysLogger := logger.NewZapLogger("logs/audit.log", cfg.App.Environment == "production")
	defer sysLogger.Sync()

	subscriber, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Error: Failed to connect to NATS: %v", err)
	}
	defer subscriber.Close()

	err = subscriber.Subscribe("support.>", "support-audit-worker", func(ctx context.Context, event events.Event) error {
		sysLogger.Info("Audit", event.EventType(), event.Payload())
		return nil
	})
	if err != nil {
		log.Fatalf("Error: Failed to subscribe: %v", err)
	}

	log.Println("Audit worker started, waiting for events...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Audit worker shutting down.")
}
