// Worker consumes notification delivery events from Kafka and POSTs them to a webhook.
// Set KAFKA_BROKERS, NOTIFY_KAFKA_TOPIC, KAFKA_GROUP_ID, and DELIVERY_WEBHOOK_URL.
// OTLP_ENDPOINT enables delivery metrics export; empty disables it.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"social-platform/backend/internal/config"
	"social-platform/backend/internal/notification/push"
	"social-platform/backend/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}
	if cfg.DeliveryWebhookURL == "" {
		log.Fatal("worker: DELIVERY_WEBHOOK_URL is required")
	}

	topic := cfg.NotifyKafkaTopic
	if topic == "" {
		topic = "social-notifications"
	}
	groupID := cfg.KafkaGroupID
	if groupID == "" {
		groupID = "notification-delivery-worker"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "notification-delivery-worker", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("worker: telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("worker: telemetry shutdown: %v", err)
		}
	}()

	meter := providers.MeterProvider.Meter("notification-delivery-worker")
	delivered, err := meter.Int64Counter("notifications_delivered_total")
	if err != nil {
		log.Fatalf("worker: meter: %v", err)
	}
	failed, err := meter.Int64Counter("notifications_delivery_failed_total")
	if err != nil {
		log.Fatalf("worker: meter: %v", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	log.Printf("worker: consuming from %s (group %s), pushing to %s", topic, groupID, cfg.DeliveryWebhookURL)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("worker: stopped")
				return
			}
			log.Printf("worker: kafka read error: %v", err)
			continue
		}

		pushCtx, pushCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := push.PushEventJSON(pushCtx, cfg.DeliveryWebhookURL, msg.Value); err != nil {
			log.Printf("worker: webhook push failed: %v", err)
			failed.Add(ctx, 1)
		} else {
			delivered.Add(ctx, 1)
		}
		pushCancel()
	}
}
