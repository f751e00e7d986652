package events

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

var (
	defaultOnce   sync.Once
	defaultSender *DataSender
)

// Default returns the process-wide sender, connecting on first use. A failed
// connect leaves events disabled for the process lifetime.
func Default() Sender {
	defaultOnce.Do(func() {
		sender, err := NewDataSender()
		if err != nil {
			log.Printf("Failed to create NATS data sender: %v", err)
			return
		}
		defaultSender = sender
	})
	if defaultSender == nil {
		return nil
	}
	return defaultSender
}

// DataSender publishes outward events over NATS
type DataSender struct {
	conn    *nats.Conn
	subject string
	enabled bool
}

// Config holds NATS configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Subject  string
}

// NewDataSender connects to NATS using environment configuration. In
// development environments the sender is disabled and every send becomes a
// logged no-op, so the core can run without a broker.
func NewDataSender() (*DataSender, error) {
	env := os.Getenv("GO_ENV")
	if env == "development" || env == "dev" {
		log.Println("Development environment detected, NATS data sender disabled")
		return &DataSender{enabled: false}, nil
	}

	config := loadConfig()

	natsURL := fmt.Sprintf("nats://%s:%s@%s:%s",
		config.Username, config.Password, config.Host, config.Port)

	conn, err := nats.Connect(natsURL,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Printf("Connected to NATS server at %s:%s", config.Host, config.Port)

	return &DataSender{
		conn:    conn,
		subject: config.Subject,
		enabled: true,
	}, nil
}

// loadConfig loads NATS configuration from environment variables
func loadConfig() Config {
	return Config{
		Host:     getEnvOrDefault("NATS_HOST", "localhost"),
		Port:     getEnvOrDefault("NATS_PORT", "4222"),
		Username: getEnvOrDefault("NATS_USERNAME", ""),
		Password: getEnvOrDefault("NATS_PASSWORD", ""),
		Subject:  getEnvOrDefault("NATS_SUBJECT_BILLING_EVENTS", "billing.events"),
	}
}

// Send publishes one event to the configured subject
func (ds *DataSender) Send(event Event) error {
	if !ds.enabled {
		log.Println("NATS data sender is disabled, skipping event send")
		return nil
	}

	if ds.conn == nil {
		return fmt.Errorf("NATS connection is not initialized")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := ds.conn.Publish(ds.subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.Printf("Sent %s event to NATS subject '%s'", event.Kind, ds.subject)
	return nil
}

// Close closes the NATS connection
func (ds *DataSender) Close() {
	if ds.conn != nil && ds.enabled {
		ds.conn.Close()
		log.Println("NATS connection closed")
	}
}

// IsConnected checks if the NATS connection is active
func (ds *DataSender) IsConnected() bool {
	if !ds.enabled || ds.conn == nil {
		return false
	}
	return ds.conn.IsConnected()
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
