package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	GovernanceMinReputation      int
	GovernanceCreationWindowDays int
	GovernanceResolveInterval    time.Duration
	GovernanceResolveBatchSize   int
	GovernanceOutboxBatchSize    int

	EnableGovernanceExpiryResolver bool
	EnableGovernanceOutboxRelay    bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "san2stic"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		GovernanceMinReputation:      envInt("GOVERNANCE_MIN_REPUTATION", 500),
		GovernanceCreationWindowDays: envInt("GOVERNANCE_CREATION_WINDOW_DAYS", 7),
		GovernanceResolveInterval:    envDuration("GOVERNANCE_RESOLVE_INTERVAL", time.Minute),
		GovernanceResolveBatchSize:   envInt("GOVERNANCE_RESOLVE_BATCH_SIZE", 100),
		GovernanceOutboxBatchSize:    envInt("GOVERNANCE_OUTBOX_BATCH_SIZE", 100),

		EnableGovernanceExpiryResolver: envBool("ENABLE_GOVERNANCE_EXPIRY_RESOLVER", true),
		EnableGovernanceOutboxRelay:    envBool("ENABLE_GOVERNANCE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
