package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Analysis job defaults, applied when a job leaves the field unset.
	DefaultGamma     float64
	AggregationLabel string
	IncomeLabel      string
	PopulationLabel  string
	DamagePattern    string
	EADColumn        string
	OutputDir        string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseInt("BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 || batchSize > 1000 {
		return nil, errors.New("BATCH_SIZE must be between 1 and 1000")
	}

	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	defaultGamma, err := parseFloat("DEFAULT_GAMMA", 1.2)
	if err != nil {
		return nil, err
	}
	if defaultGamma == 1 {
		return nil, errors.New("DEFAULT_GAMMA must not equal 1")
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "analysis-jobs"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "analysis-results"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "flood-equity-etl"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		DefaultGamma:     defaultGamma,
		AggregationLabel: envOrDefault("AGGREGATION_LABEL", "Census_Bg"),
		IncomeLabel:      envOrDefault("INCOME_LABEL", "PerCapitaIncomeBG"),
		PopulationLabel:  envOrDefault("POPULATION_LABEL", "TotalPopulationBG"),
		DamagePattern:    envOrDefault("DAMAGE_COLUMN_PATTERN", "Total Damage ({rp}Y)"),
		EADColumn:        envOrDefault("EAD_COLUMN", "Risk (EAD)"),
		OutputDir:        envOrDefault("OUTPUT_DIR", "output"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
