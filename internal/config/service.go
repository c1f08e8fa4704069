package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Service holds the job-worker settings, populated from environment
// variables.
type Service struct {
	KafkaBrokers    []string
	KafkaJobTopic   string
	KafkaSinkTopic  string
	KafkaGroupID    string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Workers bounds the resample fan-out for every job.
	Workers int
}

// LoadService reads configuration from environment variables, applying
// defaults where unset.
func LoadService() (*Service, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	workers := runtime.NumCPU()
	if s := os.Getenv("RESAMPLE_WORKERS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > runtime.NumCPU() {
			return nil, fmt.Errorf("invalid RESAMPLE_WORKERS %q: want 1..%d", s, runtime.NumCPU())
		}
		workers = n
	}

	cfg := &Service{
		KafkaBrokers:    splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaJobTopic:   envOrDefault("KAFKA_JOB_TOPIC", "regrid-jobs"),
		KafkaSinkTopic:  envOrDefault("KAFKA_SINK_TOPIC", "regrid-results"),
		KafkaGroupID:    envOrDefault("KAFKA_GROUP_ID", "windspeed-raster"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		Workers:         workers,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaJobTopic == "" {
		return nil, errors.New("KAFKA_JOB_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}
