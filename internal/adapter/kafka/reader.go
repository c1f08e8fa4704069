// Package kafka adapts the job worker's source and sink to Kafka topics.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/windspeed-raster/internal/config"
	"github.com/couchcryptid/windspeed-raster/internal/service"
)

// Reader consumes regrid jobs from the job topic.
// It implements service.JobSource.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a consumer-group reader for the configured job topic.
func NewReader(cfg *config.Service, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaJobTopic,
		GroupID: cfg.KafkaGroupID,
	})
	return &Reader{reader: r, logger: logger}
}

// FetchJob blocks until a job message arrives and decodes it. The returned
// job carries a Commit callback tied to the message offset; offsets are
// only committed after the worker publishes a result.
func (r *Reader) FetchJob(ctx context.Context) (service.RegridJob, error) {
	msg, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return service.RegridJob{}, fmt.Errorf("fetch job message: %w", err)
	}
	job, err := decodeJob(msg)
	if err != nil {
		// A malformed message can never succeed: log, commit, and skip.
		r.logger.Warn("skipping malformed job message",
			"error", err,
			"partition", msg.Partition,
			"offset", msg.Offset,
		)
		if cerr := r.reader.CommitMessages(ctx, msg); cerr != nil {
			r.logger.Warn("commit malformed job failed", "error", cerr)
		}
		return service.RegridJob{}, err
	}
	job.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return job, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// decodeJob unmarshals a job message.
func decodeJob(msg kafkago.Message) (service.RegridJob, error) {
	var job service.RegridJob
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		return service.RegridJob{}, fmt.Errorf("decode job: %w", err)
	}
	if job.ID == "" {
		job.ID = string(msg.Key)
	}
	return job, nil
}
