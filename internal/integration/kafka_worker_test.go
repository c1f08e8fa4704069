//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/windspeed-raster/internal/adapter/kafka"
	"github.com/couchcryptid/windspeed-raster/internal/config"
	"github.com/couchcryptid/windspeed-raster/internal/domain"
	"github.com/couchcryptid/windspeed-raster/internal/observability"
	"github.com/couchcryptid/windspeed-raster/internal/pipeline"
	"github.com/couchcryptid/windspeed-raster/internal/resample"
	"github.com/couchcryptid/windspeed-raster/internal/service"
)

const (
	testJobTopic  = "test-regrid-jobs"
	testSinkTopic = "test-regrid-results"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka broker in a container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func writeUniformPNG(t *testing.T, path string, size int, speed float64) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = domain.EncodeComponent(speed)
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// readResult reads a single result event from the sink consumer.
func readResult(ctx context.Context, t *testing.T, consumer *kafkago.Reader) (service.RegridResult, map[string]string) {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var result service.RegridResult
	require.NoError(t, json.Unmarshal(msg.Value, &result), "unmarshal result message")
	return result, headers
}

// TestWorkerEndToEnd wires the full worker (kafka.Reader -> pipeline ->
// kafka.Writer) to a real broker: publish a job, expect a result event and
// the output raster on disk.
func TestWorkerEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testJobTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Service{
		KafkaBrokers:   []string{broker},
		KafkaJobTopic:  testJobTopic,
		KafkaSinkTopic: testSinkTopic,
		KafkaGroupID:   fmt.Sprintf("test-worker-%d", time.Now().UnixNano()),
		Workers:        2,
	}

	dir := t.TempDir()
	uPath := filepath.Join(dir, "u.png")
	vPath := filepath.Join(dir, "v.png")
	outPath := filepath.Join(dir, "out.png")
	writeUniformPNG(t, uPath, 8, 10)
	writeUniformPNG(t, vPath, 8, 0)

	job := service.RegridJob{
		ID:         "job-e2e",
		UFile:      uPath,
		VFile:      vPath,
		OutFile:    outPath,
		TargetArea: []float64{250, 250},
		Units:      "m",
	}
	payload, err := json.Marshal(job)
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testJobTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(job.ID),
		Value: payload,
	}))

	// Wire up the worker.
	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	pipe := pipeline.New(&resample.NearestNeighbor{Workers: cfg.Workers}, discardLogger(), metrics)
	worker := service.NewWorker(reader, writer, pipe, cfg.Workers, discardLogger(), metrics)

	workerCtx, workerCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- worker.Run(workerCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	result, headers := readResult(ctx, t, consumer)

	workerCancel()
	require.NoError(t, <-errCh)

	assert.Equal(t, "job-e2e", result.ID)
	assert.Equal(t, "ok", result.Status)
	assert.Empty(t, result.Error)
	assert.Equal(t, outPath, result.OutputFile)
	assert.Equal(t, 8, result.Rows)
	assert.Equal(t, 8, result.Cols)

	assert.Equal(t, "ok", headers["status"])
	_, err = time.Parse(time.RFC3339, headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	assert.FileExists(t, outPath)
	assert.NoError(t, worker.CheckReadiness(ctx))
}

// TestWorkerPoisonJob verifies that a job naming a missing input produces an
// error result rather than stopping the worker, and that a following valid
// job still succeeds.
func TestWorkerPoisonJob(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testJobTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Service{
		KafkaBrokers:   []string{broker},
		KafkaJobTopic:  testJobTopic,
		KafkaSinkTopic: testSinkTopic,
		KafkaGroupID:   fmt.Sprintf("test-poison-%d", time.Now().UnixNano()),
		Workers:        1,
	}

	dir := t.TempDir()
	uPath := filepath.Join(dir, "u.png")
	vPath := filepath.Join(dir, "v.png")
	writeUniformPNG(t, uPath, 4, 5)
	writeUniformPNG(t, vPath, 4, 0)

	badJob := service.RegridJob{
		ID:      "job-bad",
		UFile:   filepath.Join(dir, "missing.png"),
		VFile:   vPath,
		OutFile: filepath.Join(dir, "bad.png"),
	}
	goodJob := service.RegridJob{
		ID:      "job-good",
		UFile:   uPath,
		VFile:   vPath,
		OutFile: filepath.Join(dir, "good.png"),
	}
	badPayload, err := json.Marshal(badJob)
	require.NoError(t, err)
	goodPayload, err := json.Marshal(goodJob)
	require.NoError(t, err)

	producer := &kafkago.Writer{
		Addr:  kafkago.TCP(broker),
		Topic: testJobTopic,
	}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte(badJob.ID), Value: badPayload},
		kafkago.Message{Key: []byte(goodJob.ID), Value: goodPayload},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	pipe := pipeline.New(&resample.NearestNeighbor{Workers: 1}, discardLogger(), metrics)
	worker := service.NewWorker(reader, writer, pipe, 1, discardLogger(), metrics)

	workerCtx, workerCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- worker.Run(workerCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	first, _ := readResult(ctx, t, consumer)
	second, _ := readResult(ctx, t, consumer)

	workerCancel()
	require.NoError(t, <-errCh)

	assert.Equal(t, "job-bad", first.ID)
	assert.Equal(t, "error", first.Status)
	assert.NotEmpty(t, first.Error)
	assert.Empty(t, first.OutputFile)
	assert.NoFileExists(t, badJob.OutFile)

	assert.Equal(t, "job-good", second.ID)
	assert.Equal(t, "ok", second.Status)
	assert.FileExists(t, goodJob.OutFile)
}
