package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-equity-etl/internal/config"
	"github.com/couchcryptid/flood-equity-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes raw job messages from the source topic as part of a
// consumer group. It implements pipeline.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	logger        *slog.Logger
	flushInterval time.Duration
}

// NewReader creates a consumer-group reader for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaSourceTopic,
		GroupID:     cfg.KafkaGroupID,
		StartOffset: kafkago.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Reader{
		reader:        r,
		logger:        logger,
		flushInterval: cfg.BatchFlushInterval,
	}
}

// ExtractBatch fetches up to batchSize messages. It returns early with a
// partial batch when no further message arrives within the flush interval,
// so slow topics do not stall the pipeline.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawJob, error) {
	batch := make([]domain.RawJob, 0, batchSize)

	for len(batch) < batchSize {
		fetchCtx, cancel := context.WithTimeout(ctx, r.flushInterval)
		msg, err := r.reader.FetchMessage(fetchCtx)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				break // flush what we have
			}
			if ctx.Err() != nil {
				return batch, nil
			}
			return nil, err
		}
		batch = append(batch, r.mapMessageToRawJob(msg))
	}

	return batch, nil
}

// Close shuts down the underlying consumer, leaving the consumer group.
func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessageToRawJob converts a Kafka message into a RawJob with a commit
// callback bound to this reader's consumer group.
func (r *Reader) mapMessageToRawJob(msg kafkago.Message) domain.RawJob {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawJob{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Commit: func(ctx context.Context) error {
			return r.reader.CommitMessages(ctx, msg)
		},
	}
}
