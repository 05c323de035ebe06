package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"rackops-backend/config"
	"rackops-backend/internal/elasticsearch"
	"rackops-backend/internal/kafka"
	"rackops-backend/internal/model"
	"rackops-backend/internal/timescaledb"
)

// IndexerService drains the ingest topic: every batch is written to the
// search index and, in parallel bookkeeping, recorded as severity events
// for the stats endpoints. Offsets are committed only after both stores
// accepted the batch.
type IndexerService interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
}

type indexerService struct {
	consumer    kafka.LogConsumer
	logStore    elasticsearch.LogStore
	eventStore  timescaledb.EventStore
	batchSize   int
	maxWaitTime time.Duration
}

func NewIndexerService(
	consumer kafka.LogConsumer,
	logStore elasticsearch.LogStore,
	eventStore timescaledb.EventStore,
	cfg *config.Config,
) IndexerService {
	return &indexerService{
		consumer:    consumer,
		logStore:    logStore,
		eventStore:  eventStore,
		batchSize:   cfg.Collector.BatchSize,
		maxWaitTime: cfg.Collector.MaxBatchWait,
	}
}

func (s *indexerService) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	log.Info().Msg("Starting indexer loop...")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Indexer loop stopping due to context cancellation.")
			return
		default:
		}

		err := s.processBatch(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info().Msg("Context cancelled during batch processing.")
				return
			}
			log.Error().Err(err).Msg("Error processing indexer batch")
			time.Sleep(1 * time.Second)
		}
	}
}

func (s *indexerService) processBatch(ctx context.Context) error {
	entries := make([]*model.LogEntry, 0, s.batchSize)
	messages := make([]kafkaGo.Message, 0, s.batchSize)
	batchStart := time.Now()

	for len(entries) < s.batchSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		remaining := s.maxWaitTime - time.Since(batchStart)
		if remaining <= 0 {
			break
		}
		fetchCtx, cancel := context.WithTimeout(ctx, remaining)
		entry, msg, err := s.consumer.FetchMessage(fetchCtx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.Debug().Int("batch_size", len(entries)).Msg("Max wait time reached, processing partial batch.")
				break
			}
			// An unmarshalable message still carries its offset. Track
			// it so the commit moves past the poison pill.
			if msg.Topic != "" {
				log.Warn().Int64("offset", msg.Offset).Msg("Tracking undecodable message for commit.")
				messages = append(messages, msg)
				continue
			}
			return fmt.Errorf("failed to fetch kafka message: %w", err)
		}

		entries = append(entries, entry)
		messages = append(messages, msg)
	}

	if len(messages) == 0 {
		return nil
	}

	validEntries := make([]model.LogEntry, 0, len(entries))
	events := make([]model.SeverityEvent, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		validEntries = append(validEntries, *entry)
		events = append(events, model.SeverityEvent{
			Time:     entry.LoggedAt,
			Hostname: entry.Hostname,
			Label:    entry.Label,
			Severity: entry.SeverityKey(),
		})
	}

	if len(validEntries) > 0 {
		if err := s.logStore.StoreLogs(ctx, validEntries); err != nil {
			log.Error().Err(err).Msg("Failed to store logs, batch will be reprocessed")
			return fmt.Errorf("failed storing logs: %w", err)
		}
		if err := s.eventStore.StoreSeverityEvents(ctx, events); err != nil {
			log.Error().Err(err).Msg("Failed to store severity events, batch will be reprocessed")
			return fmt.Errorf("failed storing severity events: %w", err)
		}
	}

	if err := s.consumer.CommitMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Msg("Failed to commit Kafka messages after successful storage")
		return fmt.Errorf("failed committing kafka messages: %w", err)
	}
	log.Info().Int("batch_size", len(validEntries)).Msg("Indexed and committed batch.")
	return nil
}
