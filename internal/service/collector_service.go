package service

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"rackops-backend/config"
	"rackops-backend/internal/filestate"
	"rackops-backend/internal/kafka"
	"rackops-backend/internal/model"
	"rackops-backend/internal/parser"
)

// CollectorService is the host-side agent loop: it tails the configured
// log directory, keeps only the lines the classifier flags, and ships
// them to the ingest topic. File offsets persist between cycles so each
// line is read once.
type CollectorService interface {
	ProcessLogs(ctx context.Context) error
}

type collectorService struct {
	classifier  parser.Classifier
	producer    kafka.LogProducer
	stateMgr    filestate.Manager
	cfg         *config.CollectorConfig
	ids         idSequence
	hostname    string
	processLock sync.Mutex
}

func NewCollectorService(
	cfg *config.Config,
	stateMgr filestate.Manager,
	classifier parser.Classifier,
	producer kafka.LogProducer,
) CollectorService {
	hostname, err := os.Hostname()
	if err != nil {
		log.Warn().Err(err).Msg("Cannot determine hostname, using localhost")
		hostname = "localhost"
	}
	return &collectorService{
		cfg:        &cfg.Collector,
		stateMgr:   stateMgr,
		classifier: classifier,
		producer:   producer,
		hostname:   hostname,
	}
}

func (s *collectorService) ProcessLogs(ctx context.Context) error {
	if !s.processLock.TryLock() {
		log.Warn().Msg("Log collection already in progress, skipping run.")
		return nil
	}
	defer s.processLock.Unlock()

	log.Info().Str("dir", s.cfg.LogDirectory).Msg("Starting collection cycle...")
	startTime := time.Now()

	currentState, err := s.stateMgr.LoadState()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load file offsets")
		return fmt.Errorf("failed to load file state: %w", err)
	}

	newState := make(filestate.FileOffsets, len(currentState))
	for k, v := range currentState {
		newState[k] = v
	}

	logFiles, err := s.findLogFiles()
	if err != nil {
		log.Error().Err(err).Msg("Failed to find log files")
		return fmt.Errorf("failed to find log files: %w", err)
	}
	log.Debug().Int("file_count", len(logFiles)).Msg("Found log files to collect")

	var totalLinesRead int64
	var totalEntriesSent int64
	var batch []model.LogEntry

	for _, filePath := range logFiles {
		linesRead, newOffset, entries, err := s.collectFile(ctx, filePath, newState[filePath])
		if err != nil {
			log.Error().Err(err).Str("file", filePath).Msg("Failed to collect file")
			newState[filePath] = currentState[filePath]
			continue
		}

		newState[filePath] = newOffset
		totalLinesRead += linesRead
		if len(entries) == 0 {
			continue
		}
		log.Debug().Str("file", filePath).Int64("lines_read", linesRead).Int("entries_found", len(entries)).Msg("Collected file")
		batch = append(batch, entries...)

		if len(batch) >= s.cfg.BatchSize {
			toSend := make([]model.LogEntry, len(batch))
			copy(toSend, batch)
			batch = batch[:0]

			if err := s.sendBatch(ctx, toSend); err != nil {
				log.Error().Err(err).Msg("Failed to send intermediate batch to Kafka")
			} else {
				totalEntriesSent += int64(len(toSend))
			}
		}
	}

	if len(batch) > 0 {
		if err := s.sendBatch(ctx, batch); err != nil {
			log.Error().Err(err).Msg("Failed to send final batch to Kafka")
		} else {
			totalEntriesSent += int64(len(batch))
		}
	}

	if err := s.stateMgr.SaveState(newState); err != nil {
		log.Error().Err(err).Msg("Failed to save file offsets")
		return fmt.Errorf("failed to save file state: %w", err)
	}

	log.Info().
		Int64("lines_read", totalLinesRead).
		Int64("entries_sent", totalEntriesSent).
		Int("files_processed", len(logFiles)).
		Dur("duration", time.Since(startTime)).
		Msg("Finished collection cycle.")
	return nil
}

func (s *collectorService) findLogFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(s.cfg.LogDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to read log directory: %w", err)
	}
	var logFiles []string
	for _, entry := range dirEntries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".log") {
			logFiles = append(logFiles, filepath.Join(s.cfg.LogDirectory, entry.Name()))
		}
	}
	return logFiles, nil
}

// collectFile reads a file from its last offset, classifies each new
// line and returns the flagged entries plus the new offset.
func (s *collectorService) collectFile(ctx context.Context, filePath string, lastOffset int64) (linesRead, newOffset int64, entries []model.LogEntry, err error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, lastOffset, nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, lastOffset, nil, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	if info.Size() < lastOffset {
		log.Warn().Str("file", filePath).Int64("last_offset", lastOffset).Int64("current_size", info.Size()).Msg("File truncated or rotated? Resetting offset.")
		lastOffset = 0
	}

	if _, err = file.Seek(lastOffset, 0); err != nil {
		return 0, lastOffset, nil, fmt.Errorf("failed to seek %s to offset %d: %w", filePath, lastOffset, err)
	}

	scanner := bufio.NewScanner(file)
	currentOffset := lastOffset

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return linesRead, currentOffset, entries, ctx.Err()
		default:
		}

		line := scanner.Text()
		linesRead++
		currentOffset += int64(len(line)) + 1

		severity, ok := s.classifier.Classify(line)
		if !ok {
			continue
		}

		now := time.Now().UTC()
		entries = append(entries, model.LogEntry{
			ID:       s.ids.Next(now),
			LoggedAt: now,
			UploadTS: now.Format(time.RFC3339Nano),
			Hostname: s.hostname,
			Label:    parser.SourceLabel(filePath, severity),
			LogLine:  line,
			Severity: severity,
			Source:   filePath,
		})
	}

	if err := scanner.Err(); err != nil {
		return linesRead, currentOffset, entries, fmt.Errorf("error reading %s: %w", filePath, err)
	}
	return linesRead, currentOffset, entries, nil
}

func (s *collectorService) sendBatch(ctx context.Context, batch []model.LogEntry) error {
	if len(batch) == 0 {
		return nil
	}
	log.Debug().Int("batch_size", len(batch)).Msg("Sending batch to Kafka...")
	if err := s.producer.Produce(ctx, batch); err != nil {
		return fmt.Errorf("kafka produce error: %w", err)
	}
	return nil
}
