package service

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/kafka"
	"rackops-backend/internal/model"
	"rackops-backend/internal/util"
)

type LogIngestService interface {
	Upload(ctx context.Context, req dto.LogUploadRequest) (*model.LogEntry, error)
}

type logIngestService struct {
	producer kafka.LogProducer
	ids      idSequence
}

func NewLogIngestService(producer kafka.LogProducer) LogIngestService {
	return &logIngestService{
		producer: producer,
	}
}

// Upload validates a pushed record, assigns its id and severity, and
// hands it to the ingest topic. The entry becomes searchable once the
// indexer has drained it into the store.
func (s *logIngestService) Upload(ctx context.Context, req dto.LogUploadRequest) (*model.LogEntry, error) {
	req.UploadTS = strings.TrimSpace(req.UploadTS)
	req.Hostname = strings.TrimSpace(req.Hostname)
	req.Label = strings.TrimSpace(req.Label)
	req.LogLine = strings.TrimSpace(req.LogLine)

	if req.UploadTS == "" || req.Hostname == "" || req.Label == "" || req.LogLine == "" {
		return nil, invalidf("upload_ts, hostname, label and log_line are all required")
	}

	loggedAt, err := util.ParseTimeFlexible(req.UploadTS)
	if err != nil {
		return nil, invalidf("upload_ts: %v", err)
	}

	severity := req.Severity
	if severity == model.SeverityUnknown {
		severity = model.LabelSeverity(req.Label)
	}
	if severity < model.SeverityUnknown || severity > model.SeverityCritical {
		return nil, invalidf("severity must be between %d and %d", model.SeverityUnknown, model.SeverityCritical)
	}

	entry := model.LogEntry{
		ID:       s.ids.Next(loggedAt),
		LoggedAt: loggedAt.UTC(),
		UploadTS: req.UploadTS,
		Hostname: req.Hostname,
		Label:    req.Label,
		LogLine:  req.LogLine,
		Severity: severity,
		Source:   uploadSource(),
	}

	if err := s.producer.Produce(ctx, []model.LogEntry{entry}); err != nil {
		log.Error().Err(err).Str("hostname", entry.Hostname).Msg("Failed to produce uploaded entry")
		return nil, err
	}
	log.Info().Int64("id", entry.ID).Str("hostname", entry.Hostname).Str("label", entry.Label).Msg("Accepted uploaded log entry")
	return &entry, nil
}

func uploadSource() string {
	host, err := os.Hostname()
	if err != nil {
		return "upload"
	}
	return "upload@" + host
}
