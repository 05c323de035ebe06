// Package parser classifies raw host log lines into severities for the
// collector. Only lines matching a rule are considered bad logs worth
// shipping; everything else stays on the host.
package parser

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"rackops-backend/internal/model"
)

type Classifier interface {
	// Classify returns the severity for a line. ok is false for lines
	// that match no rule and should be skipped.
	Classify(line string) (severity int, ok bool)
}

type keywordClassifier struct {
	critical *regexp.Regexp
	high     *regexp.Regexp
	medium   *regexp.Regexp
	low      *regexp.Regexp
}

func NewKeywordClassifier() Classifier {
	return &keywordClassifier{
		critical: regexp.MustCompile(`(?i)(panic|fatal|emerg|out of memory|kernel bug)`),
		high:     regexp.MustCompile(`(?i)(error|fail|denied|segfault|refused)`),
		medium:   regexp.MustCompile(`(?i)(warn|timeout|retry|slow)`),
		low:      regexp.MustCompile(`(?i)(notice|deprecat)`),
	}
}

func (c *keywordClassifier) Classify(line string) (int, bool) {
	switch {
	case c.critical.MatchString(line):
		return model.SeverityCritical, true
	case c.high.MatchString(line):
		return model.SeverityHigh, true
	case c.medium.MatchString(line):
		return model.SeverityMedium, true
	case c.low.MatchString(line):
		return model.SeverityLow, true
	}
	return model.SeverityUnknown, false
}

// SourceLabel builds the label for a collected line following the
// "<source>-<digit>" convention, e.g. "/var/log/auth.log" at severity 3
// becomes "auth-3". The trailing digit is what legacy consumers parse as
// the severity key.
func SourceLabel(filePath string, severity int) string {
	base := filepath.Base(filePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "unknown"
	}
	return base + "-" + strconv.Itoa(severity)
}
