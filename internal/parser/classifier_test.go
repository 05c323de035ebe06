package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rackops-backend/internal/model"
	"rackops-backend/internal/parser"
)

func TestClassifySeverityTiers(t *testing.T) {
	c := parser.NewKeywordClassifier()

	cases := []struct {
		line     string
		severity int
		ok       bool
	}{
		{"kernel: Out of memory: Kill process 1234", model.SeverityCritical, true},
		{"systemd[1]: FATAL: cannot start unit", model.SeverityCritical, true},
		{"sshd[812]: error: authentication failure", model.SeverityHigh, true},
		{"connection refused by peer", model.SeverityHigh, true},
		{"nginx: [warn] upstream response is slow", model.SeverityMedium, true},
		{"request timeout after 30s, retry 2/5", model.SeverityMedium, true},
		{"pam_unix: notice: session opened", model.SeverityLow, true},
		{"use of flag -x is deprecated", model.SeverityLow, true},
		{"GET /healthz 200 0.3ms", 0, false},
	}
	for _, tc := range cases {
		sev, ok := c.Classify(tc.line)
		assert.Equal(t, tc.ok, ok, tc.line)
		if tc.ok {
			assert.Equal(t, tc.severity, sev, tc.line)
		}
	}
}

func TestClassifyPrefersHighestTier(t *testing.T) {
	c := parser.NewKeywordClassifier()
	sev, ok := c.Classify("panic: runtime error: index out of range")
	assert.True(t, ok)
	assert.Equal(t, model.SeverityCritical, sev)
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "auth-3", parser.SourceLabel("/var/log/auth.log", 3))
	assert.Equal(t, "syslog-4", parser.SourceLabel("syslog.log", 4))
	assert.Equal(t, "unknown-1", parser.SourceLabel("", 1))

	// round trips through the legacy label parser
	assert.Equal(t, 3, model.LabelSeverity(parser.SourceLabel("/var/log/auth.log", 3)))
}
