package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rackops-backend/config"
	"rackops-backend/internal/filestate"
	"rackops-backend/internal/model"
	"rackops-backend/internal/parser"
	"rackops-backend/internal/service"
)

func newCollectorFixture(t *testing.T) (service.CollectorService, *fakeProducer, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.Collector.LogDirectory = dir
	cfg.Collector.BatchSize = 100

	producer := &fakeProducer{}
	stateMgr := filestate.NewManager(filepath.Join(dir, "state.json"))
	svc := service.NewCollectorService(cfg, stateMgr, parser.NewKeywordClassifier(), producer)
	return svc, producer, dir
}

func TestCollectorShipsOnlyFlaggedLines(t *testing.T) {
	svc, producer, dir := newCollectorFixture(t)

	content := "GET /healthz 200\n" +
		"sshd: error: authentication failure\n" +
		"kernel: Out of memory: Kill process 99\n" +
		"all quiet here\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.log"), []byte(content), 0644))

	require.NoError(t, svc.ProcessLogs(context.Background()))

	require.Len(t, producer.produced, 2)
	assert.Equal(t, model.SeverityHigh, producer.produced[0].Severity)
	assert.Equal(t, "auth-3", producer.produced[0].Label)
	assert.Equal(t, model.SeverityCritical, producer.produced[1].Severity)
	assert.Equal(t, "auth-4", producer.produced[1].Label)
	for _, e := range producer.produced {
		assert.NotZero(t, e.ID)
		assert.NotEmpty(t, e.Hostname)
		assert.False(t, e.LoggedAt.IsZero())
	}
}

func TestCollectorResumesFromOffset(t *testing.T) {
	svc, producer, dir := newCollectorFixture(t)
	logPath := filepath.Join(dir, "sys.log")

	require.NoError(t, os.WriteFile(logPath, []byte("disk error on sda\n"), 0644))
	require.NoError(t, svc.ProcessLogs(context.Background()))
	require.Len(t, producer.produced, 1)

	// a second cycle with no new lines ships nothing
	require.NoError(t, svc.ProcessLogs(context.Background()))
	assert.Len(t, producer.produced, 1)

	// appended lines are picked up from the saved offset
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("raid rebuild failed\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, svc.ProcessLogs(context.Background()))
	require.Len(t, producer.produced, 2)
	assert.Equal(t, "raid rebuild failed", producer.produced[1].LogLine)
}

func TestCollectorIgnoresNonLogFiles(t *testing.T) {
	svc, producer, dir := newCollectorFixture(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("error everywhere\n"), 0644))
	require.NoError(t, svc.ProcessLogs(context.Background()))
	assert.Empty(t, producer.produced)
}
