package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/mediafire-dl-go/internal/domain"
	"github.com/yourusername/mediafire-dl-go/pkg/logger"
	"go.uber.org/zap"
)

// memoryRunRepository is an in-memory RunRepository for handler tests
type memoryRunRepository struct {
	runs    []*domain.Run
	records []*domain.JobRecord
	err     error
}

func (m *memoryRunRepository) CreateRun(run *domain.Run) error {
	m.runs = append(m.runs, run)
	return m.err
}

func (m *memoryRunRepository) FinishRun(run *domain.Run, records []*domain.JobRecord) error {
	m.records = append(m.records, records...)
	return m.err
}

func (m *memoryRunRepository) FindRuns(limit int) ([]*domain.Run, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *memoryRunRepository) FindRunByID(id string) (*domain.Run, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, run := range m.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, nil
}

func (m *memoryRunRepository) FindJobs(runID string, status domain.JobStatus) ([]*domain.JobRecord, error) {
	var out []*domain.JobRecord
	for _, rec := range m.records {
		if rec.RunID == runID && (status == "" || rec.Status == status) {
			out = append(out, rec)
		}
	}
	return out, m.err
}

func (m *memoryRunRepository) GetStats() (*domain.HistoryStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	stats := &domain.HistoryStats{Runs: int64(len(m.runs)), Jobs: int64(len(m.records))}
	for _, rec := range m.records {
		if rec.Status == domain.JobSucceeded {
			stats.Succeeded++
			stats.Bytes += rec.SizeBytes
		} else {
			stats.Failed++
		}
	}
	return stats, nil
}

func seededRepo(t *testing.T) (*memoryRunRepository, *domain.Run) {
	t.Helper()
	repo := &memoryRunRepository{}
	run := domain.NewRun("https://www.mediafire.com/folder/abc", "/out")
	require.NoError(t, repo.CreateRun(run))

	ok := domain.Outcome{Job: domain.NewJob("f1", "a.txt", "/out/a.txt", "https://x/a", 10), Duration: time.Second}
	bad := domain.Outcome{Job: domain.NewJob("f2", "b.txt", "/out/b.txt", "https://x/b", 20), Err: errors.New("unexpected status 404")}
	run.Total = 2
	run.MarkFinished(1, 1)
	require.NoError(t, repo.FinishRun(run, []*domain.JobRecord{
		domain.NewJobRecord(run.ID, ok),
		domain.NewJobRecord(run.ID, bad),
	}))
	return repo, run
}

func doRequest(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRouter_Health(t *testing.T) {
	repo, _ := seededRepo(t)
	router := SetupRouter(repo, logger.NewNopAdapter(), t.TempDir())

	w, body := doRequest(t, router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["history"].(map[string]interface{})["available"])
}

func TestRouter_Runs(t *testing.T) {
	repo, run := seededRepo(t)
	router := SetupRouter(repo, logger.NewNopAdapter(), t.TempDir())

	w, body := doRequest(t, router, "/api/v1/runs?limit=5")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	w, body = doRequest(t, router, "/api/v1/runs/"+run.ID)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, run.ID, body["id"])
	assert.Equal(t, float64(1), body["failed"])

	w, _ = doRequest(t, router, "/api/v1/runs/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RunJobs(t *testing.T) {
	repo, run := seededRepo(t)
	router := SetupRouter(repo, logger.NewNopAdapter(), t.TempDir())

	w, body := doRequest(t, router, "/api/v1/runs/"+run.ID+"/jobs")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["count"])

	w, body = doRequest(t, router, "/api/v1/runs/"+run.ID+"/jobs?status=failed")
	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), body["count"])
	job := body["jobs"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "f2", job["remote_id"])
	assert.Equal(t, "unexpected status 404", job["error_message"])

	w, _ = doRequest(t, router, "/api/v1/runs/"+run.ID+"/jobs?status=queued")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Stats(t *testing.T) {
	repo, _ := seededRepo(t)
	router := SetupRouter(repo, logger.NewNopAdapter(), t.TempDir())

	w, body := doRequest(t, router, "/api/v1/stats")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["runs"])
	assert.Equal(t, float64(2), body["jobs"])
	assert.Equal(t, float64(10), body["bytes"])
}

func TestRouter_RepositoryError(t *testing.T) {
	repo := &memoryRunRepository{err: errors.New("database is locked")}
	router := SetupRouter(repo, logger.NewNopAdapter(), t.TempDir())

	w, body := doRequest(t, router, "/api/v1/runs")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "database is locked", body["error"])

	w, body = doRequest(t, router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["history"].(map[string]interface{})["available"])
}

func TestRouter_Logs(t *testing.T) {
	dir := t.TempDir()
	ml, err := logger.NewMultiLogger(logger.MultiLoggerConfig{Level: "info", LogsDir: dir})
	require.NoError(t, err)
	ml.LogQueueEvent("job_completed", zap.String("id", "f1"))
	ml.LogQueueEvent("job_failed", zap.String("id", "f2"))
	require.NoError(t, ml.Close())

	repo, _ := seededRepo(t)
	router := SetupRouter(repo, logger.NewNopAdapter(), dir)

	w, body := doRequest(t, router, "/api/v1/logs/queue")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["count"])

	w, body = doRequest(t, router, "/api/v1/logs/queue/search?q=f2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	w, _ = doRequest(t, router, "/api/v1/logs/queue/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, router, "/api/v1/logs/download")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, router, "/api/v1/logs/queue?date=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = doRequest(t, router, "/api/v1/logs/categories")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"queue", "error"}, body["categories"])
}

func TestRouter_UnknownRoute(t *testing.T) {
	repo, _ := seededRepo(t)
	router := SetupRouter(repo, logger.NewNopAdapter(), t.TempDir())

	w, body := doRequest(t, router, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not found", body["error"])
}

func TestRouter_LogStreamSendsBacklogThenAppended(t *testing.T) {
	dir := t.TempDir()
	ml, err := logger.NewMultiLogger(logger.MultiLoggerConfig{Level: "info", LogsDir: dir})
	require.NoError(t, err)
	defer ml.Close()
	ml.LogQueueEvent("job_completed", zap.String("id", "f1"))

	repo, _ := seededRepo(t)
	server := httptest.NewServer(SetupRouter(repo, logger.NewNopAdapter(), dir))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/logs/queue/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var entry logger.LogEntry
	require.NoError(t, conn.ReadJSON(&entry))
	assert.Equal(t, "job_completed", entry.Message)
	assert.Equal(t, "f1", entry.Fields["id"])

	ml.LogQueueEvent("run_finished", zap.String("id", "f2"))
	var appended logger.LogEntry
	require.NoError(t, conn.ReadJSON(&appended))
	assert.Equal(t, "run_finished", appended.Message)
	assert.Equal(t, "f2", appended.Fields["id"])
}

func TestRouter_LogStreamRejectsUnknownCategory(t *testing.T) {
	repo, _ := seededRepo(t)
	router := SetupRouter(repo, logger.NewNopAdapter(), t.TempDir())

	w, _ := doRequest(t, router, "/api/v1/logs/download/stream")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
