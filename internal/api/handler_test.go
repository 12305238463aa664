package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
	apperrors "github.com/kurihiro0119/github-org-snapshot/internal/errors"
	"github.com/kurihiro0119/github-org-snapshot/internal/logging"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) SaveSnapshot(ctx context.Context, run *domain.SnapshotRun) error {
	return m.Called(ctx, run).Error(0)
}

func (m *mockStorage) GetLatestSnapshot(ctx context.Context, org, repo string) (*domain.SnapshotRun, error) {
	args := m.Called(ctx, org, repo)
	run, _ := args.Get(0).(*domain.SnapshotRun)
	return run, args.Error(1)
}

func (m *mockStorage) GetSnapshot(ctx context.Context, id string) (*domain.SnapshotRun, error) {
	args := m.Called(ctx, id)
	run, _ := args.Get(0).(*domain.SnapshotRun)
	return run, args.Error(1)
}

func (m *mockStorage) ListSnapshots(ctx context.Context, org, repo string, limit int) ([]*domain.SnapshotRun, error) {
	args := m.Called(ctx, org, repo, limit)
	runs, _ := args.Get(0).([]*domain.SnapshotRun)
	return runs, args.Error(1)
}

func (m *mockStorage) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStorage) Close() error {
	return m.Called().Error(0)
}

func newTestRouter(store *mockStorage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRoutes(NewHandler(store), logging.Discard())
}

func serve(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func testRun() *domain.SnapshotRun {
	snap := domain.NewSnapshot()
	snap.Commits = []domain.Commit{{SHA: "abc", Message: "a <tag>"}}
	return &domain.SnapshotRun{
		ID:          "run-1",
		Org:         "acme",
		Repo:        "rocket",
		CollectedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Sections: []domain.SectionReport{
			{Name: domain.SectionCommits, Status: domain.SectionStatusComplete, Items: 1},
		},
		Snapshot: snap,
	}
}

func TestHealthCheck(t *testing.T) {
	rec := serve(newTestRouter(&mockStorage{}), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetLatestSnapshot(t *testing.T) {
	store := &mockStorage{}
	run := testRun()
	store.On("GetLatestSnapshot", mock.Anything, "acme", "rocket").Return(run, nil)

	rec := serve(newTestRouter(store), http.MethodGet, "/api/v1/orgs/acme/repos/rocket/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "run-1", rec.Header().Get("X-Snapshot-Id"))

	expected, err := storage.MarshalDocument(run.Snapshot)
	require.NoError(t, err)
	assert.Equal(t, string(expected), rec.Body.String())
	store.AssertExpectations(t)
}

func TestGetLatestSnapshot_NotFound(t *testing.T) {
	store := &mockStorage{}
	store.On("GetLatestSnapshot", mock.Anything, "acme", "ghost").
		Return(nil, apperrors.NewNotFoundError("snapshot for acme/ghost"))

	rec := serve(newTestRouter(store), http.MethodGet, "/api/v1/orgs/acme/repos/ghost/snapshot")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(apperrors.ErrCodeNotFound), body.Error.Code)
}

func TestListSnapshots(t *testing.T) {
	testCases := []struct {
		name        string
		query       string
		expectLimit int
		expectCode  int
	}{
		{name: "default limit", query: "", expectLimit: storage.DefaultListLimit, expectCode: http.StatusOK},
		{name: "explicit limit", query: "?limit=5", expectLimit: 5, expectCode: http.StatusOK},
		{name: "capped limit", query: "?limit=5000", expectLimit: maxListLimit, expectCode: http.StatusOK},
		{name: "invalid limit", query: "?limit=abc", expectCode: http.StatusBadRequest},
		{name: "zero limit", query: "?limit=0", expectCode: http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockStorage{}
			run := testRun()
			run.Snapshot = nil
			store.On("ListSnapshots", mock.Anything, "acme", "rocket", tc.expectLimit).
				Return([]*domain.SnapshotRun{run}, nil)

			rec := serve(newTestRouter(store), http.MethodGet, "/api/v1/orgs/acme/repos/rocket/snapshots"+tc.query)
			assert.Equal(t, tc.expectCode, rec.Code)
			if tc.expectCode != http.StatusOK {
				store.AssertNotCalled(t, "ListSnapshots", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}

			var body struct {
				Data []domain.SnapshotRun `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Len(t, body.Data, 1)
			assert.Equal(t, run.Sections, body.Data[0].Sections)
			store.AssertExpectations(t)
		})
	}
}

func TestGetSnapshot(t *testing.T) {
	store := &mockStorage{}
	store.On("GetSnapshot", mock.Anything, "run-1").Return(testRun(), nil)
	store.On("GetSnapshot", mock.Anything, "boom").Return(nil, assert.AnError)

	router := newTestRouter(store)

	rec := serve(router, http.MethodGet, "/api/v1/snapshots/run-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			ID       string          `json:"id"`
			Snapshot domain.Snapshot `json:"snapshot"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "run-1", body.Data.ID)
	assert.Len(t, body.Data.Snapshot.Commits, 1)

	rec = serve(router, http.MethodGet, "/api/v1/snapshots/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	rec := serve(newTestRouter(&mockStorage{}), http.MethodOptions, "/api/v1/snapshots/run-1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
