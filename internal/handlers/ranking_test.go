package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/strategiclayer/api/internal/models"
)

// mockSnapshotRepo serves canned snapshots
type mockSnapshotRepo struct {
	snapshots map[models.AppraisalMode]*models.RankingSnapshot
}

func (m *mockSnapshotRepo) GetByMode(ctx context.Context, mode models.AppraisalMode) (*models.RankingSnapshot, error) {
	return m.snapshots[mode], nil
}

func (m *mockSnapshotRepo) Upsert(ctx context.Context, snapshot *models.RankingSnapshot) (bool, error) {
	if m.snapshots == nil {
		m.snapshots = make(map[models.AppraisalMode]*models.RankingSnapshot)
	}
	m.snapshots[snapshot.Mode] = snapshot
	return true, nil
}

func (m *mockSnapshotRepo) NextVersion(ctx context.Context, mode models.AppraisalMode) (int, error) {
	if existing, ok := m.snapshots[mode]; ok {
		return existing.Version + 1, nil
	}
	return 1, nil
}

func newTestRankingRouter(taskRepo *mockTaskRepo, snapshotRepo *mockSnapshotRepo) *mux.Router {
	handler := NewRankingHandler(taskRepo, snapshotRepo, models.ModeNormal)
	router := mux.NewRouter()
	handler.RegisterRoutes(router.PathPrefix("/api/v1").Subrouter())
	return router
}

// seedRankingTasks stores three tasks: an overdue high scorer, a quiet private
// task, and a blank-titled row that the pipeline must drop. Deadlines are far
// in the past or absent so scores do not depend on the wall clock.
func seedRankingTasks(t *testing.T, repo *mockTaskRepo) (high, low uuid.UUID) {
	t.Helper()

	overdue := "2000-01-01"
	highTask := &models.Task{
		ID:        uuid.New(),
		Title:     "Submit filing",
		Intensity: 90,
		Deadline:  &overdue,
		Layer:     models.LayerDeadline,
		Category:  models.CategoryWork,
	}
	lowTask := &models.Task{
		ID:        uuid.New(),
		Title:     "Reread novel",
		Intensity: 10,
		Layer:     models.LayerDesire,
		Category:  models.CategoryPrivate,
	}
	blank := &models.Task{
		ID:        uuid.New(),
		Title:     "   ",
		Intensity: 100,
		Layer:     models.LayerDeadline,
		Category:  models.CategoryWork,
	}

	for _, task := range []*models.Task{highTask, lowTask, blank} {
		if err := repo.Create(context.Background(), task); err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
	}
	return highTask.ID, lowTask.ID
}

func TestGetRankings(t *testing.T) {
	t.Parallel()

	taskRepo := newMockTaskRepo()
	highID, lowID := seedRankingTasks(t, taskRepo)
	router := newTestRankingRouter(taskRepo, &mockSnapshotRepo{})

	req := httptest.NewRequest("GET", "/api/v1/rankings?mode=normal&sort=score_desc&lang=en", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var response RankingResponse
	if err := json.Unmarshal(env.Data, &response); err != nil {
		t.Fatalf("failed to decode ranking response: %v", err)
	}

	if response.Count != 2 {
		t.Fatalf("count = %d, expected 2 (blank title dropped)", response.Count)
	}
	if response.Entries[0].Task.ID != highID {
		t.Errorf("first entry = %s, expected the overdue work task", response.Entries[0].Task.ID)
	}
	if response.Entries[1].Task.ID != lowID {
		t.Errorf("second entry = %s, expected the private task", response.Entries[1].Task.ID)
	}

	// (90+20)*1.3 + 50 overdue = 193; 10*0.9*0.85 = 7.65 -> 8
	if response.Entries[0].Score != 193 {
		t.Errorf("high score = %d, expected 193", response.Entries[0].Score)
	}
	if response.Entries[1].Score != 8 {
		t.Errorf("low score = %d, expected 8", response.Entries[1].Score)
	}

	if response.Entries[0].LayerLabel != "Deadline (MUST)" {
		t.Errorf("layer label = %q, expected English label", response.Entries[0].LayerLabel)
	}
	if response.Entries[1].CategoryLabel != "Private" {
		t.Errorf("category label = %q, expected English label", response.Entries[1].CategoryLabel)
	}
}

func TestGetRankings_DefaultLanguageIsJapanese(t *testing.T) {
	t.Parallel()

	taskRepo := newMockTaskRepo()
	seedRankingTasks(t, taskRepo)
	router := newTestRankingRouter(taskRepo, &mockSnapshotRepo{})

	req := httptest.NewRequest("GET", "/api/v1/rankings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d", rec.Code, http.StatusOK)
	}

	env := decodeEnvelope(t, rec)
	var response RankingResponse
	if err := json.Unmarshal(env.Data, &response); err != nil {
		t.Fatalf("failed to decode ranking response: %v", err)
	}

	if response.Lang != models.LanguageJA {
		t.Errorf("lang = %s, expected default ja", response.Lang)
	}
	if response.Entries[0].CategoryLabel != "仕事" {
		t.Errorf("category label = %q, expected Japanese label", response.Entries[0].CategoryLabel)
	}
}

func TestGetRankings_RejectsUnknownParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
	}{
		{name: "unknown mode", query: "?mode=savage"},
		{name: "unknown sort", query: "?sort=priority"},
		{name: "unknown lang", query: "?lang=fr"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRankingRouter(newMockTaskRepo(), &mockSnapshotRepo{})

			req := httptest.NewRequest("GET", "/api/v1/rankings"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestGetSnapshot(t *testing.T) {
	t.Parallel()

	snapshotRepo := &mockSnapshotRepo{
		snapshots: map[models.AppraisalMode]*models.RankingSnapshot{
			models.ModeSpicy: {
				Mode: models.ModeSpicy,
				Entries: []models.RankedEntry{
					{TaskID: uuid.New(), Title: "Submit filing", Score: 230, Layer: models.LayerDeadline, Category: models.CategoryWork},
				},
				Version:     4,
				GeneratedAt: time.Now(),
			},
		},
	}
	router := newTestRankingRouter(newMockTaskRepo(), snapshotRepo)

	req := httptest.NewRequest("GET", "/api/v1/rankings/snapshot?mode=spicy", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var snapshot models.RankingSnapshot
	if err := json.Unmarshal(env.Data, &snapshot); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if snapshot.Version != 4 {
		t.Errorf("version = %d, expected 4", snapshot.Version)
	}
	if len(snapshot.Entries) != 1 || snapshot.Entries[0].Score != 230 {
		t.Errorf("entries = %+v, expected the stored single entry", snapshot.Entries)
	}
}

func TestGetSnapshot_NotBuiltYet(t *testing.T) {
	t.Parallel()

	router := newTestRankingRouter(newMockTaskRepo(), &mockSnapshotRepo{})

	req := httptest.NewRequest("GET", "/api/v1/rankings/snapshot?mode=sweet", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected %d", rec.Code, http.StatusNotFound)
	}
}

func TestScoreBatch(t *testing.T) {
	t.Parallel()

	router := newTestRankingRouter(newMockTaskRepo(), &mockSnapshotRepo{})

	body := bytes.NewBufferString(`{
		"mode": "sweet",
		"sort": "score_desc",
		"tasks": [
			{"title": "Low", "intensity": 10, "layer": "desire", "category": "other"},
			{"title": "High", "intensity": 80, "layer": "deadline", "category": "work"},
			{"title": "  ", "intensity": 100, "layer": "deadline", "category": "work"}
		]
	}`)
	req := httptest.NewRequest("POST", "/api/v1/score", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var response ScoreBatchResponse
	if err := json.Unmarshal(env.Data, &response); err != nil {
		t.Fatalf("failed to decode batch response: %v", err)
	}

	if response.Count != 2 {
		t.Fatalf("count = %d, expected 2 (blank title dropped)", response.Count)
	}
	// sweet: (80+20)*1.2 = 120; 10*1.0 = 10
	if response.Results[0].Task.Title != "High" || response.Results[0].Score != 120 {
		t.Errorf("first result = %q score %d, expected High with 120", response.Results[0].Task.Title, response.Results[0].Score)
	}
	if response.Results[1].Task.Title != "Low" || response.Results[1].Score != 10 {
		t.Errorf("second result = %q score %d, expected Low with 10", response.Results[1].Task.Title, response.Results[1].Score)
	}
}

func TestScoreBatch_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing tasks", body: `{"mode": "normal"}`},
		{name: "unknown mode", body: `{"mode": "savage", "tasks": [{"title": "T", "layer": "desire", "category": "other"}]}`},
		{name: "unknown sort", body: `{"sort": "priority", "tasks": [{"title": "T", "layer": "desire", "category": "other"}]}`},
		{name: "unknown layer in batch", body: `{"tasks": [{"title": "T", "layer": "guilt", "category": "other"}]}`},
		{name: "unknown category in batch", body: `{"tasks": [{"title": "T", "layer": "desire", "category": "hobby"}]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRankingRouter(newMockTaskRepo(), &mockSnapshotRepo{})

			req := httptest.NewRequest("POST", "/api/v1/score", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}
