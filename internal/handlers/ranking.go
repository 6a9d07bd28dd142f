package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/strategiclayer/api/internal/database"
	"github.com/strategiclayer/api/internal/models"
	"github.com/strategiclayer/api/internal/scoring"
	"github.com/strategiclayer/api/internal/validation"
)

// RankingHandler handles ranking and scoring requests
type RankingHandler struct {
	taskRepo     database.TaskRepositoryInterface
	snapshotRepo database.RankingSnapshotRepositoryInterface
	defaultMode  models.AppraisalMode
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(taskRepo database.TaskRepositoryInterface, snapshotRepo database.RankingSnapshotRepositoryInterface, defaultMode models.AppraisalMode) *RankingHandler {
	return &RankingHandler{
		taskRepo:     taskRepo,
		snapshotRepo: snapshotRepo,
		defaultMode:  defaultMode,
	}
}

// RegisterRoutes registers ranking routes on the given router
// The router should be the versioned API root (e.g., /api/v1)
func (h *RankingHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/rankings", h.GetRankings).Methods("GET")
	r.HandleFunc("/rankings/snapshot", h.GetSnapshot).Methods("GET")
	r.HandleFunc("/score", h.ScoreBatch).Methods("POST")
}

// RankingEntry is a ranked task decorated with display labels
type RankingEntry struct {
	Task          models.Task `json:"task"`
	Score         int         `json:"score"`
	LayerLabel    string      `json:"layer_label"`
	CategoryLabel string      `json:"category_label"`
	LayerIcon     string      `json:"layer_icon"`
	CategoryIcon  string      `json:"category_icon"`
}

// RankingResponse represents a ranking result
type RankingResponse struct {
	Mode    models.AppraisalMode `json:"mode"`
	Sort    models.SortKey       `json:"sort"`
	Lang    models.Language      `json:"lang"`
	Entries []RankingEntry       `json:"entries"`
	Count   int                  `json:"count"`
}

// GetRankings runs the full pipeline against the stored tasks: filter out
// blank titles, score under the requested mode, order by the requested sort
func (h *RankingHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	mode := h.defaultMode
	if m := r.URL.Query().Get("mode"); m != "" {
		if err := validation.ValidateAppraisalMode(m); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		mode = models.AppraisalMode(m)
	}

	sortKey := models.SortScoreDesc
	if s := r.URL.Query().Get("sort"); s != "" {
		if err := validation.ValidateSortKey(s); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		sortKey = models.SortKey(s)
	}

	lang := models.LanguageJA
	if l := r.URL.Query().Get("lang"); l != "" {
		if err := validation.ValidateLanguage(l); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		lang = models.Language(l)
	}

	ctx := r.Context()
	tasks, err := h.taskRepo.GetAll(ctx)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve tasks")
		return
	}

	ranked, err := scoring.Rank(tasks, mode, sortKey)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to rank tasks")
		return
	}

	entries := make([]RankingEntry, 0, len(ranked))
	for _, rt := range ranked {
		entries = append(entries, RankingEntry{
			Task:          rt.Task,
			Score:         rt.Score,
			LayerLabel:    models.LayerLabel(rt.Task.Layer, lang),
			CategoryLabel: models.CategoryLabel(rt.Task.Category, lang),
			LayerIcon:     models.LayerMetadata[rt.Task.Layer].Icon,
			CategoryIcon:  models.CategoryMetadata[rt.Task.Category].Icon,
		})
	}

	respondJSON(w, http.StatusOK, RankingResponse{
		Mode:    mode,
		Sort:    sortKey,
		Lang:    lang,
		Entries: entries,
		Count:   len(entries),
	})
}

// GetSnapshot returns the last worker-built ranking snapshot for a mode
func (h *RankingHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	mode := h.defaultMode
	if m := r.URL.Query().Get("mode"); m != "" {
		if err := validation.ValidateAppraisalMode(m); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		mode = models.AppraisalMode(m)
	}

	ctx := r.Context()
	snapshot, err := h.snapshotRepo.GetByMode(ctx, mode)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve snapshot")
		return
	}
	if snapshot == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No snapshot has been built for this mode yet")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// ScoreBatchRequest represents a stateless batch scoring request
type ScoreBatchRequest struct {
	Tasks []models.Task `json:"tasks" validate:"required"`
	Mode  string        `json:"mode,omitempty" validate:"omitempty,appraisal_mode"`
	Sort  string        `json:"sort,omitempty" validate:"omitempty,sort_key"`
}

// ScoreBatchResponse represents the scored and ordered result of a batch
type ScoreBatchResponse struct {
	Mode    models.AppraisalMode `json:"mode"`
	Sort    models.SortKey       `json:"sort"`
	Results []scoring.RankedTask `json:"results"`
	Count   int                  `json:"count"`
}

// ScoreBatch scores and orders a posted batch of tasks without storing them.
// Unknown layer or category values in the batch are the caller's fault and
// come back as 400s, unlike stored tasks which are validated on write.
func (h *RankingHandler) ScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req ScoreBatchRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed: tasks is required and mode/sort must be valid")
		return
	}

	mode := h.defaultMode
	if req.Mode != "" {
		mode = models.AppraisalMode(req.Mode)
	}

	sortKey := models.SortScoreDesc
	if req.Sort != "" {
		sortKey = models.SortKey(req.Sort)
	}

	ranked, err := scoring.Rank(req.Tasks, mode, sortKey)
	if err != nil {
		if errors.Is(err, scoring.ErrUnknownLayer) || errors.Is(err, scoring.ErrUnknownCategory) {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to score tasks")
		return
	}

	if ranked == nil {
		ranked = []scoring.RankedTask{}
	}

	respondJSON(w, http.StatusOK, ScoreBatchResponse{
		Mode:    mode,
		Sort:    sortKey,
		Results: ranked,
		Count:   len(ranked),
	})
}
