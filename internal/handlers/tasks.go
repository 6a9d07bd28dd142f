package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/strategiclayer/api/internal/database"
	logpkg "github.com/strategiclayer/api/internal/logger"
	"github.com/strategiclayer/api/internal/models"
	"github.com/strategiclayer/api/internal/queue"
	"github.com/strategiclayer/api/internal/scoring"
	"github.com/strategiclayer/api/internal/validation"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskRepo    database.TaskRepositoryInterface
	jobQueue    queue.JobQueue
	logger      *zap.Logger
	defaultMode models.AppraisalMode
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskRepo database.TaskRepositoryInterface, jobQueue queue.JobQueue, logger *zap.Logger, defaultMode models.AppraisalMode) *TaskHandler {
	return &TaskHandler{
		taskRepo:    taskRepo,
		jobQueue:    jobQueue,
		logger:      logger,
		defaultMode: defaultMode,
	}
}

// RegisterRoutes registers task routes on the given router
// The router should already have the /tasks prefix (e.g., from apiRouter.PathPrefix("/tasks"))
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/{id}", h.GetTask).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTask).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTask).Methods("DELETE")
	r.HandleFunc("/{id}/score", h.GetTaskScore).Methods("GET")
}

const (
	// MaxTitleLength is the maximum length for task titles
	MaxTitleLength = 200
	// MaxDescriptionLength is the maximum length for task descriptions
	MaxDescriptionLength = 2000
	// DefaultIntensity is the intensity assigned when a create request omits it
	DefaultIntensity = 50
	// DefaultPageSize is the default page size for pagination
	DefaultPageSize = 100
	// MaxPageSize is the maximum page size for pagination
	MaxPageSize = 500

	// rankRefreshDebounce delays snapshot refresh jobs so bursts of edits
	// collapse into one rebuild
	rankRefreshDebounce = 2 * time.Second
)

// CreateTaskRequest represents a create task request.
// Omitted fields fall back to the new-task defaults: intensity 50, layer
// investment, category work, deadline today.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description,omitempty" validate:"max=2000"`
	Intensity   *int    `json:"intensity,omitempty" validate:"omitempty,min=0,max=100"`
	Deadline    *string `json:"deadline,omitempty" validate:"omitempty,iso_date"`
	Layer       *string `json:"layer,omitempty" validate:"omitempty,layer"`
	Category    *string `json:"category,omitempty" validate:"omitempty,category"`
}

// UpdateTaskRequest represents a partial update request
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Intensity   *int    `json:"intensity,omitempty" validate:"omitempty,min=0,max=100"`
	Deadline    *string `json:"deadline,omitempty" validate:"omitempty,iso_date"`
	Layer       *string `json:"layer,omitempty" validate:"omitempty,layer"`
	Category    *string `json:"category,omitempty" validate:"omitempty,category"`
}

// ListTasksResponse represents the paginated response for listing tasks
type ListTasksResponse struct {
	Tasks      []models.Task `json:"tasks"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// ListTasks lists tasks with pagination
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse pagination parameters
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	pageSize := DefaultPageSize
	if ps := r.URL.Query().Get("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 {
			if parsed > MaxPageSize {
				pageSize = MaxPageSize
			} else {
				pageSize = parsed
			}
		}
	}

	tasks, total, err := h.taskRepo.GetPaginated(ctx, page, pageSize)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve tasks")
		return
	}

	if tasks == nil {
		tasks = []models.Task{}
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	response := ListTasksResponse{
		Tasks:      tasks,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}

	respondJSON(w, http.StatusOK, response)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		// Check if error is due to request size limit
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	// Validate request
	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	// Sanitize text inputs
	req.Title = validation.SanitizeText(req.Title)
	if req.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is required and cannot be empty after sanitization")
		return
	}
	req.Description = validation.SanitizeText(req.Description)

	intensity := DefaultIntensity
	if req.Intensity != nil {
		intensity = *req.Intensity
	}

	layer := models.LayerInvestment
	if req.Layer != nil {
		layer = models.Layer(*req.Layer)
	}

	category := models.CategoryWork
	if req.Category != nil {
		category = models.Category(*req.Category)
	}

	// New tasks default to a deadline of today, matching the entry form
	deadline := req.Deadline
	if deadline == nil {
		today := time.Now().UTC().Format(models.DeadlineLayout)
		deadline = &today
	}

	ctx := r.Context()
	task := &models.Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Intensity:   intensity,
		Deadline:    deadline,
		Layer:       layer,
		Category:    category,
	}

	if err := h.taskRepo.Create(ctx, task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create task")
		return
	}

	// Titles are free user text; sanitize before they hit the log
	h.logger.Info("task_created",
		zap.String("task_id", task.ID.String()),
		zap.String("title", logpkg.SanitizeTitle(task.Title)),
	)

	h.enqueueRankRefresh(ctx)

	respondJSON(w, http.StatusCreated, task)
}

// GetTask retrieves a task by ID
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}

	ctx := r.Context()
	task, err := h.taskRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// UpdateTask updates an existing task
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}

	ctx := r.Context()
	task, err := h.taskRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
		return
	}

	var req UpdateTaskRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	// Validate request
	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	// Update fields if provided
	if req.Title != nil {
		sanitized := validation.SanitizeText(*req.Title)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title cannot be empty after sanitization")
			return
		}
		task.Title = sanitized
	}
	if req.Description != nil {
		task.Description = validation.SanitizeText(*req.Description)
	}
	if req.Intensity != nil {
		task.Intensity = *req.Intensity
	}
	if req.Deadline != nil {
		task.Deadline = req.Deadline
	}
	if req.Layer != nil {
		task.Layer = models.Layer(*req.Layer)
	}
	if req.Category != nil {
		task.Category = models.Category(*req.Category)
	}

	if err := h.taskRepo.Update(ctx, task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update task")
		return
	}

	h.logger.Info("task_updated",
		zap.String("task_id", task.ID.String()),
		zap.String("title", logpkg.SanitizeTitle(task.Title)),
	)

	h.enqueueRankRefresh(ctx)

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}

	ctx := r.Context()
	if err := h.taskRepo.Delete(ctx, id); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
		return
	}

	h.logger.Info("task_deleted", zap.String("task_id", id.String()))

	h.enqueueRankRefresh(ctx)

	w.WriteHeader(http.StatusNoContent)
}

// TaskScoreResponse represents a single-task score result
type TaskScoreResponse struct {
	TaskID uuid.UUID            `json:"task_id"`
	Mode   models.AppraisalMode `json:"mode"`
	Score  int                  `json:"score"`
}

// GetTaskScore scores a single task under the requested appraisal mode
func (h *TaskHandler) GetTaskScore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return
	}

	mode := h.defaultMode
	if m := r.URL.Query().Get("mode"); m != "" {
		if err := validation.ValidateAppraisalMode(m); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		mode = models.AppraisalMode(m)
	}

	ctx := r.Context()
	task, err := h.taskRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
		return
	}

	score, err := scoring.Score(*task, mode)
	if err != nil {
		// Stored enum values are validated on the way in; a scoring failure
		// means the row itself is bad
		if errors.Is(err, scoring.ErrUnknownLayer) || errors.Is(err, scoring.ErrUnknownCategory) {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Task has invalid stored fields")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to score task")
		return
	}

	respondJSON(w, http.StatusOK, TaskScoreResponse{TaskID: task.ID, Mode: mode, Score: score})
}

// enqueueRankRefresh schedules a debounced snapshot rebuild for all modes.
// Queue failures are logged but never fail the originating request; the next
// mutation will schedule another refresh.
func (h *TaskHandler) enqueueRankRefresh(ctx context.Context) {
	job := queue.NewJob(queue.JobTypeRankRefresh)
	notBefore := time.Now().Add(rankRefreshDebounce)
	job.NotBefore = &notBefore

	if err := h.jobQueue.Enqueue(ctx, job); err != nil {
		h.logger.Warn("rank_refresh_enqueue_failed",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
}
