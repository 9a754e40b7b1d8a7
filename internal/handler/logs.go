// Package handler exposes the read API and record creation over HTTP.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lograca/lograca/internal/model"
	"github.com/lograca/lograca/internal/query"
	"github.com/lograca/lograca/internal/repository"
	"github.com/lograca/lograca/internal/response"
)

// timeLayouts are the accepted formats for startTime/endTime parameters.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// LogHandler serves /api/logs.
type LogHandler struct {
	Query    *query.Service
	Logger   zerolog.Logger
	validate *validator.Validate
}

// NewLogHandler returns a LogHandler over q.
func NewLogHandler(q *query.Service, logger zerolog.Logger) *LogHandler {
	return &LogHandler{Query: q, Logger: logger, validate: validator.New()}
}

// listItem is the projected record shape for list responses: the heavy
// analysis and metadata fields are omitted.
type listItem struct {
	ID         uuid.UUID   `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Service    string      `json:"service"`
	Level      model.Level `json:"level"`
	Message    string      `json:"message"`
	StackTrace string      `json:"stackTrace,omitempty"`
	Summary    string      `json:"summary,omitempty"`
	VMID       string      `json:"vmId,omitempty"`
}

type listResponse struct {
	Data     []listItem `json:"data"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// List handles GET /api/logs.
func (h *LogHandler) List(c echo.Context) error {
	f := query.Filter{
		Service: c.QueryParam("service"),
		Level:   c.QueryParam("level"),
		VMID:    c.QueryParam("vmId"),
	}
	var err error
	if f.Start, err = parseTimeParam(c.QueryParam("startTime")); err != nil {
		return response.BadRequest(c, "invalid startTime", err.Error())
	}
	if f.End, err = parseTimeParam(c.QueryParam("endTime")); err != nil {
		return response.BadRequest(c, "invalid endTime", err.Error())
	}

	p := query.Page{
		Number: intParam(c, "page", 1),
		Size:   intParam(c, "pageSize", 10),
	}

	records, total, err := h.Query.List(c.Request().Context(), f, p)
	if err != nil {
		h.Logger.Error().Err(err).Msg("list logs")
		return response.InternalError(c, "list logs failed", err.Error())
	}

	items := make([]listItem, 0, len(records))
	for _, rec := range records {
		items = append(items, listItem{
			ID:         rec.ID,
			Timestamp:  rec.Timestamp,
			Service:    rec.Service,
			Level:      rec.Level,
			Message:    rec.Message,
			StackTrace: rec.StackTrace,
			Summary:    rec.Summary,
			VMID:       rec.VMID,
		})
	}
	return c.JSON(http.StatusOK, listResponse{
		Data:     items,
		Total:    total,
		Page:     p.Number,
		PageSize: p.Size,
	})
}

// Get handles GET /api/logs/:id.
func (h *LogHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid log id", err.Error())
	}
	rec, err := h.Query.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "log not found")
		}
		h.Logger.Error().Err(err).Stringer("id", id).Msg("get log")
		return response.InternalError(c, "get log failed", err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

// GetAnalysis handles GET /api/logs/:id/analysis. When the record has no
// stored analysis a deterministic default is synthesized.
func (h *LogHandler) GetAnalysis(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid log id", err.Error())
	}
	a, err := h.Query.Analysis(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "log not found")
		}
		h.Logger.Error().Err(err).Stringer("id", id).Msg("get analysis")
		return response.InternalError(c, "get analysis failed", err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

// Services handles GET /api/logs/services.
func (h *LogHandler) Services(c echo.Context) error {
	opts, err := h.Query.Services(c.Request().Context())
	if err != nil {
		h.Logger.Error().Err(err).Msg("list services")
		return response.InternalError(c, "list services failed", err.Error())
	}
	return c.JSON(http.StatusOK, opts)
}

type createLogRequest struct {
	Timestamp  *time.Time     `json:"timestamp"`
	Service    string         `json:"service" validate:"required"`
	Level      model.Level    `json:"level" validate:"omitempty,oneof=ERROR WARN INFO CRITICAL DEBUG"`
	Message    string         `json:"message" validate:"required"`
	StackTrace string         `json:"stackTrace"`
	Summary    string         `json:"summary"`
	VMID       string         `json:"vmId"`
	Metadata   map[string]any `json:"metadata"`
}

type createLogResponse struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// Create handles POST /api/logs: a client-submitted record that bypasses
// the ingestion pipeline and is persisted as-is.
func (h *LogHandler) Create(c echo.Context) error {
	var req createLogRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid JSON body", err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return response.BadRequest(c, "invalid log record", err.Error())
	}

	rec := model.LogRecord{
		Service:    req.Service,
		Level:      req.Level,
		Message:    req.Message,
		StackTrace: req.StackTrace,
		Summary:    req.Summary,
		VMID:       req.VMID,
		Metadata:   req.Metadata,
	}
	if req.Timestamp != nil {
		rec.Timestamp = *req.Timestamp
	}

	if err := h.Query.Create(c.Request().Context(), &rec); err != nil {
		h.Logger.Error().Err(err).Msg("create log")
		return response.InternalError(c, "create log failed", err.Error())
	}
	return c.JSON(http.StatusCreated, createLogResponse{ID: rec.ID, Message: "log created"})
}

func parseTimeParam(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func intParam(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
