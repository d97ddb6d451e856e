package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sroursolar/invoicegen/internal/application/session"
	"github.com/sroursolar/invoicegen/internal/domain/invoice"
	"github.com/sroursolar/invoicegen/internal/domain/wizard"
	"github.com/sroursolar/invoicegen/internal/export"
	"github.com/sroursolar/invoicegen/internal/preview"
	"github.com/sroursolar/invoicegen/internal/repository"
)

// ExportLister lists completed background exports
type ExportLister interface {
	List(ctx context.Context, limit int) ([]*repository.ExportRecord, error)
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	sessions  *session.Manager
	renderer  *preview.Renderer
	exporter  *export.Exporter
	exportLog ExportLister
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	sessions *session.Manager,
	renderer *preview.Renderer,
	exporter *export.Exporter,
	exportLog ExportLister,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		sessions:  sessions,
		renderer:  renderer,
		exporter:  exporter,
		exportLog: exportLog,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SessionState summarizes a session for API responses
type SessionState struct {
	SessionID         string                 `json:"session_id"`
	Step              string                 `json:"step"`
	StepIndex         int                    `json:"step_index"`
	StepValid         bool                   `json:"step_valid"`
	PermittedTriggers []string               `json:"permitted_triggers"`
	GrandTotal        string                 `json:"grand_total"`
	Draft             *invoice.DraftSnapshot `json:"draft"`
}

func sessionState(s *session.Session) SessionState {
	draft := s.Snapshot()
	step := s.Step()

	triggers := s.PermittedTriggers()
	permitted := make([]string, 0, len(triggers))
	for _, t := range triggers {
		permitted = append(permitted, t.String())
	}

	return SessionState{
		SessionID:         s.ID,
		Step:              step.String(),
		StepIndex:         step.Index(),
		StepValid:         s.StepValid(),
		PermittedTriggers: permitted,
		GrandTotal:        s.GrandTotal().StringFixed(2),
		Draft:             draft,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"service":   "invoicegen",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// CreateSession handles POST /api/v1/sessions
func (h *Handlers) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, Response{Success: true, Data: sessionState(s)})
}

// GetSession handles GET /api/v1/sessions/:id
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: sessionState(s)})
}

// UpdateCompany handles PUT /api/v1/sessions/:id/company
func (h *Handlers) UpdateCompany(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var patch session.CompanyPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badRequest(c, err)
		return
	}

	s.UpdateCompany(patch)
	c.JSON(http.StatusOK, Response{Success: true, Data: sessionState(s)})
}

// UpdateCustomer handles PUT /api/v1/sessions/:id/customer
func (h *Handlers) UpdateCustomer(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var patch session.CustomerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badRequest(c, err)
		return
	}

	s.UpdateCustomer(patch)
	c.JSON(http.StatusOK, Response{Success: true, Data: sessionState(s)})
}

// UpdateDetails handles PUT /api/v1/sessions/:id/details
func (h *Handlers) UpdateDetails(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var patch session.DetailsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.badRequest(c, err)
		return
	}

	s.UpdateDetails(patch)
	c.JSON(http.StatusOK, Response{Success: true, Data: sessionState(s)})
}

// AddItem handles POST /api/v1/sessions/:id/items
func (h *Handlers) AddItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	item := s.AddItem()
	c.JSON(http.StatusCreated, Response{Success: true, Data: item})
}

// UpdateItemRequest is the body of an item field edit
type UpdateItemRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// UpdateItem handles PUT /api/v1/sessions/:id/items/:item
func (h *Handlers) UpdateItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := s.UpdateItem(c.Param("item"), session.ItemField(req.Field), req.Value); err != nil {
		h.badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: sessionState(s)})
}

// RemoveItem handles DELETE /api/v1/sessions/:id/items/:item
func (h *Handlers) RemoveItem(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	s.RemoveItem(c.Param("item"))
	c.JSON(http.StatusOK, Response{Success: true, Data: sessionState(s)})
}

// Advance handles POST /api/v1/sessions/:id/advance
func (h *Handlers) Advance(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := s.Advance(); err != nil {
		h.transitionRejected(c, s, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: sessionState(s)})
}

// Retreat handles POST /api/v1/sessions/:id/retreat
func (h *Handlers) Retreat(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := s.Retreat(); err != nil {
		h.transitionRejected(c, s, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: sessionState(s)})
}

// Submit handles POST /api/v1/sessions/:id/submit
func (h *Handlers) Submit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := s.Submit(c.Request.Context()); err != nil {
		if errors.Is(err, wizard.ErrInvalidTransition) || errors.Is(err, wizard.ErrGuardFailed) {
			h.transitionRejected(c, s, err)
			return
		}
		h.logger.Error("Submit failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to store snapshot"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"next":  "/api/v1/preview",
		"state": sessionState(s),
	}})
}

// Preview handles GET /api/v1/preview
func (h *Handlers) Preview(c *gin.Context) {
	model, err := h.renderer.Render(c.Request.Context())
	if err != nil {
		h.logger.Error("Preview rendering failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to render preview"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: model})
}

// DownloadPDF handles GET /api/v1/preview/document.pdf
func (h *Handlers) DownloadPDF(c *gin.Context) {
	h.download(c, export.FormatPDF)
}

// DownloadXLSX handles GET /api/v1/preview/document.xlsx
func (h *Handlers) DownloadXLSX(c *gin.Context) {
	h.download(c, export.FormatXLSX)
}

// Thumbnail handles GET /api/v1/preview/thumbnail.png
func (h *Handlers) Thumbnail(c *gin.Context) {
	h.download(c, export.FormatPNG)
}

func (h *Handlers) download(c *gin.Context, format export.Format) {
	snapshot, err := h.snapshotOrSample(c)
	if err != nil {
		return
	}

	doc, err := h.exporter.Render(snapshot, format)
	if err != nil {
		h.logger.Error("Document rendering failed",
			zap.String("format", string(format)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to render document"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// ListExports handles GET /api/v1/exports
func (h *Handlers) ListExports(c *gin.Context) {
	limit := 20
	records, err := h.exportLog.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list exports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to list exports"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: records})
}

func (h *Handlers) session(c *gin.Context) (*session.Session, bool) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "session not found"})
		return nil, false
	}
	return s, true
}

func (h *Handlers) snapshotOrSample(c *gin.Context) (*invoice.DraftSnapshot, error) {
	snapshot, err := h.renderer.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to load snapshot"})
		return nil, err
	}
	return snapshot, nil
}

func (h *Handlers) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
}

func (h *Handlers) transitionRejected(c *gin.Context, s *session.Session, err error) {
	c.JSON(http.StatusConflict, Response{
		Success: false,
		Error:   err.Error(),
		Data:    sessionState(s),
	})
}
