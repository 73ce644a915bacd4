package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmanzanog/ko-wizard/internal/application"
	"github.com/jmanzanog/ko-wizard/internal/domain"
	"github.com/jmanzanog/ko-wizard/internal/draft"
	"github.com/jmanzanog/ko-wizard/internal/importer"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/marketdata"
	"github.com/jmanzanog/ko-wizard/internal/listquery"
	"github.com/jmanzanog/ko-wizard/internal/pricing"
)

// InstrumentService defines the operations behind the instrument and draft routes.
type InstrumentService interface {
	ListInstruments(ctx context.Context, q listquery.Query) ([]domain.Instrument, error)
	GroupInstruments(ctx context.Context, q listquery.Query) ([]listquery.AssetClassGroup, error)
	MostRecent(ctx context.Context) (*domain.Instrument, error)
	GetInstrument(ctx context.Context, id string) (*domain.Instrument, error)
	DeleteInstrument(ctx context.Context, id string) error
	SetFavorite(ctx context.Context, id string, favorite bool) (*domain.Instrument, error)
	Calculate(ctx context.Context, id string, req application.CalculateRequest) (pricing.Calculation, error)
	LivePrice(ctx context.Context, id string) (*application.LivePrice, error)
	ParseImport(ctx context.Context, text string) importer.Basics

	CreateDraft(ctx context.Context) application.DraftView
	EditInstrument(ctx context.Context, instrumentID string) (application.DraftView, error)
	GetDraft(ctx context.Context, id string) (application.DraftView, error)
	DiscardDraft(ctx context.Context, id string) error
	ApplyAction(ctx context.Context, id string, action application.Action) (application.DraftView, error)
	PressImport(ctx context.Context, id, text string) (application.ImportResult, error)
	CommitDraft(ctx context.Context, id string) (*domain.Instrument, error)
}

type Handler struct {
	service InstrumentService
}

func NewHandler(service InstrumentService) *Handler {
	return &Handler{
		service: service,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ActionErrorResponse carries the session state next to a rejected action.
type ActionErrorResponse struct {
	Error string                `json:"error"`
	Draft application.DraftView `json:"draft"`
}

// InstrumentResponse is an instrument with its list title.
type InstrumentResponse struct {
	domain.Instrument
	Title string `json:"title"`
}

func newInstrumentResponse(i domain.Instrument) InstrumentResponse {
	return InstrumentResponse{Instrument: i, Title: i.ListTitle()}
}

type ListQuery struct {
	Recent    bool   `form:"recent"`
	Favorites bool   `form:"favorites"`
	Search    string `form:"q"`
	Grouped   bool   `form:"grouped"`
}

type FavoriteRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

type ImportRequest struct {
	Text string `json:"text"`
}

// CalculationResponse holds both price fields as display strings. Reason is
// set when the engine fell back to the placeholder.
type CalculationResponse struct {
	Underlying  string `json:"underlying"`
	Certificate string `json:"certificate"`
	Reason      string `json:"reason,omitempty"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInstrumentNotFound),
		errors.Is(err, application.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrQuotesUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidInstrument),
		errors.Is(err, draft.ErrDraftInvalid),
		errors.Is(err, marketdata.ErrNoSymbol):
		return http.StatusUnprocessableEntity
	case errors.Is(err, draft.ErrNotDone),
		errors.Is(err, draft.ErrNotEditing),
		errors.Is(err, draft.ErrEditInProgress),
		errors.Is(err, draft.ErrTargetMismatch):
		return http.StatusConflict
	case errors.Is(err, application.ErrUnknownAction),
		errors.Is(err, application.ErrInvalidActionValue),
		errors.Is(err, application.ErrInvalidCalculation),
		errors.Is(err, draft.ErrSubgroupNotAllowed),
		errors.Is(err, draft.ErrInvalidRatio),
		errors.Is(err, draft.ErrCustomRatioValue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, msg string, err error, attrs ...any) {
	status := statusFor(err)
	args := make([]any, 0, len(attrs)+4)
	args = append(args, attrs...)
	args = append(args, "status", status, "error", err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), msg, args...)
	} else {
		slog.DebugContext(c.Request.Context(), msg, args...)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func (h *Handler) ListInstruments(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	q := listquery.Query{RecentOnly: lq.Recent, FavoritesOnly: lq.Favorites, Search: lq.Search}

	if lq.Grouped {
		groups, err := h.service.GroupInstruments(c.Request.Context(), q)
		if err != nil {
			h.fail(c, "Failed to group instruments", err)
			return
		}
		c.JSON(http.StatusOK, groups)
		return
	}

	list, err := h.service.ListInstruments(c.Request.Context(), q)
	if err != nil {
		h.fail(c, "Failed to list instruments", err)
		return
	}
	resp := make([]InstrumentResponse, 0, len(list))
	for _, i := range list {
		resp = append(resp, newInstrumentResponse(i))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) MostRecent(c *gin.Context) {
	inst, err := h.service.MostRecent(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to get most recent instrument", err)
		return
	}
	c.JSON(http.StatusOK, newInstrumentResponse(*inst))
}

func (h *Handler) GetInstrument(c *gin.Context) {
	id := c.Param("id")

	inst, err := h.service.GetInstrument(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Failed to get instrument", err, "instrument_id", id)
		return
	}
	c.JSON(http.StatusOK, newInstrumentResponse(*inst))
}

func (h *Handler) DeleteInstrument(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.DeleteInstrument(c.Request.Context(), id); err != nil {
		h.fail(c, "Failed to delete instrument", err, "instrument_id", id)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetFavorite(c *gin.Context) {
	id := c.Param("id")

	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	inst, err := h.service.SetFavorite(c.Request.Context(), id, *req.Favorite)
	if err != nil {
		h.fail(c, "Failed to set favorite", err, "instrument_id", id)
		return
	}
	c.JSON(http.StatusOK, newInstrumentResponse(*inst))
}

func (h *Handler) Calculate(c *gin.Context) {
	id := c.Param("id")

	var req application.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	calc, err := h.service.Calculate(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, "Failed to calculate", err, "instrument_id", id)
		return
	}

	resp := CalculationResponse{Underlying: calc.Underlying, Certificate: calc.Certificate}
	if calc.Err != nil {
		resp.Reason = calc.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) LivePrice(c *gin.Context) {
	id := c.Param("id")

	live, err := h.service.LivePrice(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Failed to get live price", err, "instrument_id", id)
		return
	}
	c.JSON(http.StatusOK, live)
}

func (h *Handler) ParseImport(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.service.ParseImport(c.Request.Context(), req.Text))
}

func (h *Handler) CreateDraft(c *gin.Context) {
	c.JSON(http.StatusCreated, h.service.CreateDraft(c.Request.Context()))
}

func (h *Handler) EditInstrument(c *gin.Context) {
	id := c.Param("id")

	view, err := h.service.EditInstrument(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Failed to open edit session", err, "instrument_id", id)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) GetDraft(c *gin.Context) {
	id := c.Param("id")

	view, err := h.service.GetDraft(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Failed to get draft", err, "draft_id", id)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) DiscardDraft(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.DiscardDraft(c.Request.Context(), id); err != nil {
		h.fail(c, "Failed to discard draft", err, "draft_id", id)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ApplyAction(c *gin.Context) {
	id := c.Param("id")

	var action application.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.service.ApplyAction(c.Request.Context(), id, action)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			c.JSON(status, ErrorResponse{Error: err.Error()})
			return
		}
		slog.DebugContext(c.Request.Context(), "Draft action rejected", "draft_id", id, "type", action.Type, "error", err)
		c.JSON(status, ActionErrorResponse{Error: err.Error(), Draft: view})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) PressImport(c *gin.Context) {
	id := c.Param("id")

	var req ImportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	}

	result, err := h.service.PressImport(c.Request.Context(), id, req.Text)
	if err != nil {
		h.fail(c, "Failed to import into draft", err, "draft_id", id)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) CommitDraft(c *gin.Context) {
	id := c.Param("id")

	inst, err := h.service.CommitDraft(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Failed to commit draft", err, "draft_id", id)
		return
	}
	c.JSON(http.StatusOK, newInstrumentResponse(*inst))
}
