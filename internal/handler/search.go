package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flyhigh/internal/models"
	"github.com/dharmasatrya/flyhigh/internal/txlog"
)

type Searcher interface {
	Search(ctx context.Context, q models.StructuredQuery) (*models.SearchResult, error)
}

type QueryParser interface {
	ParseQuery(ctx context.Context, query string) (*models.StructuredQuery, error)
}

type SearchHandler struct {
	searcher Searcher
	parser   QueryParser
	recorder txlog.Recorder
}

func NewSearchHandler(searcher Searcher, parser QueryParser, recorder txlog.Recorder) *SearchHandler {
	if recorder == nil {
		recorder = txlog.NoOpLog{}
	}
	return &SearchHandler{
		searcher: searcher,
		parser:   parser,
		recorder: recorder,
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	var req models.StructuredQuery
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	if err := req.Validate(); err != nil {
		return errorResponse(c, err)
	}

	result, err := h.run(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Query parses a single free-form request before searching.
func (h *SearchHandler) Query(c echo.Context) error {
	var req models.FreeFormQuery
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return errorResponse(c, models.ErrEmptyQuery)
	}

	ctx := c.Request().Context()
	parsed, err := h.parser.ParseQuery(ctx, query)
	if err != nil {
		return errorResponse(c, err)
	}

	result, err := h.run(ctx, *parsed)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, models.QuerySearchResponse{
		SearchResult: *result,
		ParsedQuery:  *parsed,
	})
}

func (h *SearchHandler) run(ctx context.Context, q models.StructuredQuery) (*models.SearchResult, error) {
	startTime := time.Now()

	result, err := h.searcher.Search(ctx, q)
	if err != nil {
		log.Printf("[SEARCH] %s -> %s failed after %v: %v", q.Origin, q.Destination, time.Since(startTime), err)
		return nil, err
	}

	if err := h.recorder.Record(ctx, txlog.KindDirect, txlog.Entry{
		URL:     result.RedirectURL,
		Content: result.RawContent,
		Price:   result.CheapestPrice,
	}); err != nil {
		log.Printf("[TXLOG] failed to record direct search: %v", err)
	}

	log.Printf("[SEARCH] %s -> %s status=%s in %v", q.Origin, q.Destination, result.Status, time.Since(startTime))
	return result, nil
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
