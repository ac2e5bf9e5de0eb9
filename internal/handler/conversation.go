package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flyhigh/internal/conversation"
	"github.com/dharmasatrya/flyhigh/internal/models"
)

type ConversationHandler struct {
	store     *conversation.Store
	extractor conversation.Extractor
}

func NewConversationHandler(store *conversation.Store, extractor conversation.Extractor) *ConversationHandler {
	return &ConversationHandler{
		store:     store,
		extractor: extractor,
	}
}

// Converse is the stateless entry point: the caller owns the transcript.
func (h *ConversationHandler) Converse(c echo.Context) error {
	var req models.ConverseRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	extraction, err := conversation.Converse(c.Request().Context(), h.extractor, req.Transcript)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, extraction)
}

func (h *ConversationHandler) Create(c echo.Context) error {
	session := h.store.Create()
	return c.JSON(http.StatusCreated, session.Snapshot())
}

func (h *ConversationHandler) Send(c echo.Context) error {
	session, err := h.store.Get(c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	var req models.MessageRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c, err)
	}

	resp, err := session.Send(c.Request().Context(), req.Message)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ConversationHandler) Get(c echo.Context) error {
	session, err := h.store.Get(c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, session.Snapshot())
}

func (h *ConversationHandler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Param("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
