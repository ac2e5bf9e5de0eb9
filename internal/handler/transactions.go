package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flyhigh/internal/models"
	"github.com/dharmasatrya/flyhigh/internal/txlog"
)

type TransactionHandler struct {
	recorder txlog.Recorder
}

func NewTransactionHandler(recorder txlog.Recorder) *TransactionHandler {
	return &TransactionHandler{recorder: recorder}
}

func (h *TransactionHandler) List(c echo.Context) error {
	kind := txlog.Kind(c.Param("kind"))
	if !kind.Valid() {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "unknown transaction kind " + `"` + string(kind) + `"`,
			Code:    http.StatusBadRequest,
		})
	}

	entries, err := h.recorder.List(c.Request().Context(), kind)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
