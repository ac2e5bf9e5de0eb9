package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flyhigh/internal/conversation"
	"github.com/dharmasatrya/flyhigh/internal/llm"
	"github.com/dharmasatrya/flyhigh/internal/models"
)

func bindError(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_request",
		Message: "Failed to parse request body: " + err.Error(),
		Code:    http.StatusBadRequest,
	})
}

// errorResponse maps the error taxonomy onto HTTP statuses.
func errorResponse(c echo.Context, err error) error {
	code, kind, message := classify(err)
	if code >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(code, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    code,
	})
}

func classify(err error) (int, string, string) {
	var (
		validationErr models.ValidationError
		dateErr       *models.InvalidDateError
		configErr     *models.ConfigurationError
		netErr        *models.NetworkError
		shapeErr      *llm.ShapeError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "validation_error", validationErr.Error()
	case errors.As(err, &dateErr):
		return http.StatusBadRequest, "invalid_date", "I couldn't understand the date " + `"` + dateErr.Expression + `"` + ". Please try a clearer date, for example 25/12/2026."
	case errors.As(err, &configErr):
		return http.StatusInternalServerError, "configuration_error", configErr.Error()
	case errors.As(err, &netErr):
		return http.StatusBadGateway, "network_error", "The flight provider could not be reached. Please try again later."
	case errors.Is(err, models.ErrSessionNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, models.ErrSessionComplete):
		return http.StatusConflict, "session_complete", err.Error()
	case errors.Is(err, llm.ErrDisabled):
		return http.StatusServiceUnavailable, "ai_unavailable", err.Error()
	case errors.As(err, &shapeErr):
		return http.StatusBadGateway, "ai_error", "The AI model returned an unexpected answer. Please try again."
	}

	if guidance, ok := conversation.Guidance(err); ok {
		if guidance == conversation.QuotaGuidance {
			return http.StatusTooManyRequests, "ai_quota_exceeded", guidance
		}
		return http.StatusServiceUnavailable, "ai_overloaded", guidance
	}
	return http.StatusInternalServerError, "internal_error", "An error occurred: " + err.Error()
}
