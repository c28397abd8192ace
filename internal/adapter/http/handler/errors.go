package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/domain/service"
	"github.com/ressKim-io/EvoGuard/sentiment-service/internal/usecase"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapUsecaseError maps usecase and upstream errors to HTTP error responses
func MapUsecaseError(err error) ErrorResponse {
	var httpErr *service.UpstreamHTTPError
	var modelErr *service.UpstreamModelError

	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    "invalid request",
		}
	case errors.Is(err, service.ErrUpstreamTimeout):
		return ErrorResponse{
			StatusCode: http.StatusGatewayTimeout,
			Code:       "UPSTREAM_TIMEOUT",
			Message:    "sentiment model timed out, try again later",
		}
	case errors.Is(err, service.ErrUpstreamUnreachable):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Code:       "UPSTREAM_UNAVAILABLE",
			Message:    "sentiment model is unreachable",
		}
	case errors.Is(err, service.ErrUpstreamEmptyResult):
		return ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Code:       "UPSTREAM_EMPTY_RESULT",
			Message:    "sentiment model returned an empty result",
		}
	case errors.As(err, &httpErr):
		message := fmt.Sprintf("sentiment model returned status %d", httpErr.StatusCode)
		if httpErr.Excerpt != "" {
			message += ": " + httpErr.Excerpt
		}
		return ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Code:       "UPSTREAM_HTTP_ERROR",
			Message:    message,
		}
	case errors.As(err, &modelErr):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "UPSTREAM_MODEL_ERROR",
			Message:    "sentiment model error: " + modelErr.Message,
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response
func HandleUsecaseError(c *gin.Context, err error) {
	_ = c.Error(err)
	errResp := MapUsecaseError(err)
	RespondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}

// HandleInvalidRequest handles a generic invalid request error
func HandleInvalidRequest(c *gin.Context, message string) {
	RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", message)
}
