package relaytest

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/familykeys/internal/errors"
	inviteDomain "github.com/allisson/familykeys/internal/invite/domain"
	"github.com/allisson/familykeys/internal/relay"
)

// handleError maps domain errors to relay status codes and writes a JSON error body.
func handleError(c *gin.Context, err error, logger *slog.Logger) {
	var statusCode int
	var resp relay.ErrorResponse

	switch {
	case apperrors.Is(err, inviteDomain.ErrInviteExpired):
		statusCode = http.StatusGone
		resp = relay.ErrorResponse{Error: "expired", Message: err.Error()}

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		resp = relay.ErrorResponse{Error: "not_found", Message: "The requested resource was not found"}

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		resp = relay.ErrorResponse{Error: "conflict", Message: err.Error()}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusUnprocessableEntity
		resp = relay.ErrorResponse{Error: "invalid_input", Message: err.Error()}

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		resp = relay.ErrorResponse{Error: "forbidden", Message: err.Error()}

	default:
		statusCode = http.StatusInternalServerError
		resp = relay.ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}
	}

	logger.Debug("relay request failed",
		slog.Int("status_code", statusCode),
		slog.String("error_code", resp.Error),
		slog.Any("error", err),
	)

	c.JSON(statusCode, resp)
}

// handleBadRequest writes a 400 for bodies that do not decode.
func handleBadRequest(c *gin.Context, err error, logger *slog.Logger) {
	logger.Debug("bad request", slog.Any("error", err))
	c.JSON(http.StatusBadRequest, relay.ErrorResponse{Error: "bad_request", Message: err.Error()})
}
