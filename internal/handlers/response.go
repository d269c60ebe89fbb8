package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/testbridge/testbridge-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func errMissingField(name string) error {
	return fmt.Errorf("missing %s", name)
}

// RespondServiceError maps the service error taxonomy onto HTTP statuses so
// each condition stays distinguishable at the edge.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateAssociation):
		RespondError(c, http.StatusConflict, "duplicate_association", err)
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrValidationRejected):
		RespondError(c, http.StatusUnprocessableEntity, "validation_rejected", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
