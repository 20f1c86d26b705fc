package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/errors"
)

// Every JSON endpoint answers with the same envelope: a status string,
// a human-readable message, and an optional data payload.

func respondSuccess(c *gin.Context, message string, data interface{}) {
	body := gin.H{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}

// respondAppError maps an application error onto the right HTTP status.
func respondAppError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeValidationError:
		status = http.StatusBadRequest
	case apperrors.ErrCodeServiceError:
		status = http.StatusBadGateway
	}

	respondError(c, status, appErr.Message)
}
