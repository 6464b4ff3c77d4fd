package handlers

import (
	"errors"
	"net/http"

	"resto-pos-api/logging"
	"resto-pos-api/models"

	"github.com/gin-gonic/gin"
)

// Every response carries {"success": bool, "data"|"error"}. Error bodies get
// a short machine-stable code, never internal detail.

func respondData(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, err error) {
	var (
		validation *models.ValidationError
		notFound   *models.NotFoundError
		conflict   *models.ConflictError
		authErr    *models.AuthError
		payErr     *models.PaymentError
	)

	switch {
	case errors.As(err, &validation):
		respondErrorBody(c, http.StatusBadRequest, "validation", validation.Message)
	case errors.As(err, &notFound):
		respondErrorBody(c, http.StatusNotFound, "not_found", notFound.Error())
	case errors.As(err, &conflict):
		respondErrorBody(c, http.StatusConflict, "conflict", conflict.Message)
	case errors.As(err, &authErr):
		respondErrorBody(c, http.StatusUnauthorized, "auth", authErr.Message)
	case errors.As(err, &payErr):
		status := http.StatusBadRequest
		code := "payment_rejected"
		if payErr.Kind == models.PaymentUnavailableKind {
			status = http.StatusBadGateway
			code = "payment_unavailable"
		}
		respondErrorBody(c, status, code, payErr.Message)
	default:
		// Full detail stays server-side.
		logging.From(c).Error("internal error", "error", err)
		respondErrorBody(c, http.StatusInternalServerError, "internal", "Something went wrong")
	}
}

func respondErrorBody(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message},
	})
}
