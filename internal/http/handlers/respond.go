package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskcheck/api/internal/validate"
)

// Every failure uses the same envelope: statusCode mirrored in the
// body, a machine-readable error code and either a single message or a
// per-field messages list. Success responses return the resource
// directly with no envelope.

func RespondError(ctx *gin.Context, status int, code, message string) {
	ctx.JSON(status, gin.H{
		"statusCode": status,
		"error":      code,
		"message":    message,
	})
}

func RespondValidationErrors(ctx *gin.Context, violations []validate.Violation) {
	ctx.JSON(http.StatusUnprocessableEntity, gin.H{
		"statusCode": http.StatusUnprocessableEntity,
		"error":      "VALIDATION_FAILED",
		"messages":   violations,
	})
}

func RespondInvalidJSON(ctx *gin.Context) {
	RespondError(ctx, http.StatusBadRequest, "INVALID_JSON", "The request content is not a valid JSON.")
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func RespondAccessDenied(ctx *gin.Context) {
	RespondError(ctx, http.StatusForbidden, "ACCESS_DENIED", "You are not allowed to access this resource.")
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "NOT_FOUND", message)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
