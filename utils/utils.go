package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"disasterprep/repository"
)

// GenericServerError is what clients see for every 5xx response.
const GenericServerError = "An unexpected error occurred. Please try again later."

// SendJSONError sends a standardized JSON error response and logs the internal error.
// For 5xx errors the public message is always replaced by GenericServerError;
// the internal error is logged and never sent to the client.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error, details ...string) {
	log := zap.L().Named("Handler")
	response := gin.H{"code": statusCode, "error": publicMsg}
	if len(details) > 0 && details[0] != "" {
		response["details"] = details[0]
	}

	fields := []zap.Field{
		zap.Int("status_code", statusCode),
		zap.String("public_message", publicMsg),
		zap.String("path", c.Request.URL.Path),
	}
	if internalError != nil {
		log.Error("Handler error", append(fields, zap.Error(internalError))...)
	} else {
		log.Info("Handler response", fields...)
	}

	if statusCode >= http.StatusInternalServerError {
		response["error"] = GenericServerError
		delete(response, "details")
	}
	c.AbortWithStatusJSON(statusCode, response)
}

// SendValidationError reports the fields a create payload was missing.
func SendValidationError(c *gin.Context, publicMsg string, err error) {
	fields := repository.InvalidFields(err)
	if fields == nil {
		fields = []string{}
	}
	zap.L().Named("Handler").Info("Validation failed",
		zap.String("path", c.Request.URL.Path), zap.Strings("fields", fields), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"code":   http.StatusBadRequest,
		"error":  publicMsg,
		"fields": fields,
	})
}

// SendRepositoryError maps a repository failure onto an HTTP error response.
func SendRepositoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrValidation):
		SendValidationError(c, "Please fill in all required fields.", err)
	case errors.Is(err, repository.ErrNotFound):
		SendJSONError(c, http.StatusNotFound, "Not found", err)
	default:
		SendJSONError(c, http.StatusServiceUnavailable, "", err)
	}
}

// SendData writes the success envelope used by every page.
func SendData(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, gin.H{
		"code":    statusCode,
		"message": message,
		"data":    data,
	})
}
