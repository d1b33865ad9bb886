// Package utils provides utility functions to support various operations within the application.
package utils

import (
	"strings"

	"github.com/gin-gonic/gin"

	"mindwell-server/internal/schemas"
)

// WriteAndLogResponse writes the response object as JSON with the provided status code.
func WriteAndLogResponse(c *gin.Context, response interface{}, statusCode int) {
	LogMessageWithFields(c, "debug", "Returning response")
	c.JSON(statusCode, response)
}

// WriteAndLogError logs the internal error and sends the sanitized error
// envelope with the specified status code. The raw error text never reaches
// the client.
func WriteAndLogError(c *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	LogMessageWithFields(c, "error", "Error occurred: "+err.Error())
	LogMessageWithFields(c, "error", "Returning "+customErr.Code+" / "+customErr.Message)
	c.JSON(statusCode, &schemas.ErrorDTO{Error: *customErr})
}

// WriteAndLogValidationError sends the validation envelope with the itemized
// list of violated rules.
func WriteAndLogValidationError(c *gin.Context, details []string) {
	LogMessageWithFields(c, "error", "Validation failed: "+strings.Join(details, "; "))
	c.JSON(400, &schemas.ErrorDTO{Error: *schemas.BadRequest, Details: details})
}
