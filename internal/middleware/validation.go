package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"mindwell-server/internal/schemas"
	"mindwell-server/internal/utils"
)

// ValidateAndSanitizeStruct binds the JSON body into a fresh instance of the
// given request type, sanitizes every string field and validates the struct
// tags. On success the payload is stored in the request context, on failure
// the request is aborted with the itemized validation envelope.
//
// The template argument is only used for its type, a new instance is
// allocated per request so concurrent requests never share state.
func ValidateAndSanitizeStruct(template interface{}) gin.HandlerFunc {
	payloadType := reflect.TypeOf(template)
	for payloadType.Kind() == reflect.Ptr {
		payloadType = payloadType.Elem()
	}

	return func(c *gin.Context) {
		payload := reflect.New(payloadType).Interface()

		if err := c.ShouldBindJSON(payload); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{
				Error:   *schemas.BadRequest,
				Details: []string{"request body is not valid JSON"},
			})
			return
		}

		v := utils.GetValidator()
		if err := v.SanitizeData(payload); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		if err := v.Validate.Struct(payload); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{
				Error:   *schemas.BadRequest,
				Details: validationDetails(err),
			})
			return
		}

		c.Set(utils.SanitizedPayloadKey.String(), payload)
		c.Next()
	}
}

// validationDetails converts validator errors into client-facing strings
// naming the field and the violated rule, never the submitted value.
func validationDetails(err error) []string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []string{"request body is invalid"}
	}

	details := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		details = append(details, fmt.Sprintf("%s failed on the '%s' rule", fieldErr.Field(), fieldErr.Tag()))
	}

	return details
}
