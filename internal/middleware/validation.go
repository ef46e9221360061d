package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/phishguard/backend/pkg/logger"
	"github.com/phishguard/backend/pkg/validation"
)

type ValidationMiddleware struct {
	validate *validator.Validate
}

func NewValidationMiddleware() *ValidationMiddleware {
	v := validator.New()
	v.RegisterValidation("password", validPassword)
	return &ValidationMiddleware{validate: v}
}

// validPassword requires at least one uppercase letter, one lowercase
// letter, and one digit. Length is checked by the min tag.
func validPassword(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

// ValidateRequestBody parses and validates the body against the struct
// the factory produces, rejecting the request before any side effect.
// The body is restored so handlers can bind it again.
func (m *ValidationMiddleware) ValidateRequestBody(factory func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(c.Request.Body)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"message": "Failed to read request body",
				})
				c.Abort()
				return
			}
		}

		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		request := factory()

		if err := json.Unmarshal(bodyBytes, request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Invalid JSON format",
				"details": err.Error(),
			})
			c.Abort()
			return
		}

		if err := m.validate.Struct(request); err != nil {
			var validationErrors []string

			for _, e := range err.(validator.ValidationErrors) {
				if fieldMessages := validation.CustomMessage(e.Field()); fieldMessages != nil {
					if msg, exists := fieldMessages[e.Tag()]; exists {
						validationErrors = append(validationErrors, msg)
						continue
					}
				}
				validationErrors = append(validationErrors, validation.DefaultMessage(e.Field(), e.Tag()))
			}

			logger.GetLogger().Warn("Request validation failed",
				zap.String("path", c.Request.URL.Path),
				zap.Strings("validation_errors", validationErrors),
			)

			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Validation failed",
				"details": validationErrors,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
