package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tracker-backend/internal/access"
	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
	"github.com/yungbote/tracker-backend/internal/pkg/result"
	"github.com/yungbote/tracker-backend/internal/platform/apierr"
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

// RespondFailure renders a business or transport failure with its mapped status.
func RespondFailure(c *gin.Context, err error) {
	status, code, msg := Describe(err)
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// Respond writes the value of r with status, or its failure.
func Respond[T any](c *gin.Context, status int, r result.Result[T]) {
	v, err := r.Get()
	if err != nil {
		RespondFailure(c, err)
		return
	}
	c.JSON(status, v)
}

// Describe maps err to an HTTP status, a stable code and a user-facing message.
func Describe(err error) (int, string, string) {
	if err == nil {
		return http.StatusInternalServerError, "internal", "unknown error"
	}
	var denied *access.DeniedError
	if errors.As(err, &denied) {
		return http.StatusForbidden, denied.Code(), denied.UserMessage()
	}
	if de, ok := domainagg.AsDomainError(err); ok {
		return statusFor(de.Code()), string(de.Code()), de.UserMessage()
	}
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status, ae.Code, ae.Error()
	}
	return http.StatusInternalServerError, "internal", "internal error"
}

func statusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeInvalidValue:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeConflict, domainagg.CodeInvalidTransition:
		return http.StatusConflict
	case domainagg.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
