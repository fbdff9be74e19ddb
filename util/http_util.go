// api/util/http_util.go
package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
)

const CredentialContextKey = "credential"

// RespondWithError writes the message with a reason code derived from err
// and the status.
func RespondWithError(c *gin.Context, code int, message string, err error) {
	LogError(message, c, err)
	c.JSON(code, gin.H{
		"error":  message,
		"reason": ErrorReason(code, err),
	})
}

func ErrorReason(code int, err error) model.DenialReason {
	if errors.Is(err, fleet_errors.ErrCircuitOpen) {
		return model.ReasonCircuitOpen
	}
	switch code {
	case http.StatusBadRequest:
		return model.ReasonInvalidRequest
	case http.StatusForbidden:
		return model.ReasonForbidden
	case http.StatusNotFound:
		return model.ReasonNotFound
	case http.StatusConflict:
		return model.ReasonConflict
	case http.StatusServiceUnavailable:
		return model.ReasonUnavailable
	default:
		return model.ReasonInternal
	}
}

func LogError(message string, c *gin.Context, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
}

// RespondWithRejection aborts the request with an authorization decision.
func RespondWithRejection(c *gin.Context, decision model.Decision) {
	logger.Warn("Request rejected",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", decision.Status),
		zap.String("reason", string(decision.Reason)))
	c.AbortWithStatusJSON(decision.Status, gin.H{
		"error":  decision.Message,
		"reason": decision.Reason,
	})
}

// GetCredentialFromContext returns the credential stored by the gatekeeper.
func GetCredentialFromContext(c *gin.Context) (model.Credential, bool) {
	value, exists := c.Get(CredentialContextKey)
	if !exists {
		return model.Credential{}, false
	}
	cred, ok := value.(model.Credential)
	return cred, ok
}
