package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/glidewallet/swap-engine/internal/common"
	"github.com/glidewallet/swap-engine/internal/domain"
	"github.com/glidewallet/swap-engine/internal/http/httputil"
)

// respondError maps domain sentinels to HTTP status and stable error codes.
// Clients branch on the code, never the message.
func respondError(c *gin.Context, err error) {
	httputil.Fail(c, toHTTPError(err))
}

func toHTTPError(err error) *common.HttpError {
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrTokenNotFound):
		return common.HTTPErrorBadRequest(msg).WithCode("INVALID_TOKEN")
	case errors.Is(err, domain.ErrIdenticalTokens):
		return common.HTTPErrorBadRequest(msg).WithCode("IDENTICAL_TOKENS")
	case errors.Is(err, domain.ErrAmountTooSmall):
		return common.HTTPErrorBadRequest(msg).WithCode("AMOUNT_TOO_SMALL")
	case errors.Is(err, domain.ErrReverseUnsupported):
		return common.HTTPErrorBadRequest(msg).WithCode("REVERSE_UNSUPPORTED")

	case errors.Is(err, domain.ErrInsufficientLiquidity), errors.Is(err, domain.ErrNoLiquidity):
		return common.HTTPErrorNotFound(msg).WithCode("INSUFFICIENT_LIQUIDITY")
	case errors.Is(err, domain.ErrQuoteNotFound):
		return common.HTTPErrorNotFound(msg).WithCode("QUOTE_NOT_FOUND")
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return common.HTTPErrorNotFound(msg).WithCode("SUBMISSION_NOT_FOUND")

	case errors.Is(err, domain.ErrQuoteExpired):
		return common.HTTPErrorConflict(msg).WithCode("QUOTE_EXPIRED")
	case errors.Is(err, domain.ErrQuoteMismatch):
		return common.HTTPErrorConflict(msg).WithCode("QUOTE_MISMATCH")

	case errors.Is(err, domain.ErrPathInvalid):
		return common.HTTPErrorUnprocessable(msg).WithCode("PATH_INVALID")
	case errors.Is(err, domain.ErrInsufficientBalance):
		return common.HTTPErrorUnprocessable(msg).WithCode("INSUFFICIENT_BALANCE")

	case errors.Is(err, domain.ErrExecutionFailed):
		return common.HTTPErrorBadGateway(msg).WithCode("EXECUTION_FAILED")
	}
	return common.HTTPErrorInternalError(msg)
}
