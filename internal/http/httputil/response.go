package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glidewallet/swap-engine/internal/common"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Fail renders a typed HTTP error with its machine-readable code.
func Fail(c *gin.Context, he *common.HttpError) {
	c.JSON(he.StatusCode, Response{
		Success: false,
		Error:   he.Message,
		Code:    he.Code,
	})
}

func Error(c *gin.Context, status int, err string) {
	c.JSON(status, Response{
		Success: false,
		Error:   err,
	})
}

func BadRequest(c *gin.Context, err string) {
	Error(c, http.StatusBadRequest, err)
}

func InternalError(c *gin.Context, err string) {
	Error(c, http.StatusInternalServerError, err)
}

func NotFound(c *gin.Context, err string) {
	Error(c, http.StatusNotFound, err)
}
