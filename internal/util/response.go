package util

import (
	"errors"
	"net/http"

	"tachyon_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the uniform JSON envelope all handlers return.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// FromError renders a service error using its kind's status code. Internal
// errors are logged with their cause and masked in the response body.
func FromError(c *gin.Context, err error) {
	code := StatusCode(err)
	message := err.Error()

	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		logger.Log.Error("internal error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = "internal server error"
	}
	Error(c, code, message)
}
