// Package response writes the JSON envelope every endpoint answers with.
package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Envelope struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func Success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Status: StatusSuccess, Code: code, Message: message, Data: data})
}

func Error(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Status: StatusError, Code: code, Message: message, Data: data})
}

// ErrorHandler renders errors that escaped a handler. *echo.HTTPError keeps
// its status and message; anything else is logged and answered with a
// generic 500 so internals never reach the client.
func ErrorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			message = httpMessage(httpErr)
		}
		if code >= http.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}).Error("unhandled error")
			message = "internal server error"
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = Error(c, code, message, nil)
		}
		if err != nil {
			logger.WithError(err).Error("write error response")
		}
	}
}

func httpMessage(err *echo.HTTPError) string {
	switch m := err.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(err.Code)
	default:
		return fmt.Sprint(m)
	}
}
