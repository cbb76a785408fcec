package middleware

import (
	"time"

	"meetspot/core/constants"
	"meetspot/core/logger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Middleware bundles the HTTP middlewares shared by all modules. The
// API is accountless, so there is no auth layer; creator-only
// operations verify the caller's nickname in the service layer.
type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// RequestID assigns a request ID and mirrors it into the context for
// log correlation.
func (m *Middleware) RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			c.Set(constants.ContextRequestID, id)
		},
	})
}

// RequestLogger logs one structured line per request.
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			requestID, _ := c.Get(constants.ContextRequestID).(string)
			logger.Info("http request",
				"request_id", requestID,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}

// Recover converts panics into 500 responses.
func (m *Middleware) Recover() echo.MiddlewareFunc {
	return echomw.Recover()
}

// CORS allows the web client to call from any origin; the API carries
// no credentials.
func (m *Middleware) CORS() echo.MiddlewareFunc {
	return echomw.CORS()
}
