package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/equine-kiosk/server/internal/cart"
	"github.com/equine-kiosk/server/internal/catalog"
	errx "github.com/equine-kiosk/server/internal/core/error"
	"github.com/equine-kiosk/server/internal/order"
	"github.com/equine-kiosk/server/internal/session"
	logx "github.com/equine-kiosk/server/pkg/logger"
	"github.com/gin-gonic/gin"
)

// statusOf maps domain errors to HTTP statuses. Backend errors carry their
// own status through errx.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, cart.ErrInvalidCartFormat):
		return http.StatusUnprocessableEntity, cart.ErrInvalidCartFormat.Error()
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, session.ErrEmptyCart),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrMissingClient):
		return http.StatusBadRequest, err.Error()
	}
	status := errx.StatusOf(err)
	if status == http.StatusNotFound {
		return status, "not found"
	}
	return status, errx.MessageOf(err)
}

func writeError(c *gin.Context, err error) {
	status, msg := statusOf(err)
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logx.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
