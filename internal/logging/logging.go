// Package logging configures the process-wide logrus logger and provides the
// request logging middleware used by the router.
package logging

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Setup applies level and format to the standard logrus logger. An unknown
// level falls back to info.
func Setup(level string, json bool) {
	logrus.SetOutput(os.Stdout)

	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

// Requests logs one line per request once the handler has returned.
func Requests(next http.Handler) http.Handler {
	log := For("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			entry := log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
			})
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				entry.Warn("request failed")
			default:
				entry.Info("request")
			}
		}()

		next.ServeHTTP(ww, r)
	})
}
