package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"solwindx/datasource"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

const requestIDHeader = datasource.RequestIDHeader

// requestID injects an X-Request-ID when the caller did not send one
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zap line per request
func accessLog(logger *zap.Logger, next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
		logger.Info("request",
			zap.String("method", p.Request.Method),
			zap.String("path", p.URL.Path),
			zap.Int("status", p.StatusCode),
			zap.Int("size", p.Size),
			zap.String("request_id", p.Request.Header.Get(requestIDHeader)),
		)
	})
}

func withMiddleware(h http.Handler, logger *zap.Logger) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)
	return requestID(accessLog(logger, cors(h)))
}

// formValue is a form field as typed. It accepts a JSON string or number.
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*v = formValue(n.String())
	return nil
}
