package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
)

// Identity headers are set by the upstream gateway after authentication.
const (
	HeaderCorrelationID = "X-Correlation-Id"
	HeaderSessionID     = "X-Session-Id"
	HeaderUserID        = "X-User-Id"
	HeaderUserStaff     = "X-User-Staff"
)

type ctxKey string

const ctxCustomer ctxKey = "customer"

// CorrelationID propagates or mints X-Correlation-Id and exposes it to event publishing.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(HeaderCorrelationID)
		if cid == "" {
			cid = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, cid)

		ctx := events.WithCorrelationID(r.Context(), cid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Identity reads the customer headers into the request context.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staff, _ := strconv.ParseBool(r.Header.Get(HeaderUserStaff))
		c := checkout.Customer{
			SessionID: strings.TrimSpace(r.Header.Get(HeaderSessionID)),
			UserID:    strings.TrimSpace(r.Header.Get(HeaderUserID)),
		}
		c.Staff = staff && c.UserID != ""

		ctx := context.WithValue(r.Context(), ctxCustomer, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession rejects requests without X-Session-Id.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CustomerFrom(r.Context()).SessionID == "" {
			writeError(w, http.StatusBadRequest, "missing required header: "+HeaderSessionID)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func CustomerFrom(ctx context.Context) checkout.Customer {
	c, _ := ctx.Value(ctxCustomer).(checkout.Customer)
	return c
}

// RequestLogger writes one line per request.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("correlation_id", events.CorrelationID(r.Context())),
			)
		})
	}
}
