package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/secureapp/auth-api/internal/admission"
	"github.com/secureapp/auth-api/internal/api/metrics"
	"github.com/secureapp/auth-api/internal/core/domain"
)

// exempt lists paths that bypass the admission gate entirely, mirroring the
// probes and scrape endpoints that must stay reachable under load.
var exempt = map[string]struct{}{
	"/health":       {},
	"/health/ready": {},
	"/metrics":      {},
}

// Admission applies the rate limit and request-shape checks before any
// handler runs. Rejections surface as domain errors for the central error
// handler to map; the cheapest check runs first.
func Admission(gate *admission.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if _, ok := exempt[req.URL.Path]; ok {
				return next(c)
			}

			if err := gate.Check(c.RealIP(), time.Now()); err != nil {
				metrics.AdmissionRejectionsTotal.WithLabelValues("rate_limited").Inc()
				return err
			}

			if isStateChanging(req.Method) {
				if err := gate.CheckBody(req.Header.Get(echo.HeaderContentType), req.ContentLength); err != nil {
					metrics.AdmissionRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
					return err
				}
				// Declared length can lie (or be absent on chunked bodies);
				// cap what a handler can actually read.
				req.Body = http.MaxBytesReader(c.Response(), req.Body, gate.MaxBodyBytes())
			}

			return next(c)
		}
	}
}

func isStateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func rejectionReason(err error) string {
	switch err {
	case domain.ErrPayloadTooLarge:
		return "payload_too_large"
	case domain.ErrUnsupportedMediaType:
		return "unsupported_media_type"
	}
	return "other"
}
