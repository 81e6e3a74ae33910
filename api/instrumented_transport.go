package api

import (
	"net/http"
	"time"

	"github.com/jrsteele09/legalcase-console/internal/metrics"
	"github.com/rs/zerolog/log"
)

type instrumentedTransport struct {
	base http.RoundTripper
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.ObserveAPIRequest(req.Method, status, elapsed)

	event := log.Debug()
	if err != nil {
		event = log.Warn().Err(err)
	}
	event.Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", status).
		Dur("elapsed", elapsed).
		Bool("bearer", req.Header.Get("Authorization") != "").
		Msg("api request")
	return resp, err
}
