package discord

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"command-registrar/internal/adapters/metrics"
)

type MetricsRoundTripper struct {
	Proxied http.RoundTripper
}

func NewMetricsRoundTripper(proxied http.RoundTripper) *MetricsRoundTripper {
	if proxied == nil {
		proxied = http.DefaultTransport
	}
	return &MetricsRoundTripper{Proxied: proxied}
}

func (mrt *MetricsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := mrt.Proxied.RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests {
			keepErrorBody(req, resp)
		}
	}

	metrics.DiscordRequestDuration.WithLabelValues(req.Method, status).Observe(duration)
	metrics.DiscordRequests.WithLabelValues(req.Method, status).Inc()

	return resp, err
}

// keepErrorBody copies the response payload into the request's errorBody, if
// any, and leaves an identical body for discordgo to read.
func keepErrorBody(req *http.Request, resp *http.Response) {
	holder := errorBodyFrom(req.Context())
	if holder == nil || resp.Body == nil {
		return
	}

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		resp.Body = io.NopCloser(bytes.NewReader(nil))
		return
	}

	holder.data = data
	resp.Body = io.NopCloser(bytes.NewReader(data))
}
