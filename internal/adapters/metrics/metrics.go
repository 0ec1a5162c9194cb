package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const JobName = "command_registrar"

var (
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registrar_submissions_total",
		Help: "Command batch submissions by mode and outcome",
	}, []string{"mode", "status"})

	CommandsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registrar_commands_submitted_total",
		Help: "Commands accepted by Discord",
	}, []string{"target", "mode"})

	LastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "registrar_last_success_timestamp_seconds",
		Help: "Unix time of the last successful submission",
	}, []string{"target"})

	DiscordRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "discord_request_duration_seconds",
		Help:    "Duration of Discord REST requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	DiscordRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discord_requests_total",
		Help: "Total number of Discord REST requests",
	}, []string{"method", "status"})
)

// Push sends the default registry to a Prometheus Pushgateway.
func Push(ctx context.Context, url, instance string) error {
	pusher := push.New(url, JobName).Gatherer(prometheus.DefaultGatherer)
	if instance != "" {
		pusher = pusher.Grouping("instance", instance)
	}
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
