package registrar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"command-registrar/internal/adapters/metrics"
	"command-registrar/internal/core/domain"
	"command-registrar/internal/core/ports"
	"command-registrar/internal/core/services/compiler"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

const defaultPostInterval = time.Second

type Dependencies struct {
	Publisher ports.Publisher
	// History is optional; without it every submission is sent.
	History      ports.HistoryStore
	Target       domain.Target
	PostInterval time.Duration
}

type Service struct {
	publisher    ports.Publisher
	history      ports.HistoryStore
	target       domain.Target
	postInterval time.Duration
	now          func() time.Time
}

func NewService(deps Dependencies) *Service {
	interval := deps.PostInterval
	if interval <= 0 {
		interval = defaultPostInterval
	}

	return &Service{
		publisher:    deps.Publisher,
		history:      deps.History,
		target:       deps.Target,
		postInterval: interval,
		now:          time.Now,
	}
}

type SubmitOptions struct {
	Mode domain.SubmitMode
	// AllowEmpty permits an empty batch, which removes every command.
	AllowEmpty bool
	// Force submits even when the batch matches the last recorded deployment.
	Force bool
}

type Result struct {
	Commands    []*discordgo.ApplicationCommand
	Fingerprint string
	Mode        domain.SubmitMode
	Skipped     bool
}

// Submit sends batch to the configured target.
func (s *Service) Submit(ctx context.Context, batch compiler.Batch, opts SubmitOptions) (*Result, error) {
	if len(batch) == 0 && !opts.AllowEmpty {
		return nil, ErrEmptyBatch
	}

	mode := opts.Mode
	if mode == "" {
		mode = domain.ModeBulk
	}

	fingerprint, err := batch.Fingerprint()
	if err != nil {
		return nil, err
	}

	if !opts.Force && mode == domain.ModeBulk && s.unchanged(ctx, fingerprint) {
		slog.Info("Command batch unchanged, skipping submission", "target", s.target, "fingerprint", fingerprint)
		metrics.Submissions.WithLabelValues(string(mode), "skipped").Inc()
		return &Result{Commands: batch, Fingerprint: fingerprint, Mode: mode, Skipped: true}, nil
	}

	var registered []*discordgo.ApplicationCommand
	switch mode {
	case domain.ModeBulk:
		registered, err = s.publisher.BulkOverwrite(ctx, s.target, batch)
	case domain.ModeSequential:
		registered, err = s.createEach(ctx, batch)
	default:
		return nil, fmt.Errorf("unknown submit mode %q", mode)
	}

	if err != nil {
		metrics.Submissions.WithLabelValues(string(mode), "failure").Inc()
		return &Result{Commands: registered, Fingerprint: fingerprint, Mode: mode}, err
	}

	metrics.Submissions.WithLabelValues(string(mode), "success").Inc()
	metrics.CommandsSubmitted.WithLabelValues(s.target.String(), string(mode)).Add(float64(len(registered)))
	metrics.LastSuccess.WithLabelValues(s.target.String()).SetToCurrentTime()

	slog.Info("Commands submitted", "target", s.target, "mode", mode, "count", len(registered))
	s.record(ctx, fingerprint, len(registered), mode)

	return &Result{Commands: registered, Fingerprint: fingerprint, Mode: mode}, nil
}

// createEach registers commands one at a time and stops at the first
// failure. Commands created before the failure are not rolled back.
func (s *Service) createEach(ctx context.Context, batch compiler.Batch) ([]*discordgo.ApplicationCommand, error) {
	limiter := rate.NewLimiter(rate.Every(s.postInterval), 1)
	registered := make([]*discordgo.ApplicationCommand, 0, len(batch))
	created := make([]string, 0, len(batch))

	for _, cmd := range batch {
		if err := limiter.Wait(ctx); err != nil {
			return registered, &PartialError{Created: created, Failed: cmd.Name, Err: err}
		}

		result, err := s.publisher.Create(ctx, s.target, cmd)
		if err != nil {
			slog.Error("Sequential submission halted", "failed", cmd.Name, "created", len(created), "remaining", len(batch)-len(created)-1)
			return registered, &PartialError{Created: created, Failed: cmd.Name, Err: err}
		}

		registered = append(registered, result)
		created = append(created, cmd.Name)
	}

	return registered, nil
}

func (s *Service) unchanged(ctx context.Context, fingerprint string) bool {
	if s.history == nil {
		return false
	}

	last, err := s.history.LastDeployment(ctx, s.target)
	if err != nil {
		slog.Warn("Failed to read deployment history", "target", s.target, "error", err)
		return false
	}

	// Only a bulk replace leaves Discord holding exactly the recorded batch.
	return last != nil && last.Mode == domain.ModeBulk && last.Fingerprint == fingerprint
}

func (s *Service) record(ctx context.Context, fingerprint string, count int, mode domain.SubmitMode) {
	if s.history == nil {
		return
	}

	err := s.history.RecordDeployment(ctx, domain.Deployment{
		Target:      s.target,
		Fingerprint: fingerprint,
		Count:       count,
		Mode:        mode,
		CreatedAt:   s.now(),
	})
	if err != nil {
		slog.Warn("Failed to record deployment", "target", s.target, "error", err)
	}
}

func (s *Service) List(ctx context.Context) ([]*discordgo.ApplicationCommand, error) {
	return s.publisher.List(ctx, s.target)
}

// Delete removes one command and records the change so the next sync of an
// unchanged batch is sent again.
func (s *Service) Delete(ctx context.Context, commandID string) error {
	if err := s.publisher.Delete(ctx, s.target, commandID); err != nil {
		return err
	}
	s.record(ctx, "", 0, domain.ModeDelete)
	return nil
}

// History returns the most recent deployments for the target, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]domain.Deployment, error) {
	if s.history == nil {
		return nil, fmt.Errorf("deployment history is not configured")
	}
	return s.history.History(ctx, s.target, limit)
}
