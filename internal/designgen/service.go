package designgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camisetia/storefront/pkg/config"
	pkgerrors "github.com/camisetia/storefront/pkg/errors"
	"github.com/camisetia/storefront/pkg/logger"
	"github.com/camisetia/storefront/pkg/metrics"
	"github.com/google/uuid"
)

// Options wires a Service.
type Options struct {
	Provider      Provider
	Ledger        Ledger
	Limit         int
	Window        time.Duration
	ThumbnailSize int
	Metrics       *metrics.DesignGenMetrics
	Logger        *logger.Logger
	Clock         func() time.Time
}

// Service enforces the per-user limit and calls the configured provider.
type Service struct {
	provider Provider
	ledger   Ledger
	images   imageProcessor
	limit    int
	window   time.Duration
	metrics  *metrics.DesignGenMetrics
	logg     *logger.Logger
	now      func() time.Time
	newID    func() uuid.UUID
}

func NewService(opts Options) (*Service, error) {
	if opts.Provider == nil {
		return nil, errors.New("design provider required")
	}
	if opts.Ledger == nil {
		return nil, errors.New("generation ledger required")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		provider: opts.Provider,
		ledger:   opts.Ledger,
		images:   imageProcessor{thumbnailSize: opts.ThumbnailSize},
		limit:    limit,
		window:   window,
		metrics:  opts.Metrics,
		logg:     logg,
		now:      clock,
		newID:    uuid.New,
	}, nil
}

// Generate produces an image for prompt on behalf of userID.
// The user's slot is reserved before the provider is called, so failed
// provider calls still count toward the limit. When ctx carries a client
// address (see WithClientAddr) the same limit applies to that address.
func (s *Service) Generate(ctx context.Context, userID, prompt string) (Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		s.metrics.IncOutcome(metrics.OutcomeInvalid)
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, MessageEmptyPrompt).
			WithDetails(map[string]any{"field": "prompt"})
	}

	ctx = s.logg.WithField(ctx, "provider", s.provider.Name())
	now := s.now()
	id := s.newID()

	allowed, err := s.ledger.Reserve(ctx, ledgerSubjects(ctx, userID), id.String(), now)
	if err != nil {
		s.metrics.IncOutcome(metrics.OutcomeFailed)
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeGeneration, err, MessageGenerationFailed)
	}
	if !allowed {
		s.metrics.IncOutcome(metrics.OutcomeRateLimited)
		s.logg.Info(ctx, "designgen.rate_limited")
		return Result{}, pkgerrors.New(pkgerrors.CodeRateLimit, RateLimitMessage(s.limit, s.window)).
			WithDetails(map[string]any{"limit": s.limit, "windowHours": int(s.window / time.Hour)})
	}

	started := time.Now()
	ref, err := s.provider.GenerateImage(ctx, prompt)
	s.metrics.ObserveDuration(s.provider.Name(), time.Since(started))
	if err != nil {
		return Result{}, s.fail(ctx, err)
	}

	imageRef, thumbnailRef, err := s.images.process(ref)
	if err != nil {
		return Result{}, s.fail(ctx, err)
	}

	s.metrics.IncOutcome(metrics.OutcomeSuccess)
	s.logg.Info(s.logg.WithField(ctx, "generation_id", id.String()), "designgen.generated")
	return Result{
		ID:           id,
		ImageRef:     imageRef,
		ThumbnailRef: thumbnailRef,
		Prompt:       prompt,
		GeneratedAt:  now,
	}, nil
}

func (s *Service) fail(ctx context.Context, err error) error {
	s.metrics.IncOutcome(metrics.OutcomeFailed)
	s.logg.WarnErr(ctx, "designgen.generate_failed", err)

	msg := MessageGenerationFailed
	var noImage *NoImageError
	if errors.As(err, &noImage) {
		msg = noImageMessage(noImage.Reason)
	}
	return pkgerrors.Wrap(pkgerrors.CodeGeneration, err, msg)
}

// NewProvider builds the provider selected by cfg.
func NewProvider(cfg config.DesignGenConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case config.ProviderGemini, "":
		return NewGeminiProvider(GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
			Timeout: cfg.Timeout,
		}), nil
	case config.ProviderEndpoint:
		return NewEndpointProvider(EndpointOptions{URL: cfg.EndpointURL, Timeout: cfg.Timeout})
	default:
		return nil, fmt.Errorf("unsupported design provider %q", cfg.Provider)
	}
}
