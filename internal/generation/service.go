package generation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-assistant/internal/cache"
	"github.com/jonathan/resume-assistant/internal/config"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/resilience"
	"github.com/jonathan/resume-assistant/internal/synthesis"
	"github.com/jonathan/resume-assistant/internal/types"
)

// Service is the orchestrator for all generation operations. It owns the
// process-wide breaker, governor, and cache singletons.
type Service struct {
	cfg      *config.Config
	client   llm.Client // nil when no credential is configured
	breaker  *resilience.Breaker
	governor *resilience.Governor
	cache    *cache.ResultCache
	engine   *synthesis.Engine
	validate *validator.Validate
	group    singleflight.Group
	logger   *slog.Logger
}

// New creates a Service. client may be nil, which disables the remote path
// entirely; every operation then resolves through the local engine.
func New(cfg *config.Config, client llm.Client, logger *slog.Logger) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		client:   client,
		breaker:  resilience.NewBreaker(cfg.BreakerThreshold, time.Duration(cfg.BreakerCoolDown)),
		governor: resilience.NewGovernor(time.Duration(cfg.MinCallInterval), cfg.DailyCallLimit),
		cache:    cache.NewResultCache(),
		engine:   synthesis.NewEngine(),
		validate: validator.New(),
		logger:   logger,
	}
}

// Generate runs one generation operation end to end. The only error it can
// return is a RequestError; remote failures of any kind resolve to a local
// result instead.
func (s *Service) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error) {
	if req == nil {
		return nil, &RequestError{Message: "request is nil"}
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, &RequestError{Message: "validation failed", Cause: err}
	}

	if req.Kind == types.OpMultiSectionEnhance {
		return s.enhanceSections(ctx, req)
	}

	fingerprint := cache.Fingerprint(req)
	if cached, ok := s.cache.Get(fingerprint); ok {
		return cached, nil
	}

	// Collapse concurrent requests with the same fingerprint into one
	// computation; the rest share its result.
	value, _, _ := s.group.Do(fingerprint, func() (any, error) {
		if cached, ok := s.cache.Get(fingerprint); ok {
			return cached, nil
		}
		result := s.generate(ctx, req)
		s.cache.Set(fingerprint, result)
		return result, nil
	})
	return value.(*types.GenerationResult), nil
}

// generate attempts the remote path and falls back to local synthesis on
// any failure. It always returns a complete result.
func (s *Service) generate(ctx context.Context, req *types.GenerationRequest) *types.GenerationResult {
	spec := operationSpec(req.Kind)

	if !s.remoteAvailable() {
		s.logger.Debug("remote path unavailable, using local synthesis",
			"kind", req.Kind,
			"breaker", s.breaker.State().String(),
			"calls_today", s.governor.CallsToday(),
		)
		return spec.local(s.engine, req)
	}

	result, err := s.attemptRemote(ctx, req, spec)
	if err != nil {
		s.logger.Warn("remote generation failed, using local synthesis",
			"kind", req.Kind,
			"error", err,
		)
		return spec.local(s.engine, req)
	}
	return result
}

// remoteAvailable is the fast-path availability check: credential present,
// breaker permitting, daily quota not exhausted.
func (s *Service) remoteAvailable() bool {
	return s.client != nil && s.cfg.RemoteEnabled() && s.breaker.Ready() && !s.governor.Exhausted()
}

// attemptRemote runs the full remote pipeline with bounded retries:
// governor reservation, breaker-guarded call with a hard timeout, repair,
// parse, and schema validation.
func (s *Service) attemptRemote(ctx context.Context, req *types.GenerationRequest, spec opSpec) (*types.GenerationResult, error) {
	prompt, err := spec.prompt(req)
	if err != nil {
		return nil, err
	}

	policy := resilience.RetryPolicy{
		MaxAttempts:     s.cfg.MaxAttempts,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}

	var result *types.GenerationResult
	retryErr := resilience.WithRetry(ctx, policy, s.isRetryable, func() error {
		if err := s.governor.ReserveSlot(ctx); err != nil {
			return err
		}
		return s.breaker.Attempt(func() error {
			callCtx, cancel := context.WithTimeout(ctx, spec.timeout(s.cfg))
			defer cancel()

			raw, err := s.client.Generate(callCtx, prompt, spec.params)
			if err != nil {
				return err
			}
			parsed, err := spec.parse(req, raw)
			if err != nil {
				return &malformedError{Cause: err}
			}
			result = parsed
			return nil
		})
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return result, nil
}

// isRetryable limits retries to transient-looking remote failures. Breaker
// rejections, quota exhaustion, cancellation, and malformed responses go
// straight to the local path.
func (s *Service) isRetryable(err error) bool {
	var malformed *malformedError
	switch {
	case errors.Is(err, resilience.ErrBreakerOpen),
		errors.Is(err, resilience.ErrQuotaExhausted),
		errors.Is(err, context.Canceled),
		errors.As(err, &malformed):
		return false
	}
	return llm.IsTransient(err)
}

// BreakerState exposes the breaker state for observability.
func (s *Service) BreakerState() resilience.BreakerState {
	return s.breaker.State()
}

// CallsToday exposes the governor's daily counter for observability.
func (s *Service) CallsToday() int {
	return s.governor.CallsToday()
}

// CacheSize exposes the number of cached results for observability.
func (s *Service) CacheSize() int {
	return s.cache.Len()
}
