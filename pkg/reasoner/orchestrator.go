package reasoner

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/semaphore"

	"casesearch/pkg/cache"
	"casesearch/pkg/models"
)

// Config bounds the orchestrator's behavior; every field maps to an env knob
// named in spec.md §6.
type Config struct {
	Enabled          bool
	MaxCallsPerRequest int
	BaseTimeoutMs    int
	MaxTimeoutMs     int
	RetryBonusMs     int
	RetryEnabled     bool
	LockWaitMs       int
	LockTTLSlackMs   int
	SemaphoreCapacity int64
	CircuitThreshold int
	CircuitCooldown  time.Duration
	RateWindow       time.Duration
	RateLimit        int
	CacheTTLPass1    time.Duration
	CacheTTLPass2    time.Duration
}

// DefaultConfig matches spec.md §5's default timeout ranges.
func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		MaxCallsPerRequest: 2,
		BaseTimeoutMs:      1500,
		MaxTimeoutMs:       2400,
		RetryBonusMs:       500,
		RetryEnabled:       true,
		LockWaitMs:         1800,
		LockTTLSlackMs:     2000,
		SemaphoreCapacity:  8,
		CircuitThreshold:   5,
		CircuitCooldown:    30 * time.Second,
		RateWindow:         10 * time.Second,
		RateLimit:          20,
		CacheTTLPass1:      30 * time.Minute,
		CacheTTLPass2:      10 * time.Minute,
	}
}

// Orchestrator is the Reasoner Orchestrator (C3): every runReasoner call goes
// through it regardless of which Backend ends up serving it.
type Orchestrator struct {
	cfg      Config
	cache    cache.Cache
	backend  Backend
	breaker  *CircuitBreaker
	bucket   *RateBucket
	sem      *semaphore.Weighted
	ownerTag string
}

func NewOrchestrator(cfg Config, c cache.Cache, backend Backend, ownerTag string) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		cache:    c,
		backend:  backend,
		breaker:  NewCircuitBreaker(c, cfg.CircuitThreshold, cfg.CircuitCooldown),
		bucket:   NewRateBucket(c, "reasoner:rate:v1", cfg.RateWindow, cfg.RateLimit),
		sem:      semaphore.NewWeighted(cfg.SemaphoreCapacity),
		ownerTag: ownerTag,
	}
}

// Run executes the spec.md §4.2 gating order for one call. It never returns
// an error: every failure path is reported via telemetry.SkipReason and the
// caller falls back to deterministic planning.
func (o *Orchestrator) Run(ctx context.Context, in Input, callIndex, callBudget int) models.ReasonerResult {
	started := time.Now()
	fp := Fingerprint(in.CleanedQuery, in.Context)
	telemetry := models.ReasonerTelemetry{}
	if o.backend != nil {
		telemetry.Mode = o.backend.Name()
	}

	fail := func(reason string) models.ReasonerResult {
		telemetry.SkipReason = reason
		telemetry.Degraded = true
		telemetry.Mode = models.ReasonerModeDeterministic
		telemetry.LatencyMs = time.Since(started).Milliseconds()
		plan, _ := NewDeterministicBackend().Generate(ctx, in)
		return models.ReasonerResult{Plan: plan, Telemetry: telemetry, Fingerprint: fp}
	}

	// 1. pass2 without a base plan.
	if in.Pass == models.ReasonerPassTwo && in.BasePlan == nil {
		return fail("pass2_missing_base_plan")
	}
	// 2. mode disabled / call budget exhausted.
	if !o.cfg.Enabled {
		return fail("reasoner_disabled")
	}
	if callIndex >= callBudget {
		return fail("call_budget_exhausted")
	}
	// 3. config invalid.
	if o.backend == nil {
		return fail("config_error")
	}

	pass2Seed := Pass2SeedHash(in.Snippets)
	cacheKey := CacheKey(in.Pass, fp, pass2Seed)

	// 4. cache lookup.
	var cached models.ReasonerPlan
	if err := o.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		telemetry.CacheHit = true
		telemetry.LatencyMs = time.Since(started).Milliseconds()
		return models.ReasonerResult{Plan: &cached, Telemetry: telemetry, Fingerprint: fp}
	}

	forcedPass1 := in.Pass == models.ReasonerPassOne && callIndex == 0
	// 5. circuit breaker.
	if o.breaker.Open(ctx) && !forcedPass1 {
		return fail("circuit_open")
	}

	// 6. global rate-limit bucket.
	if allowed, err := o.bucket.Allow(ctx); err != nil || !allowed {
		return fail("rate_limited")
	}

	// 7. distributed lock.
	lockKey := "lock:reasoner:" + string(in.Pass) + ":" + fp
	timeoutMs, adaptiveApplied := AdaptiveTimeout(o.cfg.BaseTimeoutMs, in.CleanedQuery, in.Context, in.Pass, o.cfg.MaxTimeoutMs)
	telemetry.TimeoutMsUsed = timeoutMs
	telemetry.AdaptiveTimeoutApplied = adaptiveApplied

	lockTTL := time.Duration(timeoutMs+o.cfg.LockTTLSlackMs) * time.Millisecond
	acquired, err := o.cache.AcquireLock(ctx, lockKey, o.ownerTag, lockTTL)
	if err != nil {
		return fail("lock_error")
	}
	if !acquired {
		if plan, ok := o.pollCacheForLock(ctx, cacheKey); ok {
			telemetry.CacheHit = true
			telemetry.LatencyMs = time.Since(started).Milliseconds()
			return models.ReasonerResult{Plan: plan, Telemetry: telemetry, Fingerprint: fp}
		}
		return fail("lock_timeout")
	}
	defer o.cache.ReleaseLock(ctx, lockKey, o.ownerTag)

	// 8. local semaphore.
	if !o.sem.TryAcquire(1) {
		return fail("semaphore_saturated")
	}
	defer o.sem.Release(1)

	// 9. invoke model, with adaptive timeout.
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	in.TimeoutMs = timeoutMs
	plan, genErr := o.backend.Generate(callCtx, in)
	cancel()

	if genErr != nil && callCtx.Err() == context.DeadlineExceeded {
		telemetry.Timeout = true
		// 10. one retry with timeout+retryBonus, if headroom remains.
		retryTimeout := timeoutMs + o.cfg.RetryBonusMs
		if o.cfg.RetryEnabled && in.Pass == models.ReasonerPassOne && retryTimeout <= o.cfg.MaxTimeoutMs {
			retryCtx, retryCancel := context.WithTimeout(ctx, time.Duration(retryTimeout)*time.Millisecond)
			in.TimeoutMs = retryTimeout
			plan, genErr = o.backend.Generate(retryCtx, in)
			retryCancel()
			telemetry.TimeoutMsUsed = retryTimeout
		}
	}

	sparseIntent := len(in.Context.Statutes)+len(in.Context.Issues)+len(in.Context.Procedures) == 0
	if genErr != nil || !Usable(plan, sparseIntent) {
		o.breaker.RecordFailure(ctx) // 12.
		reason := "plan_not_usable"
		if genErr != nil {
			telemetry.Error = genErr.Error()
			if callCtx.Err() == context.DeadlineExceeded {
				reason = "timeout"
			}
		}
		return fail(reason)
	}

	// 11. success: persist + reset circuit.
	ttl := o.cfg.CacheTTLPass1
	if in.Pass == models.ReasonerPassTwo {
		ttl = o.cfg.CacheTTLPass2
	}
	_ = o.cache.SetJSON(ctx, cacheKey, plan, ttl)
	o.breaker.RecordSuccess(ctx)

	telemetry.LatencyMs = time.Since(started).Milliseconds()
	telemetry.Warnings = plan.Warnings
	return models.ReasonerResult{Plan: plan, Telemetry: telemetry, Fingerprint: fp}
}

// pollCacheForLock polls the cache for up to LockWaitMs while another caller
// holds the lock for the same fingerprint — a fresh entry there wins.
func (o *Orchestrator) pollCacheForLock(ctx context.Context, cacheKey string) (*models.ReasonerPlan, bool) {
	deadline := time.Now().Add(time.Duration(o.cfg.LockWaitMs) * time.Millisecond)
	for time.Now().Before(deadline) {
		var plan models.ReasonerPlan
		if err := o.cache.GetJSON(ctx, cacheKey, &plan); err == nil {
			return &plan, true
		}
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(time.Duration(60+rand.Intn(40)) * time.Millisecond):
		}
	}
	return nil, false
}
