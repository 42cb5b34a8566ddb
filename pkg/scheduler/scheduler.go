package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"casesearch/pkg/models"
	"casesearch/pkg/provider"
)

// Scheduler drives one or more provider runs over a plan of query variants,
// consuming a shared carry state so a pipeline can call Run more than once
// (e.g. the trace-expansion pass) without losing its budget bookkeeping.
type Scheduler struct {
	cfg      Config
	provider provider.Provider
	classify ClassifyFunc
}

// New builds a Scheduler against one provider. A nil classify falls back to
// a cheap lexical heuristic, good enough to steer reordering before the
// real verifier runs.
func New(cfg Config, prov provider.Provider, classify ClassifyFunc) *Scheduler {
	if classify == nil {
		classify = heuristicClassify
	}
	return &Scheduler{cfg: cfg, provider: prov, classify: classify}
}

// Run consumes variants phase by phase until the budget, a blocking
// condition, or the candidate target ends the run (spec.md §4.4).
func (s *Scheduler) Run(ctx context.Context, variants []models.QueryVariant, window models.DateWindow, carry *models.SchedulerCarryState) models.SchedulerResult {
	pending := groupByPhase(variants)
	phaseAttempts := make(map[models.Phase]int)

	for _, phase := range models.PhaseOrder {
		queue := pending[phase]
		for len(queue) > 0 {
			if stop, reason := s.checkBudget(carry); stop {
				return s.result(carry, reason)
			}
			if limit := s.cfg.phaseLimit(phase); limit > 0 && phaseAttempts[phase] >= limit {
				break
			}

			reorderPhase(queue, carry)
			variant := queue[0]
			queue = queue[1:]

			courtType, fromDate, toDate := effectiveFilters(variant, window)
			sig := querySignature(variant, courtType, fromDate, toDate)
			if _, seen := carry.SeenSignatures[sig]; seen {
				carry.SkippedDuplicates++
				continue
			}
			carry.SeenSignatures[sig] = struct{}{}

			timeoutMs := s.attemptTimeoutMs(carry)
			if timeoutMs <= 0 {
				return s.result(carry, "time_budget_exhausted")
			}

			carry.AttemptsUsed++
			phaseAttempts[phase]++

			result, callErr := s.provider.Search(ctx, provider.SearchParams{
				Phrase:              variant.Phrase,
				CourtScope:          variant.CourtScope,
				MaxResultsPerPhrase: s.cfg.VerifyLimit,
				MaxPages:            s.cfg.maxPagesFor(phase),
				CourtType:           courtType,
				FromDate:            fromDate,
				ToDate:              toDate,
				Max429Retries:       s.cfg.Max429Retries,
				MaxRetryAfterMs:     s.cfg.MaxRetryAfterMs,
				FetchTimeoutMs:      timeoutMs,
				QueryMode:           variant.RetrievalDirectives.QueryMode,
				DoctypeProfile:      variant.RetrievalDirectives.DoctypeProfile,
				ProviderHints:       variant.ProviderHints,
				VariantPriority:     variant.Priority,
			})

			debug := result.Debug
			if callErr != nil {
				if perr, ok := callErr.(*provider.Error); ok {
					debug = perr.Debug
				}
			}

			s.recordAttempt(carry, variant, debug)

			signal := buildAttemptSignal(debug, result.Cases, s.classify)
			score := utilityScore(signal)
			updateVariantUtility(carry, variant.CanonicalKey, score, signal, debug)

			for _, c := range result.Cases {
				mergeCandidate(carry, c, variant.CanonicalKey)
			}

			blockedNow, terminal := s.applyBlockingSemantics(carry, debug)
			if terminal {
				return s.result(carry, "blocked")
			}
			if blockedNow && carry.BlockedCount >= s.cfg.BlockedThreshold {
				carry.BlockedReason = fmt.Sprintf("blocked_threshold_reached:%d", carry.AttemptsUsed)
				return s.result(carry, "blocked")
			}

			if s.cfg.StopOnCandidateTarget && s.candidateTargetMet(carry) {
				carry.BlockedReason = "enough_candidates"
				return s.result(carry, "enough_candidates")
			}

			s.sleepBetweenAttempts(carry)
		}
	}

	carry.BlockedReason = "completed"
	return s.result(carry, "completed")
}

func (s *Scheduler) checkBudget(carry *models.SchedulerCarryState) (bool, string) {
	elapsed := time.Now().UnixMilli() - carry.StartedAtMs
	if s.cfg.MaxElapsedMs > 0 && elapsed >= s.cfg.MaxElapsedMs {
		carry.BlockedReason = fmt.Sprintf("time_budget_exhausted:%d", carry.AttemptsUsed)
		return true, "time_budget_exhausted"
	}
	if s.cfg.GlobalBudget > 0 && carry.AttemptsUsed >= s.cfg.GlobalBudget {
		carry.BlockedReason = fmt.Sprintf("budget_exhausted:%d", carry.AttemptsUsed)
		return true, "budget_exhausted"
	}
	return false, ""
}

// attemptTimeoutMs bounds the next fetch to whatever is left of the wall
// clock budget, always leaving a 250ms margin for bookkeeping.
func (s *Scheduler) attemptTimeoutMs(carry *models.SchedulerCarryState) int {
	if s.cfg.MaxElapsedMs <= 0 {
		return s.cfg.FetchTimeoutMs
	}
	elapsed := time.Now().UnixMilli() - carry.StartedAtMs
	remaining := s.cfg.MaxElapsedMs - elapsed
	if remaining < 1000 {
		return 0
	}
	budgetTimeout := int(remaining - 250)
	if budgetTimeout > s.cfg.FetchTimeoutMs {
		return s.cfg.FetchTimeoutMs
	}
	return budgetTimeout
}

func (s *Scheduler) recordAttempt(carry *models.SchedulerCarryState, variant models.QueryVariant, debug provider.SearchDebug) {
	status := "ok"
	if !debug.OK {
		status = "failed"
	}
	carry.Attempts = append(carry.Attempts, models.Attempt{
		Phase:             variant.Phase,
		VariantID:         variant.ID,
		CanonicalKey:      variant.CanonicalKey,
		Priority:          variant.Priority,
		Phrase:            variant.Phrase,
		Status:            status,
		OK:                debug.OK,
		ParsedCount:       debug.ParsedCount,
		ChallengeDetected: debug.ChallengeDetected,
		CooldownActive:    debug.CooldownActive,
		RateLimited:       debug.BlockedType == provider.BlockedRateLimit,
		HTMLPreview:       debug.HTMLPreview,
		Error:             debug.Error,
	})
}

// applyBlockingSemantics folds one attempt's blocked signal into the carry
// state. It reports (blockedNow, terminal) — terminal means the whole
// request must stop immediately regardless of the blocked-count threshold.
func (s *Scheduler) applyBlockingSemantics(carry *models.SchedulerCarryState, debug provider.SearchDebug) (blockedNow, terminal bool) {
	switch debug.BlockedType {
	case provider.BlockedLocalCooldown:
		carry.BlockedCount++
		carry.BlockedKind = models.BlockedLocalCooldown
		carry.BlockedReason = "local_cooldown"
		carry.RetryAfterMs = int64(debug.RetryAfterMs)
		return true, true
	case provider.BlockedChallenge, provider.BlockedRateLimit:
		carry.BlockedCount++
		carry.BlockedKind = mapBlockedKind(debug.BlockedType)
		carry.RetryAfterMs = int64(debug.RetryAfterMs)
		return true, false
	default:
		carry.BlockedCount = 0
		return false, false
	}
}

// candidateTargetMet reports whether this run has accumulated enough
// case-like candidates to stop early (spec.md §4.4 step 9).
func (s *Scheduler) candidateTargetMet(carry *models.SchedulerCarryState) bool {
	caseLike := 0
	hasSupremeCourt := false
	for _, c := range carry.Candidates {
		if s.classify(c) == models.KindCase {
			caseLike++
		}
		if c.Court == models.CourtCaseSC {
			hasSupremeCourt = true
		}
	}
	if caseLike < s.cfg.MinCaseTarget {
		return false
	}
	if s.cfg.RequireSupremeCourt && !hasSupremeCourt {
		return false
	}
	return true
}

// sleepBetweenAttempts paces successful attempts with a jittered delay,
// skipping the pause once the budget is nearly spent.
func (s *Scheduler) sleepBetweenAttempts(carry *models.SchedulerCarryState) {
	if s.cfg.MaxElapsedMs > 0 {
		elapsed := time.Now().UnixMilli() - carry.StartedAtMs
		if s.cfg.MaxElapsedMs-elapsed < 500 {
			return
		}
	}
	delay := time.Duration(80+rand.Intn(81)) * time.Millisecond
	time.Sleep(delay)
}

func (s *Scheduler) result(carry *models.SchedulerCarryState, reason string) models.SchedulerResult {
	stopReason := models.StopBudgetExhausted
	switch reason {
	case "completed":
		stopReason = models.StopCompleted
	case "enough_candidates":
		stopReason = models.StopEnoughCandidates
	case "blocked":
		stopReason = models.StopBlocked
	case "budget_exhausted", "time_budget_exhausted":
		stopReason = models.StopBudgetExhausted
	}
	return models.SchedulerResult{
		Attempts:      carry.Attempts,
		Candidates:    carry.CandidateList(),
		StopReason:    stopReason,
		BlockedCount:  carry.BlockedCount,
		BlockedReason: carry.BlockedReason,
		BlockedKind:   carry.BlockedKind,
		RetryAfterMs:  carry.RetryAfterMs,
		CarryState:    carry,
	}
}

func groupByPhase(variants []models.QueryVariant) map[models.Phase][]models.QueryVariant {
	out := make(map[models.Phase][]models.QueryVariant)
	for _, v := range variants {
		out[v.Phase] = append(out[v.Phase], v)
	}
	return out
}
