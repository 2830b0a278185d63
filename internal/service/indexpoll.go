package service

import (
	"context"
	"time"

	"concierge-be/internal/pkg/logger"
	"concierge-be/pkg/backboard"
)

// PollState is the terminal state of an indexing wait.
type PollState int

const (
	PollStatePolling PollState = iota
	PollStateConverged
	PollStateTimedOut
)

func (s PollState) String() string {
	switch s {
	case PollStateConverged:
		return "converged"
	case PollStateTimedOut:
		return "timed_out"
	default:
		return "polling"
	}
}

// DocumentStatusSource reports document indexing status. Satisfied by
// *backboard.Client; tests substitute a fake.
type DocumentStatusSource interface {
	ListDocuments(ctx context.Context, assistantID string) ([]backboard.Document, error)
}

type PollResult struct {
	State    PollState
	Indexed  int
	Total    int
	Attempts int
}

// IndexPoller waits for an assistant's uploaded documents to finish
// indexing. The wait is bounded: after maxAttempts checks it gives up
// with PollStateTimedOut rather than holding provisioning open forever.
// A timeout is not an error condition; the assistant is usable, some
// answers just lack document context until indexing catches up.
type IndexPoller struct {
	source      DocumentStatusSource
	clock       Clock
	interval    time.Duration
	maxAttempts int
	logger      logger.ILogger
}

func NewIndexPoller(source DocumentStatusSource, clock Clock, interval time.Duration, maxAttempts int, log logger.ILogger) *IndexPoller {
	return &IndexPoller{
		source:      source,
		clock:       clock,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      log,
	}
}

// Wait polls until at least expected documents are indexed, the attempt
// budget runs out, or ctx is cancelled. Listing errors consume an
// attempt and the loop keeps going; the provider is often briefly
// unavailable right after a burst of uploads. onProgress fires after
// every successful status check.
func (p *IndexPoller) Wait(ctx context.Context, assistantID string, expected int, onProgress func(indexed, total int)) PollResult {
	result := PollResult{State: PollStatePolling, Total: expected}
	if expected <= 0 {
		result.State = PollStateConverged
		return result
	}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		p.clock.Sleep(ctx, p.interval)
		if ctx.Err() != nil {
			result.Attempts = attempt
			result.State = PollStateTimedOut
			return result
		}

		docs, err := p.source.ListDocuments(ctx, assistantID)
		result.Attempts = attempt
		if err != nil {
			p.logger.Warn("IndexPoller", "Status check failed", map[string]interface{}{
				"assistant_id": assistantID,
				"attempt":      attempt,
				"error":        err.Error(),
			})
			continue
		}

		indexed := 0
		for _, doc := range docs {
			if doc.Status == backboard.StatusIndexed {
				indexed++
			}
		}
		result.Indexed = indexed

		if onProgress != nil {
			onProgress(indexed, expected)
		}

		if indexed >= expected {
			result.State = PollStateConverged
			return result
		}
	}

	result.State = PollStateTimedOut
	return result
}
