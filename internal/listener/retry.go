package listener

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrMaxRetriesExceeded is returned by fetchLogsWithRetry once a filter
// has been rate-limited maxRetries times in a row (spec.md §4.1's
// MaxRetriesExceeded tick failure).
type ErrMaxRetriesExceeded struct {
	Attempts int
}

func (e *ErrMaxRetriesExceeded) Error() string {
	return fmt.Sprintf("listener: rate limited after %d attempts", e.Attempts)
}

// isRateLimited classifies an RPC error per spec.md §4.1: HTTP 429,
// JSON-RPC -32005, or one of a handful of provider rate-limit phrasings.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") ||
		strings.Contains(s, "-32005") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests") ||
		strings.Contains(s, "limit exceeded")
}

// LogFetcher is the subset of ethclient.Client a tick needs, narrowed so
// a fake can stand in for tests without a live RPC endpoint.
type LogFetcher interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// fetchLogsWithRetry requests logs for query, retrying rate-limited
// errors with an exponential backoff of baseDelay*2^attempt up to
// maxRetries attempts; any other error surfaces immediately. A
// successful fetch sleeps baseDelay once more before returning as a
// politeness floor; a failed fetch returns without that extra sleep.
func fetchLogsWithRetry(ctx context.Context, client LogFetcher, query ethereum.FilterQuery, baseDelay time.Duration, maxRetries int) ([]types.Log, error) {
	var logs []types.Log
	attempts := 0

	op := func() error {
		attempts++
		res, err := client.FilterLogs(ctx, query)
		if err == nil {
			logs = res
			return nil
		}
		if !isRateLimited(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = baseDelay
	expBackoff.Multiplier = 2
	expBackoff.RandomizationFactor = 0
	expBackoff.MaxElapsedTime = 0
	expBackoff.MaxInterval = 24 * time.Hour // never cap the doubling ourselves; maxRetries bounds attempts instead

	// WithMaxRetries counts retries after the first call, so maxRetries
	// attempts in all means maxRetries-1 retries.
	retries := uint64(0)
	if maxRetries > 1 {
		retries = uint64(maxRetries - 1)
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(expBackoff, retries), ctx)

	if err := backoff.Retry(op, bo); err != nil {
		if isRateLimited(err) {
			return nil, &ErrMaxRetriesExceeded{Attempts: attempts}
		}
		return nil, err
	}

	if err := sleepCtx(ctx, baseDelay); err != nil {
		return nil, err
	}
	return logs, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
