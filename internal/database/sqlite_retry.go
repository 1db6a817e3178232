package database

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"strings"
	"time"
)

const (
	maxRetries = 100
	baseDelay  = 10 * time.Millisecond
	maxDelay   = 25 * time.Millisecond
)

// isRetryableError reports SQLite busy and lock errors
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "busy") || strings.Contains(errStr, "locked")
}

// backoff sleeps for the attempt's delay plus up to 50% jitter.
// It returns ctx.Err() early when ctx is done.
func backoff(ctx context.Context, attempt int) error {
	delay := time.Duration(attempt+1) * baseDelay
	if delay > maxDelay {
		delay = maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay) / 2))

	timer := time.NewTimer(delay + jitter)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// withRetry runs fn until it returns a non-retryable error or maxRetries is reached
func withRetry(ctx context.Context, what string, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = fn()
		if !isRetryableError(err) {
			return err
		}
		if attempt == maxRetries-1 {
			break
		}
		log.Printf("[DB] [WARN] SQLite retry attempt %d/%d for %s: %v", attempt+1, maxRetries, what, err)
		if berr := backoff(ctx, attempt); berr != nil {
			return berr
		}
	}
	return err
}

func retryableExecContext(ctx context.Context, db *sql.DB, query string, args ...interface{}) (result sql.Result, err error) {
	err = withRetry(ctx, truncateString(query, 50), func() error {
		result, err = db.ExecContext(ctx, query, args...)
		return err
	})
	return result, err
}

func retryableQueryContext(ctx context.Context, db *sql.DB, query string, args ...interface{}) (rows *sql.Rows, err error) {
	err = withRetry(ctx, truncateString(query, 50), func() error {
		rows, err = db.QueryContext(ctx, query, args...)
		return err
	})
	return rows, err
}

func retryableQueryRowScanContext(ctx context.Context, db *sql.DB, query string, args []interface{}, dest ...interface{}) error {
	return withRetry(ctx, truncateString(query, 50), func() error {
		return db.QueryRowContext(ctx, query, args...).Scan(dest...)
	})
}

func retryableQuery(db *sql.DB, query string, args ...interface{}) (*sql.Rows, error) {
	return retryableQueryContext(context.Background(), db, query, args...)
}

// retryableTransactionExec runs txFunc in a transaction and retries the whole
// transaction on lock errors. txFunc must be safe to call more than once.
func retryableTransactionExec(db *sql.DB, txFunc func(*sql.Tx) error) error {
	ctx := context.Background()
	return withRetry(ctx, "transaction", func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := txFunc(tx); err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				log.Printf("[DB] rollback failed: %v", rerr)
			}
			return err
		}
		return tx.Commit()
	})
}

func truncateString(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length]
}
