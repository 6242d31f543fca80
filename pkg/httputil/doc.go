// Package httputil provides retry helpers for upstream HTTP clients.
//
// # Retry
//
// [Retry] re-runs an operation that failed with a transient error:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Callers decide what is transient by wrapping the error with [Retryable];
// every other error is returned immediately. The delay doubles after each
// failed attempt:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// # Configuration
//
// Default settings used by [RetryWithBackoff]:
//
//   - Max attempts: 3
//   - Base backoff: 1 second
package httputil
