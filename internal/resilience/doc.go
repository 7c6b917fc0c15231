// Package resilience provides the fault tolerance used around remote calls:
// summarization providers and document downloads.
//
// The package supports:
//   - Circuit breakers that reject calls while a dependency keeps failing
//   - Retry logic with exponential backoff and jitter (off by default)
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("openai"))
//	text, err := circuitbreaker.Do(cb, func() (string, error) {
//	    return completer.Complete(ctx, req)
//	})
//
//	err = retry.WithBackoff(ctx, retry.AIAPIConfig(3, 2*time.Second), func() error {
//	    return performOperation()
//	})
package resilience
