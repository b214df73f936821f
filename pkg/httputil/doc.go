// Package httputil provides the HTTP plumbing shared by the outbound
// clients: the text-understanding service and the engine bridge.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff, but only for
// errors wrapped in [RetryableError]. Clients mark timeouts, 5xx and 429
// responses as retryable and let everything else fail fast.
//
// # Caching
//
// [Cache] stores JSON-marshalable values on disk under SHA-256 hashed
// keys, with a TTL tracked through file modification times. The describe
// client uses it to avoid re-querying the language model for a prompt it
// has already translated.
package httputil
