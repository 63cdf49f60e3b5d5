// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max attempts,
// initial delay, and maximum delay. Provider API calls use it to absorb rate
// limiting and eventual-consistency lag. Errors wrapped with [Fatal] short
// circuit the retry loop.
package retry
