// Package fallback implements a multi-provider completion fallback strategy.
// It tries providers in a configurable order until one succeeds, classifying
// each failure to decide whether the chain continues, and reports the full
// attempt trail to the caller.
//
// # Ordering
//
// Three modes control the order providers are tried in:
//
//   - sequential: the configured list order, starting at the first provider
//     on every execution
//   - round_robin: the configured order rotated by a cursor that advances
//     once per execution, spreading load across repeated calls
//   - priority: identical to sequential; the configured order is the
//     priority order
//
// # Error classification
//
// Each failed invocation is classified into one closed category set:
// authentication, rate_limit, timeout, provider_error, or unknown.
// Whether a category permits falling through to the next provider is
// controlled by Config.RetryOn. Authentication and unknown failures always
// halt the chain. Providers that report themselves unavailable are skipped
// without classification and the chain always continues past them.
//
// # Timeouts
//
// Config.TimeoutPerProviderMS bounds each individual invocation.
// ExecuteWithTimeout layers a single whole-chain deadline above that,
// cancelling everything that remains when it fires.
//
// # Results
//
// Execute never surfaces individual provider errors; it returns a
// FallbackResult holding the ordered attempt records and the final outcome.
// The only error callers see is the whole-chain timeout from
// ExecuteWithTimeout.
package fallback
