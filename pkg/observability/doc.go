/*
Package observability turns actor lifecycle events into Prometheus metrics
and structured log records.

Both are exposed as domain.LifecycleHooks so they can be combined with Chain
and passed to an actor with WithLifecycleHooks.
*/
package observability
