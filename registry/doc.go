// Package registry implements the capability registry: a process-wide,
// concurrency-safe store of invocable tools partitioned into always-on core
// tools and togglable optional groups, indexed by category.
//
// The registry is an explicit instance owned by the host and passed by
// reference to consumers; there is no package-level singleton and no
// import-time side effects.
package registry
