/*
Package metrics exposes Prometheus metrics for the snapfriend daemon.

Metrics are package-level collectors registered at init time. The daemon
serves them over HTTP when metrics_addr is configured:

	curl -s http://127.0.0.1:9321/metrics | grep snapfriend_

# Metrics

  - snapfriend_connections_total: accepted client connections
  - snapfriend_connection_errors_total{kind}: timeouts, transport errors,
    unexpected input, catalog failures
  - snapfriend_requests_total{outcome}: mount requests, outcome success or
    failure
  - snapfriend_request_duration_seconds: clone+mount sequence latency
  - snapfriend_snapshots_created_total: snapshots created via lvcreate
  - snapfriend_default_fallbacks_total: requests served from the default
    volume because no find group matched
  - snapfriend_catalog_reads_total{outcome}: lvs invocations

The wire protocol itself carries no success/failure status, so these
counters are the operator's primary signal that mounts are failing.
*/
package metrics
