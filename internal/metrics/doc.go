// Package metrics holds per-run scalar summaries fed one tick at a time by
// the harness. Every metric implements dynamo.Metric.
package metrics
