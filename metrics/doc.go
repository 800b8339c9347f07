// Package metrics derives dashboard and report figures from goal and
// journal collections.
//
// Every function is pure and total: nil or empty inputs yield zero values,
// and missing optional timestamps simply match no bucket. Task completion,
// never the stored goal status alone, decides whether a goal is done.
package metrics
