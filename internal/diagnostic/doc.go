// Package diagnostic provides structured errors, warnings and infos produced
// while validating rule declarations and while executing enrichment passes.
//
// Execution never aborts on a failing data source or a failing write; those
// failures are recorded here (and logged) so callers can inspect what was
// left unfilled.
package diagnostic
