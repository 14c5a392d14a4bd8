// Package timings derives stimulus timing sequences for the free-running
// blocks of a cardio-audio experiment.
//
// The experiment alternates between blocks locked to a physiological signal
// (synchronous: one sound per detected heartbeat) and free-running blocks
// (asynchronous, isochronous). A free-running block must keep the statistical
// texture of the preceding synchronous block without replaying its literal
// rhythm, so its timings are synthesized from the synchronous block's
// inter-beat intervals.
//
// PIPELINE:
//
// Generation runs four stages in strict sequence:
//
//  1. Interval extraction - consecutive differences of the reference
//     timestamps (Intervals).
//  2. Outlier rejection - iterative z-score filtering of the intervals
//     (stats.FindOutliers), removing detection glitches such as missed or
//     doubled beats.
//  3. Validity gate - the fraction of intervals that survived is compared
//     against a minimum percentage. Failing the gate does NOT abort
//     generation; it only marks the result as low-confidence and logs a
//     warning.
//  4. Synthesis - a new interval sequence of equal length is drawn with
//     replacement from the surviving intervals and accumulated into
//     absolute timestamps starting at 0.
//
// The only hard failure after argument validation is an empty surviving
// set: with nothing to sample from, Generate returns an empty Result
// instead of a sequence. Callers must check Result.Empty before using
// Result.Timings.
//
// DETERMINISM:
//
// Stages 1-3 are fully deterministic. Stage 4 draws from a rand.Rand that
// callers can inject with WithRand; tests and reproducible sessions pass a
// fixed-seed source, production callers may omit it and share the global
// one.
package timings
