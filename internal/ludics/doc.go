// Package ludics is the umbrella for the dialogue-game interaction engine
// core logic, based on Girard's ludics as used for dialectical argumentation.
//
// The package is organized into pure domain subpackages:
//   - locus: the dot-path algebra of the justification tree, including
//     first-fit child allocation for exponential copying and named
//     instantiation.
//   - act: the atomic game moves, a sum type over polarized PROPER acts and
//     the terminating DAIMON.
//   - design: one participant's ordered act sequence with append legality
//     (alternation, locus opening), delocation, and concession.
//   - interaction: the fixed-point stepper that drives a positive and a
//     negative design to one of four verdicts, plus the static composition
//     preflight.
//   - chronicle: post-hoc extraction of the decisive act-pair chain from a
//     completed trace.
//   - commitment: per-owner fact/rule sets with locus-scoped inheritance,
//     bounded rule-firing closure, and contradiction detection.
//
// None of these subpackages touch storage; persistence lives behind the
// interfaces in internal/storage and is wired in internal/engine.
package ludics
