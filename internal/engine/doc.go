// Package engine is a finite-domain constraint propagation and search
// library. It models a constraint satisfaction problem as a Model of
// Vars over bitset Domains linked by Propagators, and solves it with a
// depth-first search that maintains arc consistency via fixed-point
// propagation between choice points.
//
// Domains in this engine are always 1-indexed ranges [1, MaxValue]; a
// value of 0 never appears in a domain. Callers that need to represent
// zero or negative quantities offset their values before creating a
// Var and undo the offset when reading a solution back (see
// internal/cpmodel, which hides this from the rest of the repository).
package engine
