// Package sema checks a parsed ast.Module for the safety properties
// spec.md §5 requires before lowering to the data-flow IR: every clause
// variable is range-restricted, every functor invocation's bound
// parameters are satisfied by the time it runs, and negation never closes
// over a recursive or impure-functor-reachable dependency cycle
// (stratification). Checks accumulate into a diag.Log rather than
// stopping at the first violation, matching internal/parser's posture.
package sema
