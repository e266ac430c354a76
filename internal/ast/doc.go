// Package ast defines ParsedModule, the root of the parser's output: a
// graph of cross-linked declarations, clauses, variables, predicate uses,
// comparisons, assignments, aggregates, foreign types/constants, and
// inline code blocks. internal/parser builds these; internal/sema and
// internal/sips consume them; internal/queryir lowers clause bodies chosen
// by a SIPS permutation into the data-flow IR.
package ast
