// Package parser turns a flat token stream into an ast.Module: one
// recursive-descent pass over declarations, clauses, and directives, with
// the same error-recoverable posture as internal/lexer — a malformed
// declaration or clause is logged and skipped up to the next statement
// terminator ('.') rather than aborting the parse.
package parser
