// Package lexer turns a source display into a lazy sequence of
// internal/token.Token values. It never aborts on bad input: invalid
// characters, unterminated strings, and malformed numbers become special
// error-kind tokens (token.Kind.IsError) so the parser can keep scanning
// and report more than one diagnostic per run, per spec.md §7's
// "maximise diagnostic yield" propagation policy.
package lexer
