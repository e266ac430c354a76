// Package token defines the lexical tokens produced by internal/lexer and
// consumed by internal/parser: source positions, lexeme kinds, and the
// process-wide string pool used for identifier and string interning.
//
// Key design constraints:
//   - DisplayPosition is an immutable value packed for cheap copying.
//   - The string pool lives for the lifetime of the compiler process; it is
//     never freed piecewise.
package token
