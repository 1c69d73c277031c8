// Package core defines the syntax tree shared by the psyrepl pipeline.
//
// This package contains:
//   - The closed set of statement and expression nodes (Stmt, Expr)
//   - Literal names (Name) and declarations (Param, TypeRef)
//   - The parsed File root
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// The parser builds these nodes, the validator and transformer inspect them
// with type switches, and the printer turns them back into source.
package core
