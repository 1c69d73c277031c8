package core

import (
	"strings"

	"github.com/leapstack-labs/psyrepl/pkg/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode() // Marker method to distinguish expressions
}

// Stmt is a marker interface for statement nodes.
type Stmt interface {
	Node
	stmtNode() // Marker method to distinguish statements
}

// NodeInfo carries the start position shared by every node.
type NodeInfo struct {
	Position token.Position
}

// Pos implements Node.
func (n NodeInfo) Pos() token.Position { return n.Position }

// Line returns the 1-based source line of the node.
func (n NodeInfo) Line() int { return n.Position.Line }

// At returns a NodeInfo for the given position.
func At(pos token.Position) NodeInfo {
	return NodeInfo{Position: pos}
}

// File is the root of a parsed source buffer.
type File struct {
	Stmts    []Stmt
	Comments []*token.Comment
}

// ---------- Names ----------

// NameKind distinguishes how a name was qualified in source.
type NameKind int

// NameKind constants.
const (
	NameNormal         NameKind = iota // foo, Foo\bar
	NameFullyQualified                 // \Foo\bar
	NameRelative                       // namespace\foo
)

// Name is a literal, possibly namespaced, identifier such as a function,
// class or constant name. It is not an expression on its own.
type Name struct {
	NodeInfo
	Parts []string
	Kind  NameKind
}

// Join returns the parts joined with the namespace separator, without any
// leading qualifier.
func (n *Name) Join() string {
	return strings.Join(n.Parts, `\`)
}

// String returns the name as written in source.
func (n *Name) String() string {
	switch n.Kind {
	case NameFullyQualified:
		return `\` + n.Join()
	case NameRelative:
		return `namespace\` + n.Join()
	default:
		return n.Join()
	}
}

// Last returns the final segment of the name.
func (n *Name) Last() string {
	if len(n.Parts) == 0 {
		return ""
	}
	return n.Parts[len(n.Parts)-1]
}

// TypeRef is a parameter or return type declaration.
type TypeRef struct {
	NodeInfo
	Nullable bool
	Name     *Name
}

// Param is a function, method or closure parameter. Modifiers are set on
// promoted constructor parameters.
type Param struct {
	NodeInfo
	Modifiers []string
	Type      *TypeRef
	ByRef     bool
	Variadic  bool
	Name      string // without the leading $
	Default   Expr
}
