package core

import "github.com/leapstack-labs/psyrepl/pkg/token"

// ---------- Expression Types ----------

// Variable represents $name, $$expr or ${expr}.
type Variable struct {
	NodeInfo
	Name     string // literal name without $, empty when NameExpr is set
	NameExpr Expr   // computed name for variable variables
	Braced   bool   // ${expr}
}

func (*Variable) exprNode() {}

// IsLiteral reports whether the variable name is spelled out in source.
func (v *Variable) IsLiteral() bool { return v.NameExpr == nil }

// ConstFetch represents a constant reference such as true, PHP_EOL or \Foo\BAR.
type ConstFetch struct {
	NodeInfo
	Name *Name
}

func (*ConstFetch) exprNode() {}

// IntLit represents an integer literal, kept verbatim.
type IntLit struct {
	NodeInfo
	Raw string
}

func (*IntLit) exprNode() {}

// FloatLit represents a floating point literal, kept verbatim.
type FloatLit struct {
	NodeInfo
	Raw string
}

func (*FloatLit) exprNode() {}

// StringLit represents a string literal without interpolation: single
// quoted, plain double quoted or nowdoc. Raw includes the delimiters.
type StringLit struct {
	NodeInfo
	Raw string
}

func (*StringLit) exprNode() {}

// InterpolatedString represents a double quoted string or heredoc that
// embeds variables. Raw includes the delimiters and is printed as is;
// Parts holds the embedded "$name" variables and the parsed "{$...}" and
// "${...}" expressions in source order.
type InterpolatedString struct {
	NodeInfo
	Raw   string
	Parts []Expr
}

func (*InterpolatedString) exprNode() {}

// ArrayItem is one element of an array literal or list() destructuring.
// Value is nil for a skipped list() slot.
type ArrayItem struct {
	NodeInfo
	Key    Expr
	Value  Expr
	ByRef  bool
	Unpack bool
}

// ArrayLit represents array(...) or [...].
type ArrayLit struct {
	NodeInfo
	Items []*ArrayItem
	Short bool
}

func (*ArrayLit) exprNode() {}

// ListExpr represents list(...) on the left of an assignment.
type ListExpr struct {
	NodeInfo
	Items []*ArrayItem
}

func (*ListExpr) exprNode() {}

// Arg is a call argument.
type Arg struct {
	NodeInfo
	Value  Expr
	Unpack bool
}

// FuncCall represents a function call. Exactly one of Name (a literal
// callee) and Callee (a computed callee such as $fn or a closure) is set.
type FuncCall struct {
	NodeInfo
	Name   *Name
	Callee Expr
	Args   []*Arg
}

func (*FuncCall) exprNode() {}

// IsStatic reports whether the callee is a name literal.
func (c *FuncCall) IsStatic() bool { return c.Name != nil }

// MethodCall represents $obj->name(...) or $obj?->name(...).
type MethodCall struct {
	NodeInfo
	Var      Expr
	Name     string
	NameExpr Expr
	Args     []*Arg
	NullSafe bool
}

func (*MethodCall) exprNode() {}

// PropertyFetch represents $obj->name or $obj?->name.
type PropertyFetch struct {
	NodeInfo
	Var      Expr
	Name     string
	NameExpr Expr
	NullSafe bool
}

func (*PropertyFetch) exprNode() {}

// StaticCall represents Class::name(...).
type StaticCall struct {
	NodeInfo
	Class     *Name
	ClassExpr Expr
	Name      string
	NameExpr  Expr
	Args      []*Arg
}

func (*StaticCall) exprNode() {}

// StaticPropertyFetch represents Class::$name.
type StaticPropertyFetch struct {
	NodeInfo
	Class     *Name
	ClassExpr Expr
	Name      string // without the leading $
}

func (*StaticPropertyFetch) exprNode() {}

// ClassConstFetch represents Class::NAME and Class::class.
type ClassConstFetch struct {
	NodeInfo
	Class     *Name
	ClassExpr Expr
	Name      string
}

func (*ClassConstFetch) exprNode() {}

// ArrayDimFetch represents $a[dim] and, with a nil Dim, $a[].
type ArrayDimFetch struct {
	NodeInfo
	Var Expr
	Dim Expr
}

func (*ArrayDimFetch) exprNode() {}

// New represents new Class(...) and new $class(...) instantiations, and
// anonymous classes, where Anon holds the class body.
type New struct {
	NodeInfo
	Class     *Name
	ClassExpr Expr
	Anon      *ClassDecl
	Args      []*Arg
	HasArgs   bool
}

func (*New) exprNode() {}

// ClosureUse is one variable imported by a closure's use clause.
type ClosureUse struct {
	NodeInfo
	Var   *Variable
	ByRef bool
}

// Closure represents an anonymous function.
type Closure struct {
	NodeInfo
	Static     bool
	ByRef      bool
	Params     []*Param
	Uses       []*ClosureUse
	ReturnType *TypeRef
	Body       []Stmt
}

func (*Closure) exprNode() {}

// ArrowFunc represents fn (params) => expr.
type ArrowFunc struct {
	NodeInfo
	Static     bool
	ByRef      bool
	Params     []*Param
	ReturnType *TypeRef
	Expr       Expr
}

func (*ArrowFunc) exprNode() {}

// MatchArm is one arm of a match expression. Conds is nil for default.
type MatchArm struct {
	NodeInfo
	Conds []Expr
	Body  Expr
}

// Match represents match (cond) { arms }.
type Match struct {
	NodeInfo
	Cond Expr
	Arms []*MatchArm
}

func (*Match) exprNode() {}

// Yield represents yield, yield value and yield key => value.
type Yield struct {
	NodeInfo
	Key   Expr
	Value Expr
}

func (*Yield) exprNode() {}

// YieldFrom represents yield from expr.
type YieldFrom struct {
	NodeInfo
	X Expr
}

func (*YieldFrom) exprNode() {}

// Include represents include, include_once, require and require_once.
type Include struct {
	NodeInfo
	Kind token.TokenType
	X    Expr
}

func (*Include) exprNode() {}

// ShellExec represents a backtick command. Raw includes the backticks;
// Parts holds what it embeds, as for InterpolatedString.
type ShellExec struct {
	NodeInfo
	Raw   string
	Parts []Expr
}

func (*ShellExec) exprNode() {}

// Unary represents a prefix operator: ! - + ~ @.
type Unary struct {
	NodeInfo
	Op token.TokenType
	X  Expr
}

func (*Unary) exprNode() {}

// IncDec represents ++ and -- in prefix or postfix position.
type IncDec struct {
	NodeInfo
	Op     token.TokenType
	Prefix bool
	X      Expr
}

func (*IncDec) exprNode() {}

// Binary represents a binary operation, including the word operators
// and, or and xor.
type Binary struct {
	NodeInfo
	X  Expr
	Op token.TokenType
	Y  Expr
}

func (*Binary) exprNode() {}

// Instanceof represents $x instanceof Class.
type Instanceof struct {
	NodeInfo
	X         Expr
	Class     *Name
	ClassExpr Expr
}

func (*Instanceof) exprNode() {}

// Assign represents plain, compound and by-reference assignment.
type Assign struct {
	NodeInfo
	Target Expr
	Op     token.TokenType
	Value  Expr
	ByRef  bool
}

func (*Assign) exprNode() {}

// Ternary represents cond ? then : else; Then is nil for cond ?: else.
type Ternary struct {
	NodeInfo
	Cond Expr
	Then Expr
	Else Expr
}

func (*Ternary) exprNode() {}

// Cast represents (type) expr. Type is the lowercase cast keyword.
type Cast struct {
	NodeInfo
	Type string
	X    Expr
}

func (*Cast) exprNode() {}

// Isset represents isset(...).
type Isset struct {
	NodeInfo
	Vars []Expr
}

func (*Isset) exprNode() {}

// Empty represents empty(...).
type Empty struct {
	NodeInfo
	X Expr
}

func (*Empty) exprNode() {}

// Exit represents exit and die, with or without an argument.
type Exit struct {
	NodeInfo
	Keyword   string
	X         Expr
	HasParens bool
}

func (*Exit) exprNode() {}

// Print represents print expr.
type Print struct {
	NodeInfo
	X Expr
}

func (*Print) exprNode() {}

// Clone represents clone expr.
type Clone struct {
	NodeInfo
	X Expr
}

func (*Clone) exprNode() {}

// ParenExpr represents a parenthesised expression.
type ParenExpr struct {
	NodeInfo
	X Expr
}

func (*ParenExpr) exprNode() {}
