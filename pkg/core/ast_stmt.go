package core

// ---------- Statement Types ----------

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	NodeInfo
	X Expr
}

func (*ExprStmt) stmtNode() {}

// EchoStmt represents echo a, b;.
type EchoStmt struct {
	NodeInfo
	Exprs []Expr
}

func (*EchoStmt) stmtNode() {}

// ReturnStmt represents return [expr];.
type ReturnStmt struct {
	NodeInfo
	Result Expr
}

func (*ReturnStmt) stmtNode() {}

// ElseIf is one elseif branch of an IfStmt.
type ElseIf struct {
	NodeInfo
	Cond Expr
	Body []Stmt
}

// IfStmt represents if/elseif/else.
type IfStmt struct {
	NodeInfo
	Cond    Expr
	Then    []Stmt
	ElseIfs []*ElseIf
	Else    []Stmt
	HasElse bool
}

func (*IfStmt) stmtNode() {}

// WhileStmt represents while (cond) body.
type WhileStmt struct {
	NodeInfo
	Cond Expr
	Body []Stmt
}

func (*WhileStmt) stmtNode() {}

// DoWhileStmt represents do body while (cond);.
type DoWhileStmt struct {
	NodeInfo
	Body []Stmt
	Cond Expr
}

func (*DoWhileStmt) stmtNode() {}

// ForStmt represents for (init; cond; loop) body.
type ForStmt struct {
	NodeInfo
	Init []Expr
	Cond []Expr
	Loop []Expr
	Body []Stmt
}

func (*ForStmt) stmtNode() {}

// ForeachStmt represents foreach (x as [key =>] [&]value) body.
type ForeachStmt struct {
	NodeInfo
	X     Expr
	Key   Expr
	Value Expr
	ByRef bool
	Body  []Stmt
}

func (*ForeachStmt) stmtNode() {}

// Case is one case (or default, when Cond is nil) of a switch.
type Case struct {
	NodeInfo
	Cond Expr
	Body []Stmt
}

// SwitchStmt represents switch (cond) { cases }.
type SwitchStmt struct {
	NodeInfo
	Cond  Expr
	Cases []*Case
}

func (*SwitchStmt) stmtNode() {}

// BreakStmt represents break [n];.
type BreakStmt struct {
	NodeInfo
	Num Expr
}

func (*BreakStmt) stmtNode() {}

// ContinueStmt represents continue [n];.
type ContinueStmt struct {
	NodeInfo
	Num Expr
}

func (*ContinueStmt) stmtNode() {}

// FuncDecl represents a named function declaration.
type FuncDecl struct {
	NodeInfo
	Name       string
	ByRef      bool
	Params     []*Param
	ReturnType *TypeRef
	Body       []Stmt
}

func (*FuncDecl) stmtNode() {}

// ClassKind distinguishes the class-like declarations.
type ClassKind int

// ClassKind constants.
const (
	KindClass ClassKind = iota
	KindInterface
	KindTrait
	KindEnum
)

func (k ClassKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindTrait:
		return "trait"
	case KindEnum:
		return "enum"
	default:
		return "class"
	}
}

// ClassDecl represents a class, interface, trait or enum declaration.
// An interface lists its parents in Implements, since it may extend
// several. Name is empty for an anonymous class.
type ClassDecl struct {
	NodeInfo
	Kind        ClassKind
	Name        string
	Abstract    bool
	Final       bool
	Extends     *Name
	Implements  []*Name
	BackingType *TypeRef // enum Suit: string
	Members     []Stmt
}

func (*ClassDecl) stmtNode() {}

// ConstElem is one NAME = value pair of a const declaration.
type ConstElem struct {
	NodeInfo
	Name  string
	Value Expr
}

// ClassConstDecl represents a const declaration inside a class body.
type ClassConstDecl struct {
	NodeInfo
	Modifiers []string
	Consts    []*ConstElem
}

func (*ClassConstDecl) stmtNode() {}

// PropertyElem is one $name [= default] of a property declaration.
type PropertyElem struct {
	NodeInfo
	Name    string // without the leading $
	Default Expr
}

// PropertyDecl represents a property declaration inside a class body.
type PropertyDecl struct {
	NodeInfo
	Modifiers []string
	Type      *TypeRef
	Props     []*PropertyElem
}

func (*PropertyDecl) stmtNode() {}

// MethodDecl represents a method inside a class body. Body is nil for
// abstract methods.
type MethodDecl struct {
	NodeInfo
	Modifiers  []string
	Name       string
	ByRef      bool
	Params     []*Param
	ReturnType *TypeRef
	Body       []Stmt
}

func (*MethodDecl) stmtNode() {}

// IsAbstract reports whether the method has no body.
func (m *MethodDecl) IsAbstract() bool { return m.Body == nil }

// TraitUse represents use A, B; inside a class body.
type TraitUse struct {
	NodeInfo
	Traits []*Name
}

func (*TraitUse) stmtNode() {}

// EnumCase represents case NAME [= value]; inside an enum.
type EnumCase struct {
	NodeInfo
	Name  string
	Value Expr
}

func (*EnumCase) stmtNode() {}

// ConstStmt represents a top-level const declaration.
type ConstStmt struct {
	NodeInfo
	Consts []*ConstElem
}

func (*ConstStmt) stmtNode() {}

// NamespaceStmt represents namespace Name; or namespace [Name] { ... }.
// For the semicolon form, Stmts holds the statements up to the next
// namespace declaration.
type NamespaceStmt struct {
	NodeInfo
	Name   *Name
	Stmts  []Stmt
	Braced bool
}

func (*NamespaceStmt) stmtNode() {}

// UseClause is one imported name of a use statement.
type UseClause struct {
	NodeInfo
	Name  *Name
	Alias string
}

// UseStmt represents use [function|const] A\B [as C], ...;.
type UseStmt struct {
	NodeInfo
	Kind string // "", "function" or "const"
	Uses []*UseClause
}

func (*UseStmt) stmtNode() {}

// GlobalStmt represents global $a, $b;.
type GlobalStmt struct {
	NodeInfo
	Vars []Expr
}

func (*GlobalStmt) stmtNode() {}

// StaticVar is one variable of a static declaration.
type StaticVar struct {
	NodeInfo
	Var     *Variable
	Default Expr
}

// StaticStmt represents static $a = 1, $b;.
type StaticStmt struct {
	NodeInfo
	Vars []*StaticVar
}

func (*StaticStmt) stmtNode() {}

// UnsetStmt represents unset($a, $b);.
type UnsetStmt struct {
	NodeInfo
	Vars []Expr
}

func (*UnsetStmt) stmtNode() {}

// ThrowStmt represents throw expr;.
type ThrowStmt struct {
	NodeInfo
	X Expr
}

func (*ThrowStmt) stmtNode() {}

// Catch is one catch clause of a try statement.
type Catch struct {
	NodeInfo
	Types []*Name
	Var   *Variable
	Body  []Stmt
}

// TryStmt represents try/catch/finally.
type TryStmt struct {
	NodeInfo
	Body       []Stmt
	Catches    []*Catch
	Finally    []Stmt
	HasFinally bool
}

func (*TryStmt) stmtNode() {}

// BlockStmt represents a bare { ... } block.
type BlockStmt struct {
	NodeInfo
	Stmts []Stmt
}

func (*BlockStmt) stmtNode() {}

// DeclareStmt represents declare(name=value, ...) followed by ; or a
// block.
type DeclareStmt struct {
	NodeInfo
	Directives []*ConstElem
	Body       []Stmt
	HasBody    bool
}

func (*DeclareStmt) stmtNode() {}

// GotoStmt represents goto label;.
type GotoStmt struct {
	NodeInfo
	Label string
}

func (*GotoStmt) stmtNode() {}

// LabelStmt represents a goto target, label:.
type LabelStmt struct {
	NodeInfo
	Name string
}

func (*LabelStmt) stmtNode() {}
