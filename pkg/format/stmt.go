package format

import (
	"strings"

	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/token"
)

// formatStmtList prints statements on consecutive lines.
func (p *Printer) formatStmtList(stmts []core.Stmt) {
	for i, stmt := range stmts {
		if i > 0 {
			p.writeln()
		}
		p.formatStmt(stmt)
	}
}

// formatBlock prints { statements } with the body indented.
func (p *Printer) formatBlock(stmts []core.Stmt) {
	p.write("{")
	p.writeln()
	p.indent()
	for _, stmt := range stmts {
		p.formatStmt(stmt)
		p.writeln()
	}
	p.dedent()
	p.write("}")
}

func (p *Printer) formatStmt(stmt core.Stmt) {
	switch s := stmt.(type) {
	case *core.ExprStmt:
		p.formatExpr(s.X)
		p.write(";")
	case *core.EchoStmt:
		p.write("echo ")
		p.formatExprList(s.Exprs)
		p.write(";")
	case *core.ReturnStmt:
		p.kw(token.RETURN)
		if s.Result != nil {
			p.write(" ")
			p.formatExpr(s.Result)
		}
		p.write(";")
	case *core.IfStmt:
		p.formatIf(s)
	case *core.WhileStmt:
		p.write("while (")
		p.formatExpr(s.Cond)
		p.write(") ")
		p.formatBlock(s.Body)
	case *core.DoWhileStmt:
		p.write("do ")
		p.formatBlock(s.Body)
		p.write(" while (")
		p.formatExpr(s.Cond)
		p.write(");")
	case *core.ForStmt:
		p.formatFor(s)
	case *core.ForeachStmt:
		p.formatForeach(s)
	case *core.SwitchStmt:
		p.formatSwitch(s)
	case *core.BreakStmt:
		p.formatJump(token.BREAK, s.Num)
	case *core.ContinueStmt:
		p.formatJump(token.CONTINUE, s.Num)
	case *core.FuncDecl:
		p.write("function ")
		if s.ByRef {
			p.write("&")
		}
		p.write(s.Name)
		p.formatSignature(s.Params, s.ReturnType)
		p.write(" ")
		p.formatBlock(s.Body)
	case *core.ClassDecl:
		p.formatClass(s)
	case *core.ClassConstDecl:
		p.formatModifiers(s.Modifiers)
		p.write("const ")
		p.formatConstElems(s.Consts)
		p.write(";")
	case *core.PropertyDecl:
		p.formatModifiers(s.Modifiers)
		if s.Type != nil {
			p.formatType(s.Type)
			p.write(" ")
		}
		p.formatList(len(s.Props), func(i int) {
			prop := s.Props[i]
			p.write("$" + prop.Name)
			if prop.Default != nil {
				p.write(" = ")
				p.formatExpr(prop.Default)
			}
		}, ", ")
		p.write(";")
	case *core.MethodDecl:
		p.formatModifiers(s.Modifiers)
		p.write("function ")
		if s.ByRef {
			p.write("&")
		}
		p.write(s.Name)
		p.formatSignature(s.Params, s.ReturnType)
		if s.IsAbstract() {
			p.write(";")
			return
		}
		p.write(" ")
		p.formatBlock(s.Body)
	case *core.ConstStmt:
		p.write("const ")
		p.formatConstElems(s.Consts)
		p.write(";")
	case *core.NamespaceStmt:
		p.formatNamespace(s)
	case *core.UseStmt:
		p.write("use ")
		if s.Kind != "" {
			p.write(s.Kind + " ")
		}
		p.formatList(len(s.Uses), func(i int) {
			p.write(s.Uses[i].Name.String())
			if s.Uses[i].Alias != "" {
				p.write(" as " + s.Uses[i].Alias)
			}
		}, ", ")
		p.write(";")
	case *core.GlobalStmt:
		p.write("global ")
		p.formatExprList(s.Vars)
		p.write(";")
	case *core.StaticStmt:
		p.write("static ")
		p.formatList(len(s.Vars), func(i int) {
			p.formatExpr(s.Vars[i].Var)
			if s.Vars[i].Default != nil {
				p.write(" = ")
				p.formatExpr(s.Vars[i].Default)
			}
		}, ", ")
		p.write(";")
	case *core.UnsetStmt:
		p.write("unset(")
		p.formatExprList(s.Vars)
		p.write(");")
	case *core.ThrowStmt:
		p.write("throw ")
		p.formatExpr(s.X)
		p.write(";")
	case *core.TryStmt:
		p.formatTry(s)
	case *core.BlockStmt:
		p.formatBlock(s.Stmts)
	case *core.TraitUse:
		p.write("use ")
		p.formatList(len(s.Traits), func(i int) {
			p.write(s.Traits[i].String())
		}, ", ")
		p.write(";")
	case *core.EnumCase:
		p.write("case " + s.Name)
		if s.Value != nil {
			p.write(" = ")
			p.formatExpr(s.Value)
		}
		p.write(";")
	case *core.DeclareStmt:
		p.write("declare(")
		p.formatList(len(s.Directives), func(i int) {
			p.write(s.Directives[i].Name + "=")
			p.formatExpr(s.Directives[i].Value)
		}, ", ")
		p.write(")")
		if s.HasBody {
			p.write(" ")
			p.formatBlock(s.Body)
			return
		}
		p.write(";")
	case *core.GotoStmt:
		p.write("goto " + s.Label + ";")
	case *core.LabelStmt:
		p.write(s.Name + ":")
	}
}

func (p *Printer) formatIf(s *core.IfStmt) {
	p.write("if (")
	p.formatExpr(s.Cond)
	p.write(") ")
	p.formatBlock(s.Then)
	for _, elseIf := range s.ElseIfs {
		p.write(" elseif (")
		p.formatExpr(elseIf.Cond)
		p.write(") ")
		p.formatBlock(elseIf.Body)
	}
	if s.HasElse {
		p.write(" else ")
		p.formatBlock(s.Else)
	}
}

func (p *Printer) formatFor(s *core.ForStmt) {
	p.write("for (")
	p.formatExprList(s.Init)
	p.write(";")
	if len(s.Cond) > 0 {
		p.write(" ")
		p.formatExprList(s.Cond)
	}
	p.write(";")
	if len(s.Loop) > 0 {
		p.write(" ")
		p.formatExprList(s.Loop)
	}
	p.write(") ")
	p.formatBlock(s.Body)
}

func (p *Printer) formatForeach(s *core.ForeachStmt) {
	p.write("foreach (")
	p.formatExpr(s.X)
	p.write(" as ")
	if s.Key != nil {
		p.formatExpr(s.Key)
		p.write(" => ")
	}
	if s.ByRef {
		p.write("&")
	}
	p.formatExpr(s.Value)
	p.write(") ")
	p.formatBlock(s.Body)
}

func (p *Printer) formatSwitch(s *core.SwitchStmt) {
	p.write("switch (")
	p.formatExpr(s.Cond)
	p.write(") {")
	p.writeln()
	p.indent()
	for _, c := range s.Cases {
		if c.Cond != nil {
			p.write("case ")
			p.formatExpr(c.Cond)
			p.write(":")
		} else {
			p.write("default:")
		}
		p.writeln()
		p.indent()
		for _, stmt := range c.Body {
			p.formatStmt(stmt)
			p.writeln()
		}
		p.dedent()
	}
	p.dedent()
	p.write("}")
}

func (p *Printer) formatJump(kw token.TokenType, num core.Expr) {
	p.kw(kw)
	if num != nil {
		p.write(" ")
		p.formatExpr(num)
	}
	p.write(";")
}

func (p *Printer) formatClass(s *core.ClassDecl) {
	if s.Abstract {
		p.write("abstract ")
	}
	if s.Final {
		p.write("final ")
	}
	p.write(s.Kind.String() + " " + s.Name)
	if s.BackingType != nil {
		p.write(": ")
		p.formatType(s.BackingType)
	}
	p.formatClassHeader(s)
	p.write(" ")
	p.formatBlock(s.Members)
}

// formatClassHeader prints the extends and implements clauses. The
// parents of an interface follow extends.
func (p *Printer) formatClassHeader(s *core.ClassDecl) {
	if s.Extends != nil {
		p.write(" extends " + s.Extends.String())
	}
	if len(s.Implements) == 0 {
		return
	}
	if s.Kind == core.KindInterface {
		p.write(" extends ")
	} else {
		p.write(" implements ")
	}
	p.formatList(len(s.Implements), func(i int) {
		p.write(s.Implements[i].String())
	}, ", ")
}

func (p *Printer) formatModifiers(mods []string) {
	for _, mod := range mods {
		p.write(strings.ToLower(mod) + " ")
	}
}

func (p *Printer) formatConstElems(elems []*core.ConstElem) {
	p.formatList(len(elems), func(i int) {
		p.write(elems[i].Name + " = ")
		p.formatExpr(elems[i].Value)
	}, ", ")
}

func (p *Printer) formatNamespace(s *core.NamespaceStmt) {
	p.write("namespace")
	if s.Name != nil {
		p.write(" " + s.Name.String())
	}
	if s.Braced {
		p.write(" ")
		p.formatBlock(s.Stmts)
		return
	}
	p.write(";")
	for _, stmt := range s.Stmts {
		p.writeln()
		p.formatStmt(stmt)
	}
}

func (p *Printer) formatTry(s *core.TryStmt) {
	p.write("try ")
	p.formatBlock(s.Body)
	for _, c := range s.Catches {
		p.write(" catch (")
		p.formatList(len(c.Types), func(i int) {
			p.write(c.Types[i].String())
		}, " | ")
		if c.Var != nil {
			p.write(" ")
			p.formatExpr(c.Var)
		}
		p.write(") ")
		p.formatBlock(c.Body)
	}
	if s.HasFinally {
		p.write(" finally ")
		p.formatBlock(s.Finally)
	}
}

// formatSignature prints (params)[: type].
func (p *Printer) formatSignature(params []*core.Param, ret *core.TypeRef) {
	p.write("(")
	p.formatList(len(params), func(i int) {
		p.formatParam(params[i])
	}, ", ")
	p.write(")")
	if ret != nil {
		p.write(": ")
		p.formatType(ret)
	}
}

func (p *Printer) formatParam(param *core.Param) {
	p.formatModifiers(param.Modifiers)
	if param.Type != nil {
		p.formatType(param.Type)
		p.write(" ")
	}
	if param.ByRef {
		p.write("&")
	}
	if param.Variadic {
		p.write("...")
	}
	p.write("$" + param.Name)
	if param.Default != nil {
		p.write(" = ")
		p.formatExpr(param.Default)
	}
}

func (p *Printer) formatType(t *core.TypeRef) {
	if t.Nullable {
		p.write("?")
	}
	p.write(t.Name.String())
}
