package format

import (
	"github.com/leapstack-labs/psyrepl/pkg/core"
	"github.com/leapstack-labs/psyrepl/pkg/token"
)

func (p *Printer) formatExpr(e core.Expr) {
	switch x := e.(type) {
	case *core.Variable:
		p.formatVariable(x)
	case *core.ConstFetch:
		p.write(x.Name.String())
	case *core.IntLit:
		p.write(x.Raw)
	case *core.FloatLit:
		p.write(x.Raw)
	case *core.StringLit:
		p.write(x.Raw)
	case *core.InterpolatedString:
		p.write(x.Raw)
	case *core.ArrayLit:
		if x.Short {
			p.write("[")
			p.formatArrayItems(x.Items)
			p.write("]")
			return
		}
		p.write("array(")
		p.formatArrayItems(x.Items)
		p.write(")")
	case *core.ListExpr:
		p.write("list(")
		p.formatArrayItems(x.Items)
		p.write(")")
	case *core.FuncCall:
		if x.Name != nil {
			p.write(x.Name.String())
		} else {
			p.formatExpr(x.Callee)
		}
		p.formatArgs(x.Args)
	case *core.MethodCall:
		p.formatExpr(x.Var)
		p.formatArrow(x.NullSafe)
		p.formatMemberName(x.Name, x.NameExpr)
		p.formatArgs(x.Args)
	case *core.PropertyFetch:
		p.formatExpr(x.Var)
		p.formatArrow(x.NullSafe)
		p.formatMemberName(x.Name, x.NameExpr)
	case *core.StaticCall:
		p.formatClassRef(x.Class, x.ClassExpr)
		p.write("::")
		p.formatMemberName(x.Name, x.NameExpr)
		p.formatArgs(x.Args)
	case *core.StaticPropertyFetch:
		p.formatClassRef(x.Class, x.ClassExpr)
		p.write("::$" + x.Name)
	case *core.ClassConstFetch:
		p.formatClassRef(x.Class, x.ClassExpr)
		p.write("::" + x.Name)
	case *core.ArrayDimFetch:
		p.formatExpr(x.Var)
		p.write("[")
		if x.Dim != nil {
			p.formatExpr(x.Dim)
		}
		p.write("]")
	case *core.New:
		p.write("new ")
		if x.Anon != nil {
			p.formatAnonClass(x)
			return
		}
		p.formatClassRef(x.Class, x.ClassExpr)
		if x.HasArgs {
			p.formatArgs(x.Args)
		}
	case *core.Closure:
		p.formatClosure(x)
	case *core.ArrowFunc:
		p.formatArrowFunc(x)
	case *core.Match:
		p.formatMatch(x)
	case *core.Yield:
		p.write("yield")
		if x.Key != nil {
			p.write(" ")
			p.formatExpr(x.Key)
			p.write(" =>")
		}
		if x.Value != nil {
			p.write(" ")
			p.formatExpr(x.Value)
		}
	case *core.YieldFrom:
		p.write("yield from ")
		p.formatExpr(x.X)
	case *core.Include:
		p.write(x.Kind.String() + " ")
		p.formatExpr(x.X)
	case *core.ShellExec:
		p.write(x.Raw)
	case *core.Unary:
		p.formatUnary(x)
	case *core.IncDec:
		if x.Prefix {
			p.write(x.Op.String())
			p.formatExpr(x.X)
			return
		}
		p.formatExpr(x.X)
		p.write(x.Op.String())
	case *core.Binary:
		p.formatExpr(x.X)
		p.write(" " + x.Op.String() + " ")
		p.formatExpr(x.Y)
	case *core.Instanceof:
		p.formatExpr(x.X)
		p.write(" instanceof ")
		p.formatClassRef(x.Class, x.ClassExpr)
	case *core.Assign:
		p.formatExpr(x.Target)
		p.write(" " + x.Op.String() + " ")
		if x.ByRef {
			p.write("&")
		}
		p.formatExpr(x.Value)
	case *core.Ternary:
		p.formatExpr(x.Cond)
		if x.Then == nil {
			p.write(" ?: ")
		} else {
			p.write(" ? ")
			p.formatExpr(x.Then)
			p.write(" : ")
		}
		p.formatExpr(x.Else)
	case *core.Cast:
		p.write("(" + x.Type + ")")
		p.formatExpr(x.X)
	case *core.Isset:
		p.write("isset(")
		p.formatExprList(x.Vars)
		p.write(")")
	case *core.Empty:
		p.write("empty(")
		p.formatExpr(x.X)
		p.write(")")
	case *core.Exit:
		p.write(x.Keyword)
		if x.HasParens {
			p.write("(")
			if x.X != nil {
				p.formatExpr(x.X)
			}
			p.write(")")
		}
	case *core.Print:
		p.write("print ")
		p.formatExpr(x.X)
	case *core.Clone:
		p.write("clone ")
		p.formatExpr(x.X)
	case *core.ParenExpr:
		p.write("(")
		p.formatExpr(x.X)
		p.write(")")
	}
}

func (p *Printer) formatExprList(exprs []core.Expr) {
	p.formatList(len(exprs), func(i int) {
		p.formatExpr(exprs[i])
	}, ", ")
}

func (p *Printer) formatVariable(v *core.Variable) {
	switch {
	case v.NameExpr == nil:
		p.write("$" + v.Name)
	case v.Braced:
		p.write("${")
		p.formatExpr(v.NameExpr)
		p.write("}")
	default:
		p.write("$")
		p.formatExpr(v.NameExpr)
	}
}

// formatArrayItems prints array or list() items. A trailing empty slot
// keeps its comma so it survives re-parsing.
func (p *Printer) formatArrayItems(items []*core.ArrayItem) {
	p.formatList(len(items), func(i int) {
		item := items[i]
		if item.Value == nil {
			return
		}
		if item.Key != nil {
			p.formatExpr(item.Key)
			p.write(" => ")
		}
		if item.ByRef {
			p.write("&")
		}
		if item.Unpack {
			p.write("...")
		}
		p.formatExpr(item.Value)
	}, ", ")
	if n := len(items); n > 0 && items[n-1].Value == nil {
		p.write(",")
	}
}

func (p *Printer) formatArgs(args []*core.Arg) {
	p.write("(")
	p.formatList(len(args), func(i int) {
		if args[i].Unpack {
			p.write("...")
		}
		p.formatExpr(args[i].Value)
	}, ", ")
	p.write(")")
}

func (p *Printer) formatArrow(nullSafe bool) {
	if nullSafe {
		p.write("?->")
		return
	}
	p.write("->")
}

// formatMemberName prints a literal member name, a variable, or {expr}.
func (p *Printer) formatMemberName(name string, nameExpr core.Expr) {
	switch nameExpr.(type) {
	case nil:
		p.write(name)
	case *core.Variable:
		p.formatExpr(nameExpr)
	default:
		p.write("{")
		p.formatExpr(nameExpr)
		p.write("}")
	}
}

func (p *Printer) formatClassRef(class *core.Name, classExpr core.Expr) {
	if class != nil {
		p.write(class.String())
		return
	}
	p.formatExpr(classExpr)
}

func (p *Printer) formatClosure(c *core.Closure) {
	if c.Static {
		p.write("static ")
	}
	p.write("function ")
	if c.ByRef {
		p.write("&")
	}
	p.write("(")
	p.formatList(len(c.Params), func(i int) {
		p.formatParam(c.Params[i])
	}, ", ")
	p.write(")")
	if len(c.Uses) > 0 {
		p.write(" use (")
		p.formatList(len(c.Uses), func(i int) {
			if c.Uses[i].ByRef {
				p.write("&")
			}
			p.formatExpr(c.Uses[i].Var)
		}, ", ")
		p.write(")")
	}
	if c.ReturnType != nil {
		p.write(": ")
		p.formatType(c.ReturnType)
	}
	p.write(" ")
	p.formatBlock(c.Body)
}

func (p *Printer) formatAnonClass(x *core.New) {
	p.write("class")
	if x.HasArgs {
		p.formatArgs(x.Args)
	}
	p.formatClassHeader(x.Anon)
	p.write(" ")
	p.formatBlock(x.Anon.Members)
}

func (p *Printer) formatArrowFunc(f *core.ArrowFunc) {
	if f.Static {
		p.write("static ")
	}
	p.write("fn ")
	if f.ByRef {
		p.write("&")
	}
	p.formatSignature(f.Params, f.ReturnType)
	p.write(" => ")
	p.formatExpr(f.Expr)
}

// formatMatch prints one arm per line, each with a trailing comma.
func (p *Printer) formatMatch(m *core.Match) {
	p.write("match (")
	p.formatExpr(m.Cond)
	p.write(") {")
	p.writeln()
	p.indent()
	for _, arm := range m.Arms {
		if arm.Conds == nil {
			p.write("default")
		} else {
			p.formatExprList(arm.Conds)
		}
		p.write(" => ")
		p.formatExpr(arm.Body)
		p.write(",")
		p.writeln()
	}
	p.dedent()
	p.write("}")
}

// formatUnary prints a prefix operator. A space separates repeated signs
// so "- -1" does not print as a decrement.
func (p *Printer) formatUnary(u *core.Unary) {
	p.write(u.Op.String())
	if needsSpace(u.Op, u.X) {
		p.write(" ")
	}
	p.formatExpr(u.X)
}

func needsSpace(op token.TokenType, x core.Expr) bool {
	var clash token.TokenType
	switch op {
	case token.MINUS:
		clash = token.DEC
	case token.PLUS:
		clash = token.INC
	default:
		return false
	}
	switch inner := x.(type) {
	case *core.Unary:
		return inner.Op == op
	case *core.IncDec:
		return inner.Prefix && inner.Op == clash
	}
	return false
}
