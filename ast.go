package lumen

// Node is implemented by every AST node. Copy returns a deep copy, used
// wherever a function body or loop body must be re-evaluated without one
// iteration's mutations leaking into the next — declarations always write
// into a fresh Env, but the literal sub-trees that describe conditions,
// steps, and bodies must never be shared and mutated in place across
// repeated evaluations.
type Node interface {
	Copy() Node
	line() int
}

// ---- Declarations ----

type VarDecl struct {
	Line   int
	Const  bool
	Names  []string
	Values []Node // 0..len(Names) values for let; one (broadcast) or len(Names) for con
}

func (n *VarDecl) line() int { return n.Line }
func (n *VarDecl) Copy() Node {
	c := &VarDecl{Line: n.Line, Const: n.Const, Names: append([]string(nil), n.Names...)}
	for _, v := range n.Values {
		c.Values = append(c.Values, v.Copy())
	}
	return c
}

type Param struct {
	Name    string
	Default Node // nil if required
}

// FnDecl declares a named function. ReturnName, when non-empty, names a
// variable pre-bound to ReturnDefault (or Null) in the call frame; if the
// body falls off the end without an explicit return, the function yields
// that variable's final value instead of the last statement's value.
type FnDecl struct {
	Line         int
	Name         string
	Params       []Param
	ReturnName   string
	ReturnDefault Node
	Body         *Block
}

func (n *FnDecl) line() int { return n.Line }
func (n *FnDecl) Copy() Node {
	c := &FnDecl{Line: n.Line, Name: n.Name, ReturnName: n.ReturnName}
	for _, p := range n.Params {
		np := Param{Name: p.Name}
		if p.Default != nil {
			np.Default = p.Default.Copy()
		}
		c.Params = append(c.Params, np)
	}
	if n.ReturnDefault != nil {
		c.ReturnDefault = n.ReturnDefault.Copy()
	}
	c.Body = n.Body.Copy().(*Block)
	return c
}

// ---- Statements ----

type Block struct {
	Line  int
	Stmts []Node
}

func (n *Block) line() int { return n.Line }
func (n *Block) Copy() Node {
	c := &Block{Line: n.Line}
	for _, s := range n.Stmts {
		c.Stmts = append(c.Stmts, s.Copy())
	}
	return c
}

type Delete struct {
	Line  int
	Names []string
}

func (n *Delete) line() int { return n.Line }
func (n *Delete) Copy() Node {
	return &Delete{Line: n.Line, Names: append([]string(nil), n.Names...)}
}

type Exists struct {
	Line int
	Name string
}

func (n *Exists) line() int  { return n.Line }
func (n *Exists) Copy() Node { return &Exists{Line: n.Line, Name: n.Name} }

type IfClause struct {
	Cond Node // nil for a trailing else
	Body *Block
}

type IfElse struct {
	Line    int
	Clauses []IfClause // if, elif..., optional trailing else (Cond == nil)
}

func (n *IfElse) line() int { return n.Line }
func (n *IfElse) Copy() Node {
	c := &IfElse{Line: n.Line}
	for _, cl := range n.Clauses {
		nc := IfClause{Body: cl.Body.Copy().(*Block)}
		if cl.Cond != nil {
			nc.Cond = cl.Cond.Copy()
		}
		c.Clauses = append(c.Clauses, nc)
	}
	return c
}

type While struct {
	Line     int
	Infinite bool
	Cond     Node // nil when Infinite
	Body     *Block
}

func (n *While) line() int { return n.Line }
func (n *While) Copy() Node {
	c := &While{Line: n.Line, Infinite: n.Infinite, Body: n.Body.Copy().(*Block)}
	if n.Cond != nil {
		c.Cond = n.Cond.Copy()
	}
	return c
}

type For struct {
	Line int
	Init Node // *VarDecl, *ExprStmt, or nil
	Cond Node // nil means always-true
	Step Node // nil means no step clause
	Body *Block
}

func (n *For) line() int { return n.Line }
func (n *For) Copy() Node {
	c := &For{Line: n.Line, Body: n.Body.Copy().(*Block)}
	if n.Init != nil {
		c.Init = n.Init.Copy()
	}
	if n.Cond != nil {
		c.Cond = n.Cond.Copy()
	}
	if n.Step != nil {
		c.Step = n.Step.Copy()
	}
	return c
}

type Break struct{ Line int }

func (n *Break) line() int  { return n.Line }
func (n *Break) Copy() Node { return &Break{Line: n.Line} }

type Continue struct{ Line int }

func (n *Continue) line() int  { return n.Line }
func (n *Continue) Copy() Node { return &Continue{Line: n.Line} }

type Return struct {
	Line  int
	Value Node // nil for a bare `return`
}

func (n *Return) line() int { return n.Line }
func (n *Return) Copy() Node {
	c := &Return{Line: n.Line}
	if n.Value != nil {
		c.Value = n.Value.Copy()
	}
	return c
}

// Unless wraps a break/continue/return statement with a guard: the
// wrapped statement only runs when Cond is falsy.
type Unless struct {
	Line int
	Cond Node
	Stmt Node
}

func (n *Unless) line() int { return n.Line }
func (n *Unless) Copy() Node {
	return &Unless{Line: n.Line, Cond: n.Cond.Copy(), Stmt: n.Stmt.Copy()}
}

// ExprStmt wraps an expression evaluated for effect at statement position.
type ExprStmt struct {
	Line int
	Expr Node
}

func (n *ExprStmt) line() int  { return n.Line }
func (n *ExprStmt) Copy() Node { return &ExprStmt{Line: n.Line, Expr: n.Expr.Copy()} }

// ---- Expressions ----

type Assign struct {
	Line   int
	Target *Ident
	Op     TokenKind // Assign, PlusEq, MinusEq, MultiplyEq, DivideEq, RemainderEq, ExponentiateEq
	Value  Node
}

func (n *Assign) line() int { return n.Line }
func (n *Assign) Copy() Node {
	return &Assign{Line: n.Line, Target: n.Target.Copy().(*Ident), Op: n.Op, Value: n.Value.Copy()}
}

type Ternary struct {
	Line             int
	Cond, Then, Else Node
}

func (n *Ternary) line() int { return n.Line }
func (n *Ternary) Copy() Node {
	return &Ternary{Line: n.Line, Cond: n.Cond.Copy(), Then: n.Then.Copy(), Else: n.Else.Copy()}
}

type Binary struct {
	Line     int
	Op       TokenKind
	Lhs, Rhs Node
}

func (n *Binary) line() int { return n.Line }
func (n *Binary) Copy() Node {
	return &Binary{Line: n.Line, Op: n.Op, Lhs: n.Lhs.Copy(), Rhs: n.Rhs.Copy()}
}

// Unary covers prefix +, -, ! and postfix ++, --. Postfix is marked by
// Postfix = true; the parser only allows an Ident operand there.
type Unary struct {
	Line    int
	Op      TokenKind
	Operand Node
	Postfix bool
}

func (n *Unary) line() int { return n.Line }
func (n *Unary) Copy() Node {
	return &Unary{Line: n.Line, Op: n.Op, Operand: n.Operand.Copy(), Postfix: n.Postfix}
}

type Call struct {
	Line   int
	Callee Node
	Args   []Node
}

func (n *Call) line() int { return n.Line }
func (n *Call) Copy() Node {
	c := &Call{Line: n.Line, Callee: n.Callee.Copy()}
	for _, a := range n.Args {
		c.Args = append(c.Args, a.Copy())
	}
	return c
}

type Ident struct {
	Line int
	Name string
}

func (n *Ident) line() int  { return n.Line }
func (n *Ident) Copy() Node { return &Ident{Line: n.Line, Name: n.Name} }

type NumberLit struct {
	Line int
	Val  float64
}

func (n *NumberLit) line() int  { return n.Line }
func (n *NumberLit) Copy() Node { return &NumberLit{Line: n.Line, Val: n.Val} }

type CharLit struct {
	Line int
	Val  byte
}

func (n *CharLit) line() int  { return n.Line }
func (n *CharLit) Copy() Node { return &CharLit{Line: n.Line, Val: n.Val} }

type StringLit struct {
	Line int
	Val  string
}

func (n *StringLit) line() int  { return n.Line }
func (n *StringLit) Copy() Node { return &StringLit{Line: n.Line, Val: n.Val} }

// NullLit is the literal `null` keyword form; it is distinct from an Ident
// lookup of the name "null" even though the global environment also binds
// that name to the same value, matching the data model's explicit `Null`
// literal node.
type NullLit struct{ Line int }

func (n *NullLit) line() int  { return n.Line }
func (n *NullLit) Copy() Node { return &NullLit{Line: n.Line} }
