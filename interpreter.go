package lumen

// flowKind tags how a statement evaluation wants control to proceed. This
// is the explicit alternative to a process-global counter/stack: every
// evaluator function returns its flow alongside its value, and only the
// construct that can absorb a given flow (a loop for Break/Continue, a
// call frame for Return) ever swallows it — everything else passes it
// straight through, so a `return` three blocks deep reaches its function
// boundary correctly no matter how much nesting sits in between.
type flowKind int

const (
	flowNormal flowKind = iota
	flowBreak
	flowContinue
	flowReturn
)

type flow struct {
	kind  flowKind
	value Value
}

var normalFlow = flow{kind: flowNormal}

// Interpreter walks an AST against a global environment. loopDepth and
// callDepth track nesting so break/continue/return outside their
// respective construct can be reported instead of silently doing nothing.
type Interpreter struct {
	Global    *Env
	loopDepth int
	callDepth int
}

// NewInterpreter creates an interpreter with an empty global environment.
// Callers typically follow this with RegisterBuiltins.
func NewInterpreter() *Interpreter {
	return &Interpreter{Global: NewEnv()}
}

// Run evaluates program directly against the global environment (the
// top-level scope is the global frame itself, not a child of it) and
// returns the value of its last statement.
func (ip *Interpreter) Run(program *Block) Value {
	result := NullVal(program.Line)
	for _, s := range program.Stmts {
		v, fl := ip.eval(s, ip.Global)
		if fl.kind == flowReturn {
			return fl.value
		}
		result = v
	}
	return result
}

// RunMain calls a global `main` binding with no arguments if one exists
// and is a function, per the main-function contract.
func (ip *Interpreter) RunMain() {
	if !ip.Global.Exists("main") {
		return
	}
	v := ip.Global.Get(0, "main")
	if v.Kind != VFunction && v.Kind != VNativeFn {
		return
	}
	ip.callValue(v, nil, ip.Global, v.Line)
}

// eval is the single recursive entry point for both statements and
// expressions; the unified AST means control-flow constructs like
// `if`/`while`/`fn` can appear in either position.
func (ip *Interpreter) eval(n Node, env *Env) (Value, flow) {
	switch node := n.(type) {

	case *Block:
		return ip.evalBlock(node, env.Child())

	case *VarDecl:
		return ip.evalVarDecl(node, env), normalFlow

	case *FnDecl:
		return ip.evalFnDecl(node, env), normalFlow

	case *Delete:
		for _, name := range node.Names {
			env.Delete(node.Line, name)
		}
		return NullVal(node.Line), normalFlow

	case *Exists:
		return BoolVal(node.Line, env.Exists(node.Name)), normalFlow

	case *IfElse:
		return ip.evalIfElse(node, env)

	case *While:
		return ip.evalWhile(node, env)

	case *For:
		return ip.evalFor(node, env)

	case *Break:
		if ip.loopDepth == 0 {
			nameErr(node.Line, "'break' outside a loop")
		}
		return NullVal(node.Line), flow{kind: flowBreak}

	case *Continue:
		if ip.loopDepth == 0 {
			nameErr(node.Line, "'continue' outside a loop")
		}
		return NullVal(node.Line), flow{kind: flowContinue}

	case *Return:
		if ip.callDepth == 0 {
			nameErr(node.Line, "'return' outside a function")
		}
		v := NullVal(node.Line)
		if node.Value != nil {
			v, _ = ip.eval(node.Value, env)
		}
		return v, flow{kind: flowReturn, value: v}

	case *Unless:
		cond, _ := ip.eval(node.Cond, env)
		if cond.truthy() {
			return NullVal(node.Line), normalFlow
		}
		return ip.eval(node.Stmt, env)

	case *ExprStmt:
		return ip.eval(node.Expr, env)

	case *Assign:
		return ip.evalAssign(node, env), normalFlow

	case *Ternary:
		cond, _ := ip.eval(node.Cond, env)
		if cond.truthy() {
			return ip.eval(node.Then, env)
		}
		return ip.eval(node.Else, env)

	case *Binary:
		return ip.evalBinary(node, env), normalFlow

	case *Unary:
		return ip.evalUnary(node, env), normalFlow

	case *Call:
		return ip.evalCall(node, env), normalFlow

	case *Ident:
		v := env.Get(node.Line, node.Name)
		for v.Kind == VIdentifier {
			v = env.Get(node.Line, v.Ident)
		}
		return v, normalFlow

	case *NumberLit:
		return NumberVal(node.Line, node.Val), normalFlow

	case *CharLit:
		return CharVal(node.Line, node.Val), normalFlow

	case *StringLit:
		return StringVal(node.Line, node.Val), normalFlow

	case *NullLit:
		return NullVal(node.Line), normalFlow

	default:
		nameErr(n.line(), "cannot evaluate node of unknown kind")
	}
	panic("unreachable")
}

func (ip *Interpreter) evalBlock(b *Block, env *Env) (Value, flow) {
	result := NullVal(b.Line)
	for _, s := range b.Stmts {
		v, fl := ip.eval(s, env)
		if fl.kind != flowNormal {
			return v, fl
		}
		result = v
	}
	return result, normalFlow
}

func (ip *Interpreter) evalVarDecl(d *VarDecl, env *Env) Value {
	vals := make([]Value, len(d.Values))
	for i, expr := range d.Values {
		v, _ := ip.eval(expr, env)
		vals[i] = v
	}

	n, m := len(d.Names), len(vals)
	assigned := make([]Value, n)
	switch {
	case m == 0:
		for i := range assigned {
			assigned[i] = NullVal(d.Line)
		}
	case m == 1 && n > 1:
		for i := range assigned {
			assigned[i] = vals[0].Copy()
		}
	case m == n:
		copy(assigned, vals)
	default: // 1 < m < n
		copy(assigned[:m], vals)
		last := vals[m-1]
		for i := m; i < n; i++ {
			assigned[i] = last.Copy()
		}
	}

	for i, name := range d.Names {
		env.Declare(d.Line, name, assigned[i], d.Const)
	}
	return NullVal(d.Line)
}

func (ip *Interpreter) evalFnDecl(d *FnDecl, env *Env) Value {
	// checkTrailingDefaults at parse time already guarantees that once a
	// default appears, every following parameter has one too.
	var defaults []Value
	for _, p := range d.Params {
		if p.Default == nil {
			continue
		}
		v, _ := ip.eval(p.Default, env)
		defaults = append(defaults, v)
	}

	names := make([]string, len(d.Params))
	for i, p := range d.Params {
		names[i] = p.Name
	}

	fn := &Function{
		Name:          d.Name,
		ParamNames:    names,
		ParamDefaults: defaults,
		ReturnName:    d.ReturnName,
		Env:           env,
		Body:          d.Body,
	}
	if d.ReturnDefault != nil {
		v, _ := ip.eval(d.ReturnDefault, env)
		fn.ReturnDefault = v
		fn.HasReturnDefault = true
	}

	fnVal := FunctionVal(d.Line, fn)
	if d.Name != "" {
		env.Declare(d.Line, d.Name, fnVal, true)
	}
	return fnVal
}

func (ip *Interpreter) evalIfElse(n *IfElse, env *Env) (Value, flow) {
	for _, clause := range n.Clauses {
		if clause.Cond == nil {
			return ip.eval(clause.Body, env)
		}
		cond, _ := ip.eval(clause.Cond, env)
		if cond.truthy() {
			return ip.eval(clause.Body, env)
		}
	}
	return NullVal(n.Line), normalFlow
}

func (ip *Interpreter) evalWhile(n *While, env *Env) (Value, flow) {
	ip.loopDepth++
	defer func() { ip.loopDepth-- }()

	result := NullVal(n.Line)
	for {
		if !n.Infinite {
			condCopy := n.Cond.Copy()
			cv, _ := ip.eval(condCopy, env)
			if !cv.truthy() {
				break
			}
		}
		bodyCopy := n.Body.Copy().(*Block)
		v, fl := ip.eval(bodyCopy, env)
		if fl.kind == flowBreak {
			break
		}
		if fl.kind == flowReturn {
			return v, fl
		}
		result = v
	}
	return result, normalFlow
}

func (ip *Interpreter) evalFor(n *For, env *Env) (Value, flow) {
	child := env.Child()
	ip.loopDepth++
	defer func() { ip.loopDepth-- }()

	if n.Init != nil {
		ip.eval(n.Init, child)
	}

	result := NullVal(n.Line)
	for {
		if n.Cond != nil {
			condCopy := n.Cond.Copy()
			cv, _ := ip.eval(condCopy, child)
			if !cv.truthy() {
				break
			}
		}
		bodyCopy := n.Body.Copy().(*Block)
		v, fl := ip.eval(bodyCopy, child)
		if fl.kind == flowBreak {
			break
		}
		if fl.kind == flowReturn {
			return v, fl
		}
		result = v
		if n.Step != nil {
			stepCopy := n.Step.Copy()
			ip.eval(stepCopy, child)
		}
	}
	return result, normalFlow
}

func (ip *Interpreter) evalAssign(n *Assign, env *Env) Value {
	rv, _ := ip.eval(n.Value, env)
	if n.Op == AssignTok {
		env.Assign(n.Line, n.Target.Name, rv)
		return rv
	}
	lv := env.Get(n.Line, n.Target.Name)
	newVal := applyCompound(n.Op, lv, rv, n.Line)
	env.Assign(n.Line, n.Target.Name, newVal)
	return newVal
}

func applyCompound(op TokenKind, lv, rv Value, line int) Value {
	switch op {
	case PlusEq:
		return lv.Add(rv, line)
	case MinusEq:
		return lv.Subtract(rv, line)
	case MultiplyEq:
		return lv.Multiply(rv, line)
	case DivideEq:
		return lv.Divide(rv, line)
	case RemainderEq:
		return lv.Remainder(rv, line)
	case ExponentiateEq:
		return lv.Exponentiate(rv, line)
	}
	panic("unreachable")
}

func (ip *Interpreter) evalBinary(n *Binary, env *Env) Value {
	switch n.Op {
	case LogAnd:
		lv, _ := ip.eval(n.Lhs, env)
		if !lv.truthy() {
			return BoolVal(n.Line, false)
		}
		rv, _ := ip.eval(n.Rhs, env)
		return BoolVal(n.Line, rv.truthy())
	case LogOr:
		lv, _ := ip.eval(n.Lhs, env)
		if lv.truthy() {
			return BoolVal(n.Line, true)
		}
		rv, _ := ip.eval(n.Rhs, env)
		return BoolVal(n.Line, rv.truthy())
	case NullCoalesce:
		lv, _ := ip.eval(n.Lhs, env)
		if lv.Kind != VNull {
			return lv
		}
		rv, _ := ip.eval(n.Rhs, env)
		return rv
	}

	lv, _ := ip.eval(n.Lhs, env)
	rv, _ := ip.eval(n.Rhs, env)
	switch n.Op {
	case Plus:
		return lv.Add(rv, n.Line)
	case Minus:
		return lv.Subtract(rv, n.Line)
	case Multiply:
		return lv.Multiply(rv, n.Line)
	case Divide:
		return lv.Divide(rv, n.Line)
	case Remainder:
		return lv.Remainder(rv, n.Line)
	case Exponentiate:
		return lv.Exponentiate(rv, n.Line)
	case Equals:
		return BoolVal(n.Line, lv.Equal(rv, n.Line, false))
	case ReallyEquals:
		return BoolVal(n.Line, lv.Equal(rv, n.Line, true))
	case NotEquals:
		return BoolVal(n.Line, !lv.Equal(rv, n.Line, false))
	case ReallyNotEquals:
		return BoolVal(n.Line, !lv.Equal(rv, n.Line, true))
	case Greater:
		return BoolVal(n.Line, lv.Greater(rv, n.Line))
	case GreaterEqual:
		return BoolVal(n.Line, lv.GreaterEqual(rv, n.Line))
	case Smaller:
		return BoolVal(n.Line, lv.Less(rv, n.Line))
	case SmallerEqual:
		return BoolVal(n.Line, lv.LessEqual(rv, n.Line))
	case Divisible:
		return BoolVal(n.Line, lv.DivisibleBy(rv, n.Line))
	}
	panic("unreachable")
}

func (ip *Interpreter) evalUnary(n *Unary, env *Env) Value {
	if n.Op == Increment || n.Op == Decrement {
		ident, ok := n.Operand.(*Ident)
		if !ok {
			v, _ := ip.eval(n.Operand, env)
			if n.Op == Increment {
				return v.Add(NumberVal(n.Line, 1), n.Line)
			}
			return v.Subtract(NumberVal(n.Line, 1), n.Line)
		}
		oldVal := env.Get(n.Line, ident.Name)
		var newVal Value
		if n.Op == Increment {
			newVal = oldVal.Add(NumberVal(n.Line, 1), n.Line)
		} else {
			newVal = oldVal.Subtract(NumberVal(n.Line, 1), n.Line)
		}
		env.Assign(n.Line, ident.Name, newVal)
		return newVal
	}

	v, _ := ip.eval(n.Operand, env)
	switch n.Op {
	case Plus:
		return v
	case Minus:
		return v.Negate(n.Line)
	case LogNot:
		return BoolVal(n.Line, !v.truthy())
	}
	panic("unreachable")
}

func (ip *Interpreter) evalCall(n *Call, env *Env) Value {
	callee, _ := ip.eval(n.Callee, env)
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, _ := ip.eval(a, env)
		args[i] = v
	}
	return ip.callValue(callee, args, env, n.Line)
}

// callValue dispatches a call on an already-evaluated callee, shared by
// Call-expression evaluation and the main-function contract. env is the
// caller's environment, handed to native callables.
func (ip *Interpreter) callValue(callee Value, args []Value, env *Env, line int) Value {
	switch callee.Kind {
	case VNativeFn:
		return callee.Native.Fn(ip, args, env, line)
	case VFunction:
		return ip.callFunction(callee.Fn, args, line)
	default:
		typeErr(line, "cannot call a %s", callee.typeName())
	}
	panic("unreachable")
}

func (ip *Interpreter) callFunction(fn *Function, args []Value, line int) Value {
	required := len(fn.ParamNames) - len(fn.ParamDefaults)
	if len(args) < required || len(args) > len(fn.ParamNames) {
		typeErr(line, "function '%s' expected %d to %d arguments, got %d",
			fn.Name, required, len(fn.ParamNames), len(args))
	}

	callEnv := fn.Env.Child()
	for i, name := range fn.ParamNames {
		if i < len(args) {
			callEnv.Declare(line, name, args[i], false)
			continue
		}
		callEnv.Declare(line, name, fn.ParamDefaults[i-required], false)
	}
	if fn.ReturnName != "" {
		ret := NullVal(line)
		if fn.HasReturnDefault {
			ret = fn.ReturnDefault
		}
		callEnv.Declare(line, fn.ReturnName, ret, false)
	}

	// A function body starts outside any loop, so break/continue cannot
	// reach a loop in the caller.
	ip.callDepth++
	savedLoopDepth := ip.loopDepth
	ip.loopDepth = 0
	defer func() {
		ip.callDepth--
		ip.loopDepth = savedLoopDepth
	}()

	bodyCopy := fn.Body.Copy().(*Block)
	v, fl := ip.eval(bodyCopy, callEnv)
	if fl.kind == flowReturn {
		return fl.value
	}
	if fn.ReturnName != "" {
		return callEnv.Get(line, fn.ReturnName)
	}
	return v
}
