package syntax

// Walk visits the statements of stmts in source order. When f returns true for
// a compound statement, Walk descends into its nested blocks, including the
// bodies of function and class definitions.
func Walk(stmts []Stmt, f func(Stmt) bool) {
	for _, stmt := range stmts {
		if !f(stmt) {
			continue
		}
		for _, block := range Blocks(stmt) {
			Walk(block, f)
		}
	}
}

// Blocks returns the nested statement lists of stmt in source order.
func Blocks(stmt Stmt) [][]Stmt {
	switch s := stmt.(type) {
	case *IfStmt:
		return [][]Stmt{s.Body, s.Else}
	case *LoopStmt:
		return [][]Stmt{s.Body, s.Else}
	case *TryStmt:
		blocks := make([][]Stmt, 0, len(s.Handlers)+3)
		blocks = append(blocks, s.Body)
		for _, h := range s.Handlers {
			blocks = append(blocks, h.Body)
		}
		return append(blocks, s.Else, s.Finally)
	case *WithStmt:
		return [][]Stmt{s.Body}
	case *FuncDef:
		return [][]Stmt{s.Body}
	case *ClassDef:
		return [][]Stmt{s.Body}
	}
	return nil
}

// Exprs returns the expressions that belong to stmt itself, not to its nested
// blocks. For definitions these are decorators, defaults and base classes,
// which are evaluated in the enclosing scope.
func Exprs(stmt Stmt) []Expr {
	var exprs []Expr
	add := func(xs ...Expr) {
		for _, x := range xs {
			if x != nil {
				exprs = append(exprs, x)
			}
		}
	}

	switch s := stmt.(type) {
	case *ExprStmt:
		add(s.X)
	case *AssignStmt:
		add(s.Targets...)
		add(s.Value)
	case *ReturnStmt:
		add(s.Result)
	case *RaiseStmt:
		add(s.Exc)
	case *IfStmt:
		add(s.Cond)
	case *LoopStmt:
		add(s.Target, s.Iter)
	case *TryStmt:
		for _, h := range s.Handlers {
			add(h.Type)
		}
	case *WithStmt:
		for _, item := range s.Items {
			add(item.Context, item.Target)
		}
	case *FuncDef:
		add(s.Decorators...)
		for _, p := range s.Params {
			add(p.Default)
		}
	case *ClassDef:
		add(s.Decorators...)
		add(s.Bases...)
	case *BadStmt:
		add(s.Exprs...)
	}
	return exprs
}

// Inspect traverses the expression x in depth-first order, calling f for each
// node. If f returns false, Inspect skips the children of that node.
func Inspect(x Expr, f func(Expr) bool) {
	if x == nil || !f(x) {
		return
	}
	switch x := x.(type) {
	case *Call:
		Inspect(x.Fn, f)
		for _, arg := range x.Args {
			Inspect(arg, f)
		}
	case *Keyword:
		Inspect(x.Value, f)
	case *Selector:
		Inspect(x.X, f)
	case *Index:
		Inspect(x.X, f)
		Inspect(x.Index, f)
	case *Lambda:
		for _, p := range x.Params {
			Inspect(p.Default, f)
		}
		Inspect(x.Body, f)
	case *Yield:
		Inspect(x.Value, f)
	case *Composite:
		for _, elt := range x.Elts {
			Inspect(elt, f)
		}
	}
}

// Reads returns the identifiers read by x. Names bound by lambda parameters
// are not reads of the enclosing scope.
func Reads(x Expr) []*Ident {
	var idents []*Ident
	collectReads(x, nil, &idents)
	return idents
}

func collectReads(x Expr, shadowed map[string]bool, idents *[]*Ident) {
	Inspect(x, func(n Expr) bool {
		switch n := n.(type) {
		case *Ident:
			if !shadowed[n.Name] {
				*idents = append(*idents, n)
			}
		case *Lambda:
			for _, p := range n.Params {
				collectReads(p.Default, shadowed, idents)
			}
			inner := make(map[string]bool, len(shadowed)+len(n.Params))
			for name := range shadowed {
				inner[name] = true
			}
			for _, p := range n.Params {
				inner[p.Name] = true
			}
			collectReads(n.Body, inner, idents)
			return false
		}
		return true
	})
}

// Funcs returns every function definition in stmts, at any depth, in source order.
func Funcs(stmts []Stmt) []*FuncDef {
	var funcs []*FuncDef
	Walk(stmts, func(stmt Stmt) bool {
		if fn, ok := stmt.(*FuncDef); ok {
			funcs = append(funcs, fn)
		}
		return true
	})
	return funcs
}

// IsGenerator reports whether the body of fn yields. Yields inside nested
// definitions and lambdas belong to those and are not counted.
func IsGenerator(fn *FuncDef) bool {
	found := false
	Walk(fn.Body, func(stmt Stmt) bool {
		if found {
			return false
		}
		for _, x := range Exprs(stmt) {
			Inspect(x, func(n Expr) bool {
				switch n.(type) {
				case *Yield:
					found = true
				case *Lambda:
					return false
				}
				return !found
			})
		}
		switch stmt.(type) {
		case *FuncDef, *ClassDef:
			return false
		}
		return true
	})
	return found
}
