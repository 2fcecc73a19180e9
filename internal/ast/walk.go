package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Stmts {
			Walk(stmt, fn)
		}

	case *Block:
		for _, stmt := range n.Stmts {
			Walk(stmt, fn)
		}

	case *FnDecl:
		if n.Access != nil {
			Walk(n.Access, fn)
		}
		Walk(n.Name, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
		if n.ReturnType != nil {
			Walk(n.ReturnType, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *Argument:
		Walk(n.Name, fn)
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		Walk(n.Default, fn)

	case *LetStmt:
		Walk(n.Name, fn)
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		Walk(n.Value, fn)

	case *IfStmt:
		Walk(n.Cond, fn)
		if n.Then != nil {
			Walk(n.Then, fn)
		}
		if n.Else != nil {
			Walk(n.Else, fn)
		}

	case *ReturnStmt:
		Walk(n.Value, fn)

	case *ExprStmt:
		Walk(n.Expr, fn)

	case *Type:
		if n.Elem != nil {
			Walk(n.Elem, fn)
		}
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *TypeValue:
		Walk(n.Type, fn)

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *UnaryExpr:
		Walk(n.Operand, fn)

	case *MemberExpr:
		Walk(n.Target, fn)
		Walk(n.Member, fn)

	case *CastExpr:
		Walk(n.Value, fn)
		Walk(n.Type, fn)

	case *AssignExpr:
		Walk(n.Target, fn)
		Walk(n.Value, fn)

	case *CallExpr:
		Walk(n.Callee, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *IndexExpr:
		Walk(n.Target, fn)
		Walk(n.Index, fn)

	case *TupleExpr:
		for _, elem := range n.Elems {
			Walk(elem, fn)
		}

	case *ArrayExpr:
		for _, elem := range n.Elems {
			Walk(elem, fn)
		}
	}
}
