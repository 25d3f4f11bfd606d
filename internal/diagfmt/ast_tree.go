package diagfmt

import (
	"fmt"
	"io"

	"synthizer/internal/ast"
	"synthizer/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// WriteRootTree renders the parsed program as an indented tree, one
// top-level item per subtree. Expressions appear in their lowered tree
// form, not the postfix the engine executes.
func WriteRootTree(w io.Writer, root *ast.Root, interner *source.Interner, fs *source.FileSet) {
	header := "Root"
	if fs != nil && fs.Len() > 0 {
		header = fs.Get(0).Path
	}
	node := &treeNode{label: header}
	for _, item := range root.Items {
		node.children = append(node.children, buildItemNode(item, interner, fs))
	}
	renderTree(w, node, "", true)
}

func buildItemNode(item ast.Item, interner *source.Interner, fs *source.FileSet) *treeNode {
	switch it := item.(type) {
	case *ast.Assignment:
		node := &treeNode{
			label: fmt.Sprintf("Assignment: %s (%s)",
				interner.MustLookup(it.Ident.Item), formatSpan(it.Pos, fs)),
		}
		node.children = append(node.children,
			buildExprNode(ast.TreeFromExpr(it.X), interner, fs))
		return node

	case *ast.FunctionDef:
		return buildDefNode(it, interner, fs)

	default:
		return &treeNode{label: fmt.Sprintf("Item: %T", item)}
	}
}

func buildDefNode(def *ast.FunctionDef, interner *source.Interner, fs *source.FileSet) *treeNode {
	node := &treeNode{
		label: fmt.Sprintf("FunctionDef: %s (%s)", def.Name(), formatSpan(def.Pos, fs)),
	}

	if len(def.ParamSet) > 0 {
		params := &treeNode{label: "Params"}
		for i := range def.ParamSet {
			p := &def.ParamSet[i]
			label := interner.MustLookup(p.Name.Item)
			if p.HasDefault {
				label = fmt.Sprintf("%s = %g", label, p.Default)
			}
			params.children = append(params.children, &treeNode{label: label})
		}
		node.children = append(node.children, params)
	}

	body := &treeNode{label: "Body"}
	body.children = append(body.children,
		buildExprNode(ast.Lower(def.Body), interner, fs))
	node.children = append(node.children, body)
	return node
}

func buildExprNode(e ast.Expression, interner *source.Interner, fs *source.FileSet) *treeNode {
	switch x := e.(type) {
	case *ast.Constant:
		return &treeNode{label: fmt.Sprintf("Constant: %g", x.Value)}

	case *ast.Boolean:
		return &treeNode{label: fmt.Sprintf("Boolean: %t", x.Value)}

	case *ast.Variable:
		return &treeNode{
			label: fmt.Sprintf("Variable: %s (slot %d)",
				interner.MustLookup(x.Ident.Item), x.Slot),
		}

	case *ast.Prefix:
		node := &treeNode{label: fmt.Sprintf("Prefix: %s", x.Op.Item)}
		node.children = append(node.children, buildExprNode(x.Operand, interner, fs))
		return node

	case *ast.Infix:
		node := &treeNode{label: fmt.Sprintf("Infix: %s", x.Op.Item)}
		node.children = append(node.children,
			buildExprNode(x.Left, interner, fs),
			buildExprNode(x.Right, interner, fs))
		return node

	case *ast.FunctionCall:
		node := &treeNode{
			label: fmt.Sprintf("Call: %s (%s)",
				interner.MustLookup(x.Callee.Item), x.Style),
		}
		for _, arg := range x.Args {
			node.children = append(node.children, buildArgNode(arg, interner, fs))
		}
		return node

	case *ast.Conditional:
		node := &treeNode{label: "Conditional"}
		cond := &treeNode{label: "Cond"}
		cond.children = append(cond.children, buildExprNode(x.Cond, interner, fs))
		then := &treeNode{label: "Then"}
		then.children = append(then.children, buildExprNode(x.Then, interner, fs))
		els := &treeNode{label: "Else"}
		els.children = append(els.children, buildExprNode(x.Else, interner, fs))
		node.children = append(node.children, cond, then, els)
		return node

	case *ast.Block:
		node := &treeNode{label: fmt.Sprintf("Block (%s)", formatSpan(x.Pos, fs))}
		for _, entry := range x.Entries {
			node.children = append(node.children, buildExprNode(entry, interner, fs))
		}
		return node

	case *ast.Closure:
		node := &treeNode{label: "Closure"}
		node.children = append(node.children, buildDefNode(x.Def, interner, fs))
		return node

	default:
		return &treeNode{label: fmt.Sprintf("Expr: %T", e)}
	}
}

func buildArgNode(arg ast.Argument, interner *source.Interner, fs *source.FileSet) *treeNode {
	switch a := arg.(type) {
	case *ast.ExprArg:
		return buildExprNode(a.X, interner, fs)

	case *ast.AssignArg:
		node := &treeNode{
			label: fmt.Sprintf("Arg: %s =", interner.MustLookup(a.Name.Item)),
		}
		node.children = append(node.children, buildExprNode(a.X, interner, fs))
		return node

	case *ast.OpAssignArg:
		node := &treeNode{
			label: fmt.Sprintf("Arg: %s %s=", interner.MustLookup(a.Name.Item), a.Op.Item),
		}
		node.children = append(node.children, buildExprNode(a.X, interner, fs))
		return node

	case *ast.IdentArg:
		return &treeNode{label: fmt.Sprintf("Arg: %s", interner.MustLookup(a.Name.Item))}

	default:
		return &treeNode{label: fmt.Sprintf("Arg: %T", arg)}
	}
}

// renderTree prints node and its subtree with box-drawing connectors.
func renderTree(w io.Writer, node *treeNode, prefix string, isRoot bool) {
	if isRoot {
		fmt.Fprintln(w, node.label)
	}
	for i, child := range node.children {
		last := i == len(node.children)-1
		connector, carry := "├── ", "│   "
		if last {
			connector, carry = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, child.label)
		renderTree(w, child, prefix+carry, false)
	}
}

func formatSpan(sp source.Span, fs *source.FileSet) string {
	if fs == nil {
		return fmt.Sprintf("%d..%d", sp.Start, sp.End)
	}
	start, end := fs.Resolve(sp)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}
