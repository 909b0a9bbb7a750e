package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/canopyml/canopy/feature"
)

/*
Tree represents a grown binary classification tree: its root node
and the name of the label it predicts.
*/
type Tree struct {
	Root  Node
	Label string
}

/*
New takes the root node of a grown tree and the name of the label
it predicts and returns a tree with them.
*/
func New(root Node, label string) *Tree {
	return &Tree{root, label}
}

/*
Classify takes a row of values and descends the tree evaluating
branch questions against it until a leaf is reached, whose
prediction is returned. Rows with Missing cells are routed down
false branches, never rejected. The returned prediction is owned
by the tree and must not be mutated.

A non-nil error is returned if the tree has no root, if a branch
question cannot be evaluated against the row, or if the given
context times out or is cancelled.
*/
func (t *Tree) Classify(ctx context.Context, row []feature.Value) (*Prediction, error) {
	if t == nil || t.Root == nil {
		return nil, fmt.Errorf("classifying row: tree has no root node")
	}
	n := t.Root
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch node := n.(type) {
		case *Leaf:
			return node.Prediction(), nil
		case *Branch:
			ok, err := node.Question().Match(row)
			if err != nil {
				return nil, fmt.Errorf("classifying row: %v", err)
			}
			if ok {
				n = node.TrueBranch()
			} else {
				n = node.FalseBranch()
			}
		default:
			return nil, fmt.Errorf("classifying row: unknown node type %T", n)
		}
	}
}

// Traverse takes a context, a bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a branch before its
// subtrees if bottomup is false, and after them if bottomup
// is true. True branches are visited before false branches.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
// Otherwise, when the traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, Node) error) error {
	return t.traverse(ctx, t.Root, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n Node, bottomup bool, f func(context.Context, Node) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !bottomup {
		if err := f(ctx, n); err != nil {
			return err
		}
	}
	if b, ok := n.(*Branch); ok {
		if err := t.traverse(ctx, b.TrueBranch(), bottomup, f); err != nil {
			return err
		}
		if err := t.traverse(ctx, b.FalseBranch(), bottomup, f); err != nil {
			return err
		}
	}
	if bottomup {
		if err := f(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

/*
Leaves returns the number of leaves of the tree. A grown tree has
at least one.
*/
func (t *Tree) Leaves() int {
	var leaves int
	t.Traverse(context.Background(), false, func(_ context.Context, n Node) error {
		if _, ok := n.(*Leaf); ok {
			leaves++
		}
		return nil
	})
	return leaves
}

func (t *Tree) String() string {
	if t == nil || t.Root == nil {
		return "(empty tree)\n"
	}
	return t.nodeString(t.Root)
}

func (t *Tree) nodeString(n Node) string {
	var result string
	var subtrees []Node
	switch node := n.(type) {
	case *Leaf:
		result = fmt.Sprintf("{ %v }\n", node.Prediction())
	case *Branch:
		result = fmt.Sprintf("{ %v }\n|\n", node.Question())
		subtrees = []Node{node.TrueBranch(), node.FalseBranch()}
	}
	for i, subtree := range subtrees {
		for j, line := range strings.Split(t.nodeString(subtree), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else {
					if i == len(subtrees)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
