package tree

import (
	"github.com/canopyml/canopy/feature"
)

/*
Node is a node of a grown decision tree: either a Branch holding a
question and two subtrees, or a Leaf holding a prediction. The set
of implementations is closed; traversal and classification switch
exhaustively over the two variants.

Nodes are assembled bottom-up while growing and never mutated
afterwards. A branch owns its subtrees exclusively, so a grown
tree is finite and acyclic and every path ends in exactly one
leaf.
*/
type Node interface {
	node()
}

/*
Branch is an internal decision node: rows that satisfy its
question continue down the true branch, every other row down the
false branch.
*/
type Branch struct {
	question    *feature.Question
	trueBranch  Node
	falseBranch Node
}

/*
Leaf is a terminal node holding the prediction for the rows that
reached it during growing.
*/
type Leaf struct {
	prediction *Prediction
}

/*
NewBranch takes a question and the subtrees for the rows that do
and do not satisfy it and returns a branch node with them.
*/
func NewBranch(question *feature.Question, trueBranch, falseBranch Node) *Branch {
	return &Branch{question, trueBranch, falseBranch}
}

/*
NewLeaf takes a prediction and returns a leaf node holding it.
*/
func NewLeaf(prediction *Prediction) *Leaf {
	return &Leaf{prediction}
}

func (b *Branch) node() {}
func (l *Leaf) node()   {}

/*
Question returns the question the branch asks of rows.
*/
func (b *Branch) Question() *feature.Question {
	return b.question
}

/*
TrueBranch returns the subtree for rows satisfying the branch's
question.
*/
func (b *Branch) TrueBranch() Node {
	return b.trueBranch
}

/*
FalseBranch returns the subtree for rows not satisfying the
branch's question.
*/
func (b *Branch) FalseBranch() Node {
	return b.falseBranch
}

/*
Prediction returns the prediction held by the leaf.
*/
func (l *Leaf) Prediction() *Prediction {
	return l.prediction
}
