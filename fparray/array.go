// Package fparray implements the array helpers (component C7): mapping
// "construct from value" or "resize in place" across nested ordered
// sequences of numbers, the same recursive-descent shape the teacher's
// ELF loader uses to walk nested program segments.
package fparray

import (
	"github.com/sarchlab/m2fixed/complexfp"
	"github.com/sarchlab/m2fixed/fixed"
)

// Node is either a scalar float64 leaf or a nested slice of Nodes, the
// "nested ordered sequence" spec.md §4.6 operates over.
type Node struct {
	Leaf     bool
	Value    float64
	Children []Node
}

// Leaf builds a scalar Node.
func Leaf(v float64) Node { return Node{Leaf: true, Value: v} }

// Branch builds a nested Node from children.
func Branch(children ...Node) Node { return Node{Children: children} }

// RealTree mirrors Node's shape with *fixed.Real scalars at the leaves.
type RealTree struct {
	Leaf     bool
	Value    *fixed.Real
	Children []RealTree
}

// FromArray walks seq and constructs a Real at each scalar leaf with the
// given (I, F, signed), yielding a nested tree mirroring the input shape
// (spec.md §4.6's fpbinary_list_from_array).
func FromArray(seq Node, intBits, fracBits int64, signed bool) (RealTree, error) {
	if seq.Leaf {
		r, err := fixed.New(
			fixed.WithIntBits(intBits),
			fixed.WithFracBits(fracBits),
			fixed.WithSigned(signed),
			fixed.WithValue(seq.Value),
		)
		if err != nil {
			return RealTree{}, err
		}
		return RealTree{Leaf: true, Value: r}, nil
	}

	children := make([]RealTree, len(seq.Children))
	for i, child := range seq.Children {
		out, err := FromArray(child, intBits, fracBits, signed)
		if err != nil {
			return RealTree{}, err
		}
		children[i] = out
	}
	return RealTree{Children: children}, nil
}

// FromArrayLike copies (I, F, signed) from formatInst rather than taking
// them explicitly, per spec.md §4.6's "format copied from format_inst".
func FromArrayLike(seq Node, formatInst *fixed.Real) (RealTree, error) {
	return FromArray(seq, formatInst.IntBits(), formatInst.FracBits(), formatInst.Signed())
}

// Resize recursively invokes Resize on every leaf in place (spec.md
// §4.6's array_resize).
func Resize(tree RealTree, newFormat fixed.Format, ovf fixed.OverflowMode, rnd fixed.RoundMode) error {
	if tree.Leaf {
		return tree.Value.Resize(newFormat, ovf, rnd)
	}
	for _, child := range tree.Children {
		if err := Resize(child, newFormat, ovf, rnd); err != nil {
			return err
		}
	}
	return nil
}

// ComplexNode mirrors Node but a leaf may carry both a real and an
// imaginary component; a purely-real scalar leaves Imag at its zero
// value, which ComplexFromArray treats as imag=0 per spec.md §4.6.
type ComplexNode struct {
	Leaf     bool
	Real     float64
	Imag     float64
	Children []ComplexNode
}

// RealLeaf builds a ComplexNode leaf with a zero imaginary part.
func RealLeaf(v float64) ComplexNode { return ComplexNode{Leaf: true, Real: v} }

// ComplexLeaf builds a ComplexNode leaf with both parts set.
func ComplexLeaf(re, im float64) ComplexNode { return ComplexNode{Leaf: true, Real: re, Imag: im} }

// ComplexBranch builds a nested ComplexNode from children.
func ComplexBranch(children ...ComplexNode) ComplexNode {
	return ComplexNode{Children: children}
}

// ComplexTree mirrors ComplexNode's shape with *complexfp.Complex scalars
// at the leaves.
type ComplexTree struct {
	Leaf     bool
	Value    *complexfp.Complex
	Children []ComplexTree
}

// ComplexFromArray walks seq and constructs a Complex at each scalar
// leaf; a real scalar's leaf gets imag=0 (spec.md §4.6's
// fpbinarycomplex_list_from_array).
func ComplexFromArray(seq ComplexNode, intBits, fracBits int64, signed bool) (ComplexTree, error) {
	if seq.Leaf {
		re, err := fixed.New(
			fixed.WithIntBits(intBits),
			fixed.WithFracBits(fracBits),
			fixed.WithSigned(signed),
			fixed.WithValue(seq.Real),
		)
		if err != nil {
			return ComplexTree{}, err
		}
		im, err := fixed.New(
			fixed.WithIntBits(intBits),
			fixed.WithFracBits(fracBits),
			fixed.WithSigned(signed),
			fixed.WithValue(seq.Imag),
		)
		if err != nil {
			return ComplexTree{}, err
		}
		c, err := complexfp.New(re, im)
		if err != nil {
			return ComplexTree{}, err
		}
		return ComplexTree{Leaf: true, Value: c}, nil
	}

	children := make([]ComplexTree, len(seq.Children))
	for i, child := range seq.Children {
		out, err := ComplexFromArray(child, intBits, fracBits, signed)
		if err != nil {
			return ComplexTree{}, err
		}
		children[i] = out
	}
	return ComplexTree{Children: children}, nil
}

// ComplexResize recursively resizes every Complex leaf in place.
func ComplexResize(tree ComplexTree, newFormat fixed.Format, ovf fixed.OverflowMode, rnd fixed.RoundMode) error {
	if tree.Leaf {
		return tree.Value.Resize(newFormat, ovf, rnd)
	}
	for _, child := range tree.Children {
		if err := ComplexResize(child, newFormat, ovf, rnd); err != nil {
			return err
		}
	}
	return nil
}
