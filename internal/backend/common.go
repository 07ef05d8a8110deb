package backend

import "github.com/scicoda/coda/internal/dynamictype"

// shiftedNode returns a shallow copy of n repositioned at a different bit
// offset/size, used by bulk array reads to step a scratch Node across
// contiguous elements without mutating the caller's node.
func shiftedNode(n *dynamictype.Node, bitOffset, bitSize int64) *dynamictype.Node {
	return &dynamictype.Node{Type: n.Type, BitOffset: bitOffset, BitSize: bitSize, Attributes: n.Attributes, Native: n.Native}
}
