package expr

// neverConstantTags enumerates the tags spec.md §4.7 singles out as never
// constant-foldable even when every operand is constant, because they read
// product-level state that isn't available until a product is open.
var neverConstantTags = map[Tag]bool{
	TagFileSize:       true,
	TagFileName:       true,
	TagProductClass:   true,
	TagProductFormat:  true,
	TagProductType:    true,
	TagProductVersion: true,
	TagVarRef:          true,
	TagVarIndex:        true,
	TagVarSearchExists: true,
	TagVarSearchIndex:  true,
	// VarAssign/VarIndexAssign always call Host.VarSet, regardless of
	// whether their value operand happens to be constant; Subscript always
	// calls Host.Mark/GotoIndex on the ambient cursor position even when
	// its index operand is a literal. None of these can run without a host.
	TagVarAssign:      true,
	TagVarIndexAssign: true,
	TagSubscript:      true,
}

// Fold walks the tree bottom-up, marking every node whose tag is eligible
// and whose operands (if any) are all constant. Evaluators may later run
// constant subtrees without a cursor (property 6, spec.md §8).
func Fold(n *Node) {
	if n == nil {
		return
	}
	for _, op := range n.Operands {
		Fold(op)
	}
	if neverConstantTags[n.Tag] {
		n.constant = false
		n.constFolded = true
		return
	}
	switch n.Tag {
	case TagLiteralBool, TagLiteralInt, TagLiteralFloat, TagLiteralString, TagLiteralRawString:
		n.constant = true
	case TagHere, TagRoot, TagParent, TagField, TagAttribute, TagASCIILine,
		TagBitSize, TagByteSize, TagBitOffset, TagByteOffset, TagNumElements,
		TagDim, TagNumDims, TagLength, TagGoto, TagAt, TagIndexInParent,
		TagAdd_, TagMin, TagMax, TagCount, TagAll, TagExists, TagIndexOf, TagUnboundIndex:
		// Path-dependent nodes are never constant: they need a live cursor
		// even if their sub-expressions happen to be constant.
		n.constant = false
	default:
		allConst := true
		for _, op := range n.Operands {
			if op != nil && !op.constant {
				allConst = false
				break
			}
		}
		n.constant = allConst
	}
	n.constFolded = true
}

// Equal reports structural equality: same tag, same identifier (if any),
// and pairwise-equal operands. Literals compare by value.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag || a.Ident != b.Ident || a.Step != b.Step {
		return false
	}
	switch a.Tag {
	case TagLiteralBool:
		if a.BoolVal != b.BoolVal {
			return false
		}
	case TagLiteralInt:
		if a.IntVal != b.IntVal {
			return false
		}
	case TagLiteralFloat:
		if a.FloatVal != b.FloatVal {
			return false
		}
	case TagLiteralString, TagLiteralRawString:
		if a.StrVal != b.StrVal {
			return false
		}
	}
	for i := range a.Operands {
		if !Equal(a.Operands[i], b.Operands[i]) {
			return false
		}
	}
	return true
}
