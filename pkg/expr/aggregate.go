package expr

// Aggregation functions share a common shape: navigate to an array node,
// then fold a per-element body expression evaluated with the cursor
// positioned on each element in turn (so `.` / TagHere inside the body
// means "this element", matching the navigation style used everywhere
// else in this package).

// collectArray evaluates pathNode to a node Value, then evaluates body
// once per array element with the cursor positioned there, returning the
// per-element results in order. The outer cursor position is restored
// before returning.
func collectArray(n *Node, h Host, in *info, pathNode, body *Node) ([]Value, error) {
	pathV, err := eval(pathNode, h, in)
	if err != nil {
		return nil, err
	}
	if pathV.Kind != KindNode {
		return nil, evalErr(n, "aggregation path must be a node expression")
	}
	outerMark := h.Mark()
	defer h.Reset(outerMark)
	h.Reset(pathV.NodePos)
	count, err := h.NumElements()
	if err != nil {
		return nil, evalErr(n, "%w", err)
	}
	basePos := h.Mark()
	results := make([]Value, 0, count)
	for idx := int64(0); idx < count; idx++ {
		h.Reset(basePos)
		if err := h.GotoIndex(idx); err != nil {
			return nil, evalErr(n, "%w", err)
		}
		v, err := evalScalar(body, h, in)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

func evalAggregate(n *Node, h Host, in *info) (Value, error) {
	switch n.Tag {
	case TagCount:
		return evalCount(n, h, in)
	case TagAdd_, TagMin, TagMax:
		return evalReduce(n, h, in)
	case TagAll, TagExists:
		return evalPredicateScan(n, h, in)
	case TagIndexOf, TagUnboundIndex:
		return evalIndexOf(n, h, in)
	}
	return Value{}, evalErr(n, "unhandled aggregation tag")
}

func evalCount(n *Node, h Host, in *info) (Value, error) {
	pathV, err := eval(n.Operands[0], h, in)
	if err != nil {
		return Value{}, err
	}
	if pathV.Kind != KindNode {
		return Value{}, evalErr(n, "count() requires a node expression")
	}
	mark := h.Mark()
	defer h.Reset(mark)
	h.Reset(pathV.NodePos)
	c, err := h.NumElements()
	if err != nil {
		return Value{}, evalErr(n, "%w", err)
	}
	return intVal(c), nil
}

func evalReduce(n *Node, h Host, in *info) (Value, error) {
	values, err := collectArray(n, h, in, n.Operands[0], n.Operands[1])
	if err != nil {
		return Value{}, err
	}
	if len(values) == 0 {
		return Value{}, evalErr(n, "aggregation over an empty array has no result")
	}
	allInt := true
	for _, v := range values {
		switch v.Kind {
		case KindInt:
		case KindFloat:
			allInt = false
		default:
			return Value{}, evalErr(n, "aggregation body must evaluate to a numeric value")
		}
	}
	if allInt {
		acc := values[0].Int
		for _, v := range values[1:] {
			switch n.Tag {
			case TagAdd_:
				acc += v.Int
			case TagMin:
				if v.Int < acc {
					acc = v.Int
				}
			case TagMax:
				if v.Int > acc {
					acc = v.Int
				}
			}
		}
		return intVal(acc), nil
	}
	acc, _ := values[0].AsFloat()
	for _, v := range values[1:] {
		f, _ := v.AsFloat()
		switch n.Tag {
		case TagAdd_:
			acc += f
		case TagMin:
			if f < acc {
				acc = f
			}
		case TagMax:
			if f > acc {
				acc = f
			}
		}
	}
	return floatVal(acc), nil
}

func evalPredicateScan(n *Node, h Host, in *info) (Value, error) {
	values, err := collectArray(n, h, in, n.Operands[0], n.Operands[1])
	if err != nil {
		return Value{}, err
	}
	for _, v := range values {
		b, err := v.AsBool()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		if n.Tag == TagAll && !b {
			return boolVal(false), nil
		}
		if n.Tag == TagExists && b {
			return boolVal(true), nil
		}
	}
	return boolVal(n.Tag == TagAll), nil
}

// evalIndexOf implements index() (bound: errors if nothing matches) and
// unboundindex() (returns -1 instead of erroring, spec.md §4.7's relaxed
// variant used for optional-field probing).
func evalIndexOf(n *Node, h Host, in *info) (Value, error) {
	values, err := collectArray(n, h, in, n.Operands[0], n.Operands[1])
	if err != nil {
		return Value{}, err
	}
	for i, v := range values {
		b, err := v.AsBool()
		if err != nil {
			return Value{}, evalErr(n, "%w", err)
		}
		if b {
			return intVal(int64(i)), nil
		}
	}
	if n.Tag == TagUnboundIndex {
		return intVal(-1), nil
	}
	return Value{}, evalErr(n, "index(): no array element satisfies the predicate")
}
