package expr

import "fmt"

// Limits bounds expression construction and evaluation. Grounded on the
// teacher's registry-tree depth-limit pattern (Limits / ValidationError in
// the now-removed pkg/ast/limits.go) and generalized from tree depth to
// expression nesting depth.
type Limits struct {
	// MaxDepth bounds AST nesting depth, checked at build time (not at
	// evaluation time): expressions deeper than this are rejected by the
	// parser/builder, never by the evaluator.
	MaxDepth int

	// MaxLoopIterations bounds a single for-loop's iteration count, a
	// defensive limit with no source equivalent but consistent with this
	// module's stance of never trusting a product file's own declared
	// bounds uncritically. The evaluator always applies
	// DefaultLimits().MaxLoopIterations; the value in a Limits passed to
	// Parse is not consulted.
	MaxLoopIterations int64
}

// DefaultLimits matches spec.md §4.7's "compile-time limit — e.g. 10000".
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:          10000,
		MaxLoopIterations: 100_000_000,
	}
}

// ValidationError reports a limit violation caught during AST construction.
type ValidationError struct {
	Limit   string
	Current int64
	Maximum int64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("expr: limit exceeded: %s is %d (max %d)", e.Limit, e.Current, e.Maximum)
}

// Depth returns the AST's maximum nesting depth.
func Depth(n *Node) int {
	if n == nil {
		return 0
	}
	max := 0
	for _, op := range n.Operands {
		if d := Depth(op); d > max {
			max = d
		}
	}
	return max + 1
}

// CheckDepth validates n against lim, returning a *ValidationError if the
// tree is too deep. Builders (the parser) call this once per completed
// expression, honoring spec.md's "rejected when built, not at evaluation
// time."
func CheckDepth(n *Node, lim Limits) error {
	d := Depth(n)
	if int64(d) > int64(lim.MaxDepth) {
		return &ValidationError{Limit: "MaxDepth", Current: int64(d), Maximum: int64(lim.MaxDepth)}
	}
	return nil
}
