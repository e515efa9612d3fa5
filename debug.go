package bloomtree

import (
	"fmt"
	"io"
)

// debugLog prints a stage transition with the tree's actor counts.
func (s *Sequencer) debugLog(from, to Stage) {
	if !s.debug || s.debugOut == nil {
		return
	}
	t := s.tree
	_, _ = fmt.Fprintf(s.debugOut,
		"[bloomtree] stage: %s -> %s | ticks: %d | elapsed: %v\n", from, to, s.ticks, s.elapsed)
	_, _ = fmt.Fprintf(s.debugOut,
		"[bloomtree] branches: %d | blooms: %d | reservoir: %d\n",
		len(t.branches), len(t.blooms), len(t.reservoir))
}

// debugCheckPlacement warns when the heart region rejected some reservoir
// blooms. A large count usually means the bloom box or radius is off.
func debugCheckPlacement(w io.Writer, t *Tree) {
	if t.placementFailures == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "[bloomtree] warning: %d of %d blooms could not be placed (box %vx%v, radius %v)\n",
		t.placementFailures, t.cfg.Bloom.Count, t.cfg.Bloom.Width, t.cfg.Bloom.Height, t.cfg.Bloom.Radius)
}

// debugMaxBranchDepth is the nesting level past which the branch forest is
// reported as suspicious.
const debugMaxBranchDepth = 16

func debugCheckBranchDepth(w io.Writer, specs []BranchSpec) {
	if d := branchDepth(specs); d > debugMaxBranchDepth {
		_, _ = fmt.Fprintf(w, "[bloomtree] warning: branch depth %d exceeds %d\n", d, debugMaxBranchDepth)
	}
}

// branchDepth returns the deepest nesting level of specs.
func branchDepth(specs []BranchSpec) int {
	depth := 0
	for i := range specs {
		depth = max(depth, 1+branchDepth(specs[i].Children))
	}
	return depth
}

// debugTextError reports text that could not be drawn.
func debugTextError(w io.Writer, s string, err error) {
	if w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "[bloomtree] warning: text %q not drawn: %v\n", s, err)
}
