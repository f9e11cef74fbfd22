package enumerator

// Clone returns an independent deep copy: a value copy of every array
// and bit grid, sharing nothing mutable with e. The validity lookup
// table is immutable after construction and so is shared rather than
// copied.
func (e *Enumerator) Clone() *Enumerator {
	clone := &Enumerator{
		cfg:        e.cfg,
		width:      e.width,
		height:     e.height,
		gridSize:   e.gridSize,
		posOrigin:  e.posOrigin,
		right:      e.right,
		left:       e.left,
		up:         e.up,
		down:       e.down,
		upLeft:     e.upLeft,
		upRight:    e.upRight,
		downLeft:   e.downLeft,
		downRight:  e.downRight,
		level:      e.level,
		count:      e.count,
		validity:   e.validity,
	}

	clone.candidateCounts = append([]int(nil), e.candidateCounts...)
	clone.chosenIndices = append([]int(nil), e.chosenIndices...)
	clone.candidates = append([]int(nil), e.candidates...)
	clone.gridCandidates = e.gridCandidates.Clone()

	if e.gridChosen != nil {
		clone.gridChosen = e.gridChosen.Clone()
	}
	if e.visit != nil {
		clone.visit = newFloodState(e.gridSize, len(e.visit.queue))
	}
	if e.stats != nil {
		s := *e.stats
		clone.stats = &s
	}
	return clone
}

// Split drives the DFS single-threaded to the given depth, recording an
// independent clone every time the walk reaches a figure of exactly
// depth pixels (level == depth-1), and returns those clones without
// descending into their subtrees itself. Each returned Enumerator, when
// driven with ResumeSplit, visits exactly the subtree rooted at its own
// prefix.
//
// report, if non-nil, is invoked once for every figure the discovery
// walk visits strictly above the split depth (sizes 1..depth-1) —
// mirroring the single-threaded counting phase in the reference
// split-and-parallelize drivers, which tally every figure it passes
// through before deciding whether to hand a prefix off to a worker.
// The figure at exactly the split depth is not passed to report: it is
// instead reported once by the corresponding clone's own ResumeSplit
// call, so report and ResumeSplit together account for every size
// exactly once.
//
// The discovery walk keeps accumulating into e's own Stats for as long
// as Split runs, so the caller can read e.Stats() once Split returns to
// get the discovery phase's total. Each recorded clone starts its own
// Stats back at zero: a clone captured midway through the walk must not
// carry the running discovery total as if it were its own, or summing
// every clone's post-ResumeSplit stats would count that shared prefix
// once per clone instead of once overall.
func (e *Enumerator) Split(depth int, report func(FigureView)) []*Enumerator {
	maxLevel := depth - 1
	if maxLevel < 0 {
		maxLevel = 0
	}
	if maxLevel > e.cfg.N-1 {
		maxLevel = e.cfg.N - 1
	}

	var prefixes []*Enumerator
	for {
		for e.checkValidity() {
			if e.level == maxLevel {
				clone := e.Clone()
				if clone.stats != nil {
					*clone.stats = Stats{}
				}
				prefixes = append(prefixes, clone)
				break
			}
			if report != nil {
				report(e.View())
			}
			if !e.firstChild() {
				break
			}
		}
		for !e.nextSibling() {
			if e.level == 0 {
				return prefixes
			}
			e.parent()
		}
	}
}
