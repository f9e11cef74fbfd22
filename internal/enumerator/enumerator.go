// Package enumerator implements the incremental polyomino enumerator:
// a single stateful value that walks the rooted tree of polyominoes via
// three primitive DFS moves (firstChild, nextSibling, parent), reporting
// each valid figure through a callback. All capacity is fixed at
// construction time; the walk itself (Init, the moves, NextStep,
// Generate, ResumeSplit) does not allocate. Clone, Split and the
// FigureView's Pixels and Picture do allocate.
package enumerator

import "github.com/northfold/polyenum/internal/bitgrid"

// Stats partitions the tree walk when enabled at construction. The
// identities nonLeaf+leaf == total valid figures and rejected == oracle
// rejections are themselves testable.
type Stats struct {
	NonLeaf  uint64
	Leaf     uint64
	Rejected uint64
}

// Enumerator is a specialized state machine over a fixed (N, A, B).
// It is created by New, reset to the single-pixel figure by Init, and
// mutated only by firstChild/nextSibling/parent.
type Enumerator struct {
	cfg Config

	width, height, gridSize int
	posOrigin               int

	right, left, up, down                       int
	upLeft, upRight, downLeft, downRight         int

	level int
	count int

	candidateCounts []int
	chosenIndices   []int
	candidates      []int

	gridCandidates *bitgrid.Grid
	gridChosen     *bitgrid.Grid // nil when cfg.B == WhiteDisabled

	validity *validityOracle // nil when cfg.B == WhiteDisabled
	visit    *floodState     // non-nil only for (A=8, B=8)

	stats *Stats
}

// candidateCapacity bounds the candidate list across the whole walk:
// the origin adds at most 4 new candidates (its left and lower
// neighbours lie in the forbidden strip), and every later chosen pixel
// at most 5 (the pixel whose expansion offered it, and at least two of
// their common neighbours, are already candidates). Only the first N-1
// chosen pixels are ever expanded, so 1+4+5*(N-2) < 5*N.
func candidateCapacity(n int) int {
	return 5 * n
}

// New builds an Enumerator for the given configuration, rejecting
// unsupported (A, B) combinations or an out-of-range N before any state
// is touched.
func New(cfg Config) (*Enumerator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Enumerator{cfg: cfg}
	e.width = 2*cfg.N + 3
	e.height = cfg.N + 4
	e.gridSize = e.width * e.height
	e.posOrigin = e.width/2 + 2*e.width

	e.right, e.left = 1, -1
	e.up, e.down = e.width, -e.width
	e.upLeft, e.upRight = e.up+e.left, e.up+e.right
	e.downLeft, e.downRight = e.down+e.left, e.down+e.right

	e.candidateCounts = make([]int, cfg.N)
	e.chosenIndices = make([]int, cfg.N)
	e.candidates = make([]int, candidateCapacity(cfg.N))

	e.gridCandidates = bitgrid.New(e.gridSize)
	if cfg.B != WhiteDisabled {
		e.gridChosen = bitgrid.New(e.gridSize)
		e.validity = newValidityOracle(cfg.A, cfg.B)
	}
	if cfg.A == Eight && cfg.B == WhiteEight {
		e.visit = newFloodState(e.gridSize, candidateCapacity(cfg.N)+e.width+1)
	}
	if cfg.Stats {
		e.stats = &Stats{}
	}

	e.Init()
	return e, nil
}

// Init resets the enumerator to the single-pixel figure rooted at the
// grid's origin.
func (e *Enumerator) Init() {
	e.gridCandidates.Clear()
	if e.gridChosen != nil {
		e.gridChosen.Clear()
	}
	if e.stats != nil {
		*e.stats = Stats{}
	}

	e.candidates[0] = e.posOrigin
	e.count = 1
	e.candidateCounts[0] = 1
	for pos := 0; pos <= e.posOrigin; pos++ {
		e.gridCandidates.Set(pos)
	}
	e.chosenIndices[0] = 0
	if e.gridChosen != nil {
		e.gridChosen.Set(e.posOrigin)
	}
	e.level = 0
}

// Stats returns the current statistics snapshot, or nil if statistics
// were not enabled at construction.
func (e *Enumerator) Stats() *Stats {
	if e.stats == nil {
		return nil
	}
	s := *e.stats
	return &s
}

// Level returns the current depth (figure size is Level()+1).
func (e *Enumerator) Level() int {
	return e.level
}

// GridSize returns the number of addressable positions in the working
// grid backing this enumerator's candidate and chosen bitsets.
func (e *Enumerator) GridSize() int {
	return e.gridCandidates.Size()
}

// firstChild attempts to extend the current figure by one pixel
//. It returns false, leaving the state untouched beyond
// bookkeeping, when the current figure is a dead end.
func (e *Enumerator) firstChild() bool {
	idx := e.chosenIndices[e.level]
	pos := e.candidates[idx]

	add := func(p int) {
		if !e.gridCandidates.Get(p) {
			e.gridCandidates.Set(p)
			e.candidates[e.count] = p
			e.count++
		}
	}

	if e.cfg.A == Four {
		add(pos + e.right)
		add(pos + e.up)
		add(pos + e.left)
		add(pos + e.down)
	} else {
		add(pos + e.right)
		add(pos + e.upRight)
		add(pos + e.up)
		add(pos + e.upLeft)
		add(pos + e.left)
		add(pos + e.downLeft)
		add(pos + e.down)
		add(pos + e.downRight)
	}

	if idx+1 == e.count {
		if e.stats != nil {
			e.stats.NonLeaf++
		}
		return false
	}

	e.level++
	e.candidateCounts[e.level] = e.count
	e.chosenIndices[e.level] = idx + 1
	if e.gridChosen != nil {
		e.gridChosen.Set(e.candidates[idx+1])
	}
	if e.stats != nil {
		e.stats.Leaf++
	}
	return true
}

// nextSibling tries the next available candidate at the current depth
//.
func (e *Enumerator) nextSibling() bool {
	idx := e.chosenIndices[e.level]
	if idx+1 >= e.count {
		return false
	}
	if e.gridChosen != nil {
		e.gridChosen.Reset(e.candidates[idx])
		e.gridChosen.Set(e.candidates[idx+1])
	}
	e.chosenIndices[e.level] = idx + 1
	return true
}

// parent unwinds one depth.
func (e *Enumerator) parent() {
	if e.gridChosen != nil {
		e.gridChosen.Reset(e.candidates[e.chosenIndices[e.level]])
	}
	e.level--
	for idx := e.candidateCounts[e.level]; idx < e.count; idx++ {
		e.gridCandidates.Reset(e.candidates[idx])
	}
	e.count = e.candidateCounts[e.level]
}

// nextStepBounded is the shared engine behind the public NextStep,
// Generate and ResumeSplit: advance to the next figure whose depth is
// strictly above minLevel, returning false once the walk would have to
// pop back to or past minLevel.
func (e *Enumerator) nextStepBounded(nmax, minLevel int) bool {
	if nmax > e.cfg.N {
		nmax = e.cfg.N
	}
	maxLevel := nmax - 1

	if e.level < maxLevel {
		if e.firstChild() {
			if e.checkValidity() {
				return true
			}
		}
	} else if e.stats != nil {
		e.stats.NonLeaf++
	}
	for {
		for {
			if e.level <= minLevel {
				return false
			}
			if e.nextSibling() {
				break
			}
			e.parent()
		}
		if e.checkValidity() {
			return true
		}
	}
}

// NextStep advances to the next valid figure, or returns false once
// enumeration is complete.
func (e *Enumerator) NextStep(nmax int) bool {
	return e.nextStepBounded(nmax, 0)
}

// drive repeatedly invokes callback on the current figure and advances
// via nextStepBounded until the bounded walk is exhausted.
func (e *Enumerator) drive(callback func(FigureView), nmax, minLevel int) {
	for {
		callback(e.View())
		if !e.nextStepBounded(nmax, minLevel) {
			return
		}
	}
}

// Generate drives enumeration to completion from the current state,
// invoking callback once per valid figure.
func (e *Enumerator) Generate(callback func(FigureView), nmax int) {
	e.drive(callback, nmax, 0)
}

// ResumeSplit drives enumeration through the subtree rooted at the
// enumerator's current state only, stopping rather than ascending above
// its starting depth. It is the resumption contract split copies honor
//.
func (e *Enumerator) ResumeSplit(callback func(FigureView), nmax int) {
	e.drive(callback, nmax, e.level)
}
