package enumerator

import "github.com/northfold/polyenum/internal/bitgrid"

// validityOracle answers whether the last-chosen pixel could have split
// the white complement. The 256-entry table depends only
// on (A, B) and is derived once at construction.
type validityOracle struct {
	table [256]bool
}

// neighbourhood bit layout, in raster order:
//
//	a b c
//	d · f
//	g h i
const (
	bitA = 1 << 0
	bitB = 1 << 1
	bitC = 1 << 2
	bitD = 1 << 3
	bitF = 1 << 4
	bitG = 1 << 5
	bitH = 1 << 6
	bitI = 1 << 7
)

func newValidityOracle(a Connectivity, b WhiteConnectivity) *validityOracle {
	o := &validityOracle{}
	for n := 0; n < 256; n++ {
		av := n&bitA != 0
		bv := n&bitB != 0
		cv := n&bitC != 0
		dv := n&bitD != 0
		fv := n&bitF != 0
		gv := n&bitG != 0
		hv := n&bitH != 0
		iv := n&bitI != 0

		btoi := func(v bool) int {
			if v {
				return 1
			}
			return 0
		}

		base := btoi(av && !bv) + btoi(bv && !cv) + btoi(cv && !fv) + btoi(fv && !iv) +
			btoi(iv && !hv) + btoi(hv && !gv) + btoi(gv && !dv) + btoi(dv && !av)

		if b == WhiteEight {
			base -= btoi(av && !bv && !dv) + btoi(cv && !bv && !fv) +
				btoi(gv && !dv && !hv) + btoi(iv && !fv && !hv)
		}
		if a == Eight && b == WhiteFour {
			base -= btoi(!av && bv && dv) + btoi(!cv && bv && fv) +
				btoi(!gv && dv && hv) + btoi(!iv && fv && hv)
		}

		o.table[n] = base <= 1
	}
	return o
}

// floodState is the scratch area used only for the (A=8, B=8) global
// flood-fill tiebreaker. It is embedded in the Enumerator rather than
// allocated per call,.
type floodState struct {
	grid  *bitgrid.Grid
	queue []int
	count int
}

func newFloodState(gridSize, queueCapacity int) *floodState {
	return &floodState{
		grid:  bitgrid.New(gridSize),
		queue: make([]int, queueCapacity),
	}
}

func (f *floodState) push(grid *bitgrid.Grid, pos int) {
	if grid.Get(pos) {
		grid.Reset(pos)
		f.queue[f.count] = pos
		f.count++
	}
}

// checkValidity decides whether the last-placed pixel preserved the
// white complement's connectivity: if B is disabled every figure is
// valid; otherwise the 256-entry table is consulted, falling back to a
// global flood-fill only for (A=8, B=8) local rejections.
func (e *Enumerator) checkValidity() bool {
	if e.cfg.B == WhiteDisabled {
		return true
	}

	pos := e.candidates[e.chosenIndices[e.level]]
	a := e.gridChosen.Get(pos + e.upLeft)
	b := e.gridChosen.Get(pos + e.up)
	c := e.gridChosen.Get(pos + e.upRight)
	d := e.gridChosen.Get(pos + e.left)
	f := e.gridChosen.Get(pos + e.right)
	g := e.gridChosen.Get(pos + e.downLeft)
	h := e.gridChosen.Get(pos + e.down)
	i := e.gridChosen.Get(pos + e.downRight)

	bit := func(v bool, mask int) int {
		if v {
			return mask
		}
		return 0
	}
	neighbourhood := bit(a, bitA) | bit(b, bitB) | bit(c, bitC) | bit(d, bitD) |
		bit(f, bitF) | bit(g, bitG) | bit(h, bitH) | bit(i, bitI)

	result := e.validity.table[neighbourhood]

	if !result && e.cfg.A == Eight && e.cfg.B == WhiteEight {
		result = e.floodCheck()
	}

	if e.stats != nil && !result {
		e.stats.Rejected++
	}
	return result
}

// floodCheck is the global tiebreaker for the (A=8, B=8) case: seed a
// BFS/DFS from the cell just outside the forbidden strip, over the
// currently unchosen candidates, and accept iff every such cell is reached.
func (e *Enumerator) floodCheck() bool {
	v := e.visit
	v.grid.AndNot(e.gridCandidates, e.gridChosen)

	firstVisitPos := e.posOrigin + e.downLeft
	v.grid.ClearRange(firstVisitPos, true)

	// The seed itself is pushed unconditionally: FirstVisitPos is a fixed
	// traversal anchor just outside the forbidden strip, not necessarily
	// a live candidate itself.
	v.queue[0] = firstVisitPos
	v.count = 1

	for v.count > 0 {
		v.count--
		p := v.queue[v.count]
		v.push(v.grid, p+e.right)
		v.push(v.grid, p+e.upRight)
		v.push(v.grid, p+e.up)
		v.push(v.grid, p+e.upLeft)
		v.push(v.grid, p+e.left)
		v.push(v.grid, p+e.downLeft)
		v.push(v.grid, p+e.down)
		v.push(v.grid, p+e.downRight)
	}

	return v.grid.IsZero()
}
