package enumerator

import (
	"testing"

	"github.com/northfold/polyenum/internal/oeis"
)

func countBySize(t *testing.T, cfg Config) []uint64 {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New(%+v): %v", cfg, err)
	}
	counts := make([]uint64, cfg.N+1)
	e.Generate(func(v FigureView) {
		counts[v.Size()]++
	}, cfg.N)
	return counts
}

// Reference counts for (A=4, B=0).
func TestReferenceCountsFourConnectedUnconstrained(t *testing.T) {
	const n = 12
	counts := countBySize(t, Config{N: n, A: Four, B: WhiteDisabled})
	for k := 1; k <= n; k++ {
		if counts[k] != oeis.FourConnected[k] {
			t.Errorf("k=%d: got %d, want %d", k, counts[k], oeis.FourConnected[k])
		}
	}
}

// Reference counts for (A=8, B=0).
func TestReferenceCountsEightConnectedUnconstrained(t *testing.T) {
	const n = 10
	counts := countBySize(t, Config{N: n, A: Eight, B: WhiteDisabled})
	for k := 1; k <= n; k++ {
		if counts[k] != oeis.EightConnected[k] {
			t.Errorf("k=%d: got %d, want %d", k, counts[k], oeis.EightConnected[k])
		}
	}
}

// End-to-end scenario 2: (N=4, A=4, B=4) counts per size 1,2,3,4 = 1,2,6,19.
func TestScenarioFourFour(t *testing.T) {
	counts := countBySize(t, Config{N: 4, A: Four, B: WhiteFour})
	want := []uint64{0, 1, 2, 6, 19}
	for k := 1; k <= 4; k++ {
		if counts[k] != want[k] {
			t.Errorf("k=%d: got %d, want %d", k, counts[k], want[k])
		}
	}
}

// End-to-end scenario 3: (N=5, A=8, B=0) counts 1,4,20,110,638.
func TestScenarioEightUnconstrained(t *testing.T) {
	counts := countBySize(t, Config{N: 5, A: Eight, B: WhiteDisabled})
	want := []uint64{0, 1, 4, 20, 110, 638}
	for k := 1; k <= 5; k++ {
		if counts[k] != want[k] {
			t.Errorf("k=%d: got %d, want %d", k, counts[k], want[k])
		}
	}
}

// End-to-end scenario 1: a single pixel, callback invoked exactly once.
func TestScenarioSinglePixel(t *testing.T) {
	e, err := New(Config{N: 1, A: Four, B: WhiteDisabled})
	if err != nil {
		t.Fatal(err)
	}
	calls := 0
	e.Generate(func(v FigureView) {
		calls++
		if v.Level() != 0 {
			t.Errorf("expected level 0, got %d", v.Level())
		}
	}, 1)
	if calls != 1 {
		t.Errorf("expected exactly one callback invocation, got %d", calls)
	}
}

// End-to-end scenario 6: an unsupported (A,B) combination is rejected
// before any state is touched.
func TestRejectsUnsupportedConnectivity(t *testing.T) {
	_, err := New(Config{N: 4, A: Four, B: WhiteConnectivity(2)})
	if err == nil {
		t.Fatalf("expected an error for B=2")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected a *ConfigError, got %T", err)
	}
}

// Disabling the validity check never yields fewer figures.
func TestMonotonicity(t *testing.T) {
	const n = 8
	unconstrained := countBySize(t, Config{N: n, A: Four, B: WhiteDisabled})
	constrained := countBySize(t, Config{N: n, A: Four, B: WhiteFour})
	if !oeis.Monotone(unconstrained, constrained) {
		t.Errorf("constrained counts %v are not dominated by unconstrained counts %v", constrained, unconstrained)
	}
}

// Every emitted figure's lex-smallest pixel (row-major, bottom-up)
// sits at the grid's origin.
func TestCanonicalOrigin(t *testing.T) {
	cfg := Config{N: 6, A: Eight, B: WhiteFour}
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	origin := Coordinate{Row: e.posOrigin / e.width, Col: e.posOrigin % e.width}
	e.Generate(func(v FigureView) {
		pixels := v.Pixels()
		minRow := pixels[0].Row
		for _, p := range pixels {
			if p.Row < minRow {
				minRow = p.Row
			}
		}
		if minRow != origin.Row {
			t.Fatalf("figure's bottom row %d does not match origin row %d", minRow, origin.Row)
		}
		minCol := -1
		for _, p := range pixels {
			if p.Row == minRow {
				if minCol == -1 || p.Col < minCol {
					minCol = p.Col
				}
			}
		}
		if minCol != origin.Col {
			t.Fatalf("leftmost pixel in bottom row has col %d, want origin col %d", minCol, origin.Col)
		}
	}, cfg.N)
}

// Every figure Generate emits has already passed checkValidity, so
// re-running the check on the live state it left behind must still
// accept.
func TestValidityAcceptsGeneratedFigures(t *testing.T) {
	cfg := Config{N: 6, A: Eight, B: WhiteEight}
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	e.Generate(func(v FigureView) {
		if !e.checkValidity() {
			t.Fatalf("a figure reported valid by Generate failed re-validation")
		}
	}, cfg.N)
}

// A neighbourhood chosen only at up and down (bitB, bitH) splits the
// white complement into two disjoint arcs on either side of the pixel:
// the table must reject it regardless of which (A,B) pair is in force,
// since none of the three supported pairs' corner corrections apply
// when neither diagonal nor side neighbour is chosen.
func TestValidityOracleRejectsSplitNeighbourhood(t *testing.T) {
	const splitNeighbourhood = bitB | bitH
	cases := []struct {
		name string
		a    Connectivity
		b    WhiteConnectivity
	}{
		{"four-four", Four, WhiteFour},
		{"eight-four", Eight, WhiteFour},
		{"eight-eight", Eight, WhiteEight},
	}
	for _, c := range cases {
		oracle := newValidityOracle(c.a, c.b)
		if oracle.table[splitNeighbourhood] {
			t.Errorf("%s: neighbourhood %08b (up+down only) should split the white complement", c.name, splitNeighbourhood)
		}
	}
}

// parent(firstChild(S)) restores S exactly, and re-running
// nextSibling after restoring chosenIndices restores gridChosen.
func TestMoveRoundTrip(t *testing.T) {
	cfg := Config{N: 6, A: Eight, B: WhiteEight}
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Walk a few steps deep so firstChild has real neighbours to offer.
	for i := 0; i < 2; i++ {
		if !e.firstChild() {
			t.Fatalf("expected firstChild to succeed while building fixture")
		}
	}

	beforeLevel := e.level
	beforeCount := e.count
	beforeChosen := append([]int(nil), e.chosenIndices[:beforeLevel+1]...)
	beforeCandidates := append([]int(nil), e.candidates[:beforeCount]...)

	if !e.firstChild() {
		t.Fatalf("firstChild should have succeeded")
	}
	e.parent()

	if e.level != beforeLevel {
		t.Fatalf("level not restored: got %d, want %d", e.level, beforeLevel)
	}
	if e.count != beforeCount {
		t.Fatalf("count not restored: got %d, want %d", e.count, beforeCount)
	}
	for i := 0; i <= beforeLevel; i++ {
		if e.chosenIndices[i] != beforeChosen[i] {
			t.Fatalf("chosenIndices[%d] not restored: got %d, want %d", i, e.chosenIndices[i], beforeChosen[i])
		}
	}
	for i := 0; i < beforeCount; i++ {
		if e.candidates[i] != beforeCandidates[i] {
			t.Fatalf("candidates[%d] not restored: got %d, want %d", i, e.candidates[i], beforeCandidates[i])
		}
	}

	if e.nextSibling() {
		idx := e.chosenIndices[e.level]
		wasChosen := e.gridChosen.Get(e.candidates[idx])
		if !wasChosen {
			t.Fatalf("expected the new sibling to be marked chosen")
		}
		// Restore chosenIndices and re-run to confirm gridChosen tracks it.
		e.chosenIndices[e.level] = idx - 1
		e.gridChosen.Reset(e.candidates[idx])
		e.gridChosen.Set(e.candidates[idx-1])
		if !e.nextSibling() {
			t.Fatalf("expected nextSibling to succeed again")
		}
		if !e.gridChosen.Get(e.candidates[idx]) {
			t.Fatalf("gridChosen should track the restored sibling")
		}
	}
}

// Split equivalence: the union of figures from a single-threaded
// run and from the set of split sub-enumerators is identical as a
// multiset keyed by figure geometry, with equal per-level totals.
func TestSplitEquivalence(t *testing.T) {
	cfg := Config{N: 8, A: Eight, B: WhiteEight}

	single, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	wantCounts := make([]uint64, cfg.N+1)
	wantPictures := map[string]int{}
	single.Generate(func(v FigureView) {
		wantCounts[v.Size()]++
		wantPictures[v.Picture()]++
	}, cfg.N)

	splitter, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	const depth = 4
	gotCounts := make([]uint64, cfg.N+1)
	gotPictures := map[string]int{}
	prefixes := splitter.Split(depth, func(v FigureView) {
		gotCounts[v.Size()]++
		gotPictures[v.Picture()]++
	})
	if len(prefixes) == 0 {
		t.Fatalf("expected at least one split prefix")
	}

	for _, p := range prefixes {
		p.ResumeSplit(func(v FigureView) {
			gotCounts[v.Size()]++
			gotPictures[v.Picture()]++
		}, cfg.N)
	}

	for k := 1; k <= cfg.N; k++ {
		if gotCounts[k] != wantCounts[k] {
			t.Errorf("k=%d: split total %d, single-threaded total %d", k, gotCounts[k], wantCounts[k])
		}
	}
	if len(gotPictures) != len(wantPictures) {
		t.Fatalf("distinct figure count mismatch: got %d, want %d", len(gotPictures), len(wantPictures))
	}
	for pic, n := range wantPictures {
		if gotPictures[pic] != n {
			t.Errorf("figure multiplicity mismatch for a shape: got %d, want %d", gotPictures[pic], n)
		}
	}
}

// Stats identity: nonLeaf + leaf == total valid figures.
func TestStatsIdentities(t *testing.T) {
	cfg := Config{N: 7, A: Four, B: WhiteFour, Stats: true}
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var total uint64
	e.Generate(func(v FigureView) {
		total++
	}, cfg.N)
	s := e.Stats()
	if s.NonLeaf+s.Leaf != total {
		t.Errorf("nonLeaf(%d) + leaf(%d) != total(%d)", s.NonLeaf, s.Leaf, total)
	}
}
