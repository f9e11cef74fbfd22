// Package oeis holds the reference polyomino counts used as the
// acceptance oracle (OEIS A001168 for 4-connectivity and its
// 8-connected counterpart), plus the monotonicity check that relates
// counts across validity settings.
package oeis

// FourConnected holds count(A=4, B=0, k) for k = 1..20, index 0 unused.
var FourConnected = []uint64{
	0,
	1, 2, 6, 19, 63, 216, 760, 2725, 9910, 36446,
	135268, 505861, 1903890, 7204874, 27394666, 104592937,
	400795844, 1540820542, 5940738676, 22964779660,
}

// EightConnected holds count(A=8, B=0, k) for k = 1..17, index 0 unused.
var EightConnected = []uint64{
	0,
	1, 4, 20, 110, 638, 3832, 23592, 147941, 940982,
	6053180, 39299408, 257105146, 1692931066, 11208974860,
	74570549714, 498174818986, 3340366308393,
}

// Monotone reports whether counts is non-increasing, i.e. disabling a
// validity check (lower index) never yields fewer figures than
// enabling one (higher index).
func Monotone(counts ...[]uint64) bool {
	if len(counts) < 2 {
		return true
	}
	n := len(counts[0])
	for _, c := range counts {
		if len(c) < n {
			n = len(c)
		}
	}
	for k := 1; k < n; k++ {
		for i := 1; i < len(counts); i++ {
			if counts[i][k] > counts[i-1][k] {
				return false
			}
		}
	}
	return true
}
