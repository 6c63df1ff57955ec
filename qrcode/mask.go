package qrcode

// Penalty weights for the four mask evaluation rules.
const (
	penaltyN1 = 3
	penaltyN2 = 3
	penaltyN3 = 40
	penaltyN4 = 10
)

func penalty(g *grid) int {
	return penaltyRule1(g) + penaltyRule2(g) + penaltyRule3(g) + penaltyRule4(g)
}

// penaltyRule1 scores runs of five or more same-colour modules in rows and columns.
func penaltyRule1(g *grid) int {
	return runPenalty(g, true) + runPenalty(g, false)
}

func runPenalty(g *grid, horizontal bool) int {
	score := 0
	for i := 0; i < g.size; i++ {
		run := 0
		prev := int8(-1)
		for j := 0; j < g.size; j++ {
			var c int8
			if horizontal {
				c = g.get(j, i)
			} else {
				c = g.get(i, j)
			}
			if c == prev {
				run++
				continue
			}
			if run >= 5 {
				score += penaltyN1 + run - 5
			}
			run = 1
			prev = c
		}
		if run >= 5 {
			score += penaltyN1 + run - 5
		}
	}
	return score
}

// penaltyRule2 scores every 2x2 block of one colour.
func penaltyRule2(g *grid) int {
	score := 0
	for y := 0; y < g.size-1; y++ {
		for x := 0; x < g.size-1; x++ {
			c := g.get(x, y)
			if c == g.get(x+1, y) && c == g.get(x, y+1) && c == g.get(x+1, y+1) {
				score++
			}
		}
	}
	return score * penaltyN2
}

// penaltyRule3 scores 1:1:3:1:1 finder-like sequences with four light
// modules on either side.
func penaltyRule3(g *grid) int {
	n := 0
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			if x+6 < g.size && finderLike(func(k int) int8 { return g.get(x+k, y) }) &&
				(lightRun(g, x-4, x, func(k int) int8 { return g.get(k, y) }) ||
					lightRun(g, x+7, x+11, func(k int) int8 { return g.get(k, y) })) {
				n++
			}
			if y+6 < g.size && finderLike(func(k int) int8 { return g.get(x, y+k) }) &&
				(lightRun(g, y-4, y, func(k int) int8 { return g.get(x, k) }) ||
					lightRun(g, y+7, y+11, func(k int) int8 { return g.get(x, k) })) {
				n++
			}
		}
	}
	return n * penaltyN3
}

var finderSequence = [7]int8{1, 0, 1, 1, 1, 0, 1}

func finderLike(at func(int) int8) bool {
	for k, want := range finderSequence {
		if at(k) != want {
			return false
		}
	}
	return true
}

func lightRun(g *grid, from, to int, at func(int) int8) bool {
	if from < 0 || to > g.size {
		return false
	}
	for k := from; k < to; k++ {
		if at(k) == 1 {
			return false
		}
	}
	return true
}

// penaltyRule4 scores the deviation of the dark share from 50% in 5% steps.
func penaltyRule4(g *grid) int {
	dark := 0
	for _, c := range g.cells {
		if c == 1 {
			dark++
		}
	}
	total := len(g.cells)
	diff := dark*2 - total
	if diff < 0 {
		diff = -diff
	}
	return diff * 10 / total * penaltyN4
}
