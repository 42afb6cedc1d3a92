package column

// Layout assigns a width to each def so that they fill total. Fixed columns
// keep their width; flex columns get their minimum plus a share of the
// remainder proportional to Flex. When space is too tight every column falls
// back to its minimum.
func Layout(defs []Def, total int) []int {
	widths := make([]int, len(defs))
	if total <= 0 {
		return widths
	}

	fixed := 0
	minSum := 0
	flexSum := 0.0
	for i, d := range defs {
		if d.Fixed() {
			widths[i] = d.Width
			fixed += d.Width
			continue
		}
		minSum += d.minWidth()
		flexSum += flexWeight(d)
	}

	remaining := total - fixed - minSum
	if remaining <= 0 {
		for i, d := range defs {
			if !d.Fixed() {
				widths[i] = d.minWidth()
			}
		}
		return widths
	}

	used := 0
	lastFlex := -1
	for i, d := range defs {
		if d.Fixed() {
			continue
		}
		extra := 0
		if flexSum > 0 {
			extra = int(float64(remaining) * (flexWeight(d) / flexSum))
		}
		widths[i] = d.minWidth() + extra
		used += extra
		lastFlex = i
	}
	// Rounding leftovers go to the last flex column.
	if lastFlex >= 0 {
		widths[lastFlex] += remaining - used
	}
	return widths
}

func flexWeight(d Def) float64 {
	if d.Flex > 0 {
		return d.Flex
	}
	return 1
}

// Offsets returns the left edge of each column given its width. The final
// element is the total width, so len(result) == len(widths)+1.
func Offsets(widths []int) []int {
	out := make([]int, len(widths)+1)
	for i, w := range widths {
		out[i+1] = out[i] + w
	}
	return out
}

// At returns the column index containing x given cumulative offsets, clamping
// positions outside the table to the first or last column. It returns -1 when
// there are no columns.
func At(offsets []int, x float64) int {
	n := len(offsets) - 1
	if n <= 0 {
		return -1
	}
	if x < 0 {
		return 0
	}
	lo, hi := 0, n-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if float64(offsets[mid]) <= x {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
