package process

// fillForward copies the last defined value into each following gap.
func fillForward(values []float64, valid []bool) {
	last, seen := 0.0, false
	for i := range values {
		if valid[i] {
			last, seen = values[i], true
			continue
		}
		if seen {
			values[i], valid[i] = last, true
		}
	}
}

// fillBackward copies the next defined value into each preceding gap.
func fillBackward(values []float64, valid []bool) {
	next, seen := 0.0, false
	for i := len(values) - 1; i >= 0; i-- {
		if valid[i] {
			next, seen = values[i], true
			continue
		}
		if seen {
			values[i], valid[i] = next, true
		}
	}
}
