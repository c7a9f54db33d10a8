package rainflow

import "math"

// ExtractCycles extracts full and one-half cycles from the load series
// per the ASTM E1049-85 §5.4.4 counting procedure. The returned slices
// hold cycle ranges (absolute differences between reversal values) in
// extraction order. Returns ErrInsufficientData if the series holds
// fewer than two samples.
func ExtractCycles(series []float64) (full, half []float64, err error) {
	it, err := Reversals(SliceSource(series))
	if err != nil {
		return nil, nil, err
	}

	// points acts as a deque of unresolved reversal values: appends and
	// pops at the tail, removal of the oldest point at the head.
	var points []float64

	for v, ok := it.Next(); ok; v, ok = it.Next() {
		points = append(points, v)
		for len(points) >= 3 {
			n := len(points)
			rangeX := math.Abs(points[n-2] - points[n-1])
			rangeY := math.Abs(points[n-3] - points[n-2])

			if rangeX < rangeY {
				// Y may still close against a later reversal.
				break
			}
			// rangeX >= rangeY: equality resolves, it does not wait.
			if n == 3 {
				// Y spans the start of the reduced history, so no loop
				// can close around it.
				half = append(half, rangeY)
				points = points[1:]
			} else {
				// Y is interior: count a full cycle and collapse its
				// peak and valley, keeping the newest point.
				full = append(full, rangeY)
				points[n-3] = points[n-1]
				points = points[:n-2]
			}
		}
	}

	// Whatever remains unpaired drains as one-half cycles.
	for len(points) > 1 {
		n := len(points)
		half = append(half, math.Abs(points[n-2]-points[n-1]))
		points = points[:n-1]
	}

	return full, half, nil
}
