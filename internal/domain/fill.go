package domain

// FillInvalid returns a copy of data where every sample outside vr (or NaN) is replaced
// by the nearest valid sample in index order. Ties go to the lower index.
// When no sample is valid the copy is returned unchanged and ok is false.
func FillInvalid(data []float64, vr ValidRange) (filled []float64, ok bool) {
	filled = make([]float64, len(data))
	copy(filled, data)

	// nearest valid index to the left of each sample, -1 if none.
	left := make([]int, len(data))
	last := -1
	for i, v := range data {
		if vr.Contains(v) {
			last = i
		}
		left[i] = last
	}
	if last == -1 {
		return filled, len(data) == 0
	}

	next := -1
	for i := len(data) - 1; i >= 0; i-- {
		if vr.Contains(data[i]) {
			next = i
			continue
		}
		src := left[i]
		if src == -1 || (next != -1 && next-i < i-src) {
			src = next
		}
		filled[i] = data[src]
	}

	return filled, true
}

// FillKind runs FillInvalid with the valid range registered for kind.
func (r *Registry) FillKind(data []float64, kind string) ([]float64, bool, error) {
	d, err := r.Lookup(kind)
	if err != nil {
		return nil, false, err
	}
	filled, ok := FillInvalid(data, d.Valid)
	return filled, ok, nil
}
