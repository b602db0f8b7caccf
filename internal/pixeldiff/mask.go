package pixeldiff

// Mask is a width x height grid of flags, row-major.
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

// NewMask allocates an all-false mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, bits: make([]bool, width*height)}
}

// At reports whether (x, y) is set. Out-of-range coordinates are unset.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.bits[y*m.Width+x]
}

// Index reports whether the cell at linear index i is set.
func (m *Mask) Index(i int) bool {
	return m.bits[i]
}

// Set marks (x, y).
func (m *Mask) Set(x, y int) {
	m.bits[y*m.Width+x] = true
}

// Count returns the number of set cells.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Len returns width*height.
func (m *Mask) Len() int { return len(m.bits) }
