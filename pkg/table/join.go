package table

// Suffixes applied to overlapping column names by the joins, left then right.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// JoinIndex inner-joins two tables on their row index labels.
//
// Rows appear in left order; a left row matching several right rows is
// repeated once per match. The result keeps the left index labels. Columns
// present on both sides get LeftSuffix and RightSuffix.
func JoinIndex(left, right *Table) *Table {
	rightRows := make(map[int][]int, right.NumRows())
	for r, label := range right.index {
		rightRows[label] = append(rightRows[label], r)
	}

	var leftTake, rightTake, index []int
	for l, label := range left.index {
		for _, r := range rightRows[label] {
			leftTake = append(leftTake, l)
			rightTake = append(rightTake, r)
			index = append(index, label)
		}
	}

	cols := joinColumns(left, right, leftTake, rightTake, "")
	return mustBuild(index, cols)
}

// JoinOn inner-joins two tables on the values of a named key column present
// in both. The key column appears once, taken from the left table, and the
// result index is reset to 0..n-1.
func JoinOn(left, right *Table, key string) (*Table, error) {
	lk, ok := left.Column(key)
	if !ok {
		return nil, &MissingColumnError{Name: key, Available: left.Columns()}
	}
	rk, ok := right.Column(key)
	if !ok {
		return nil, &MissingColumnError{Name: key, Available: right.Columns()}
	}

	rightRows := make(map[string][]int, rk.Len())
	for r := 0; r < rk.Len(); r++ {
		if v := rk.Value(r); v != nil {
			k := FormatValue(v)
			rightRows[k] = append(rightRows[k], r)
		}
	}

	var leftTake, rightTake []int
	for l := 0; l < lk.Len(); l++ {
		v := lk.Value(l)
		if v == nil {
			continue
		}
		for _, r := range rightRows[FormatValue(v)] {
			leftTake = append(leftTake, l)
			rightTake = append(rightTake, r)
		}
	}

	index := make([]int, len(leftTake))
	for i := range index {
		index[i] = i
	}
	cols := joinColumns(left, right, leftTake, rightTake, key)
	return build(index, cols)
}

func joinColumns(left, right *Table, leftTake, rightTake []int, key string) []*Column {
	overlap := make(map[string]bool)
	for _, c := range left.columns {
		if c.Name() != key && right.HasColumn(c.Name()) {
			overlap[c.Name()] = true
		}
	}

	cols := make([]*Column, 0, left.NumCols()+right.NumCols())
	for _, c := range left.columns {
		nc := c.take(leftTake)
		if overlap[c.Name()] {
			nc = nc.rename(c.Name() + LeftSuffix)
		}
		cols = append(cols, nc)
	}
	for _, c := range right.columns {
		if key != "" && c.Name() == key {
			continue
		}
		nc := c.take(rightTake)
		if overlap[c.Name()] {
			nc = nc.rename(c.Name() + RightSuffix)
		}
		cols = append(cols, nc)
	}
	return cols
}
