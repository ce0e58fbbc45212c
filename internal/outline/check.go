package outline

// CheckLevels returns the first index breaking the level rules: root at level 0 in
// front, every other cell at level 1 or deeper and at most one step below its predecessor.
func (o Outline) CheckLevels() (int, bool) {
	if len(o) == 0 {
		return 0, false
	}
	if o[0].Level() != 0 {
		return 0, false
	}
	for i := 1; i < len(o); i++ {
		l := o[i].Level()
		if l < 1 || l > o[i-1].Level()+1 {
			return i, false
		}
	}
	return 0, true
}

// CheckLabels returns the first index whose label was already used by an earlier non-root cell.
func (o Outline) CheckLabels() (int, bool) {
	seen := make(map[int]bool, len(o))
	for i := 1; i < len(o); i++ {
		label := o[i].Label()
		if seen[label] {
			return i, false
		}
		seen[label] = true
	}
	return 0, true
}

// CheckClones returns the first content index (in outline order) whose occurrences do not
// share the same relative structure.
func (o Outline) CheckClones() (int, bool) {
	first := make(map[int]int)
	for i := 1; i < len(o); i++ {
		ignx := o[i].ContentIndex()
		j, seen := first[ignx]
		if !seen {
			first[ignx] = i
			continue
		}
		if !o.sameSubtree(j, i) {
			return ignx, false
		}
	}
	return 0, true
}

func (o Outline) sameSubtree(a int, b int) bool {
	sizeA, sizeB := o.SubtreeSize(a), o.SubtreeSize(b)
	if sizeA != sizeB {
		return false
	}
	shift := o[b].Level() - o[a].Level()
	for k := 1; k < sizeA; k++ {
		ca, cb := o[a+k], o[b+k]
		if ca.ContentIndex() != cb.ContentIndex() || ca.Level()+shift != cb.Level() {
			return false
		}
	}
	return true
}

// CheckCycles returns the first index whose content also occurs among its own ancestors.
func (o Outline) CheckCycles() (int, bool) {
	path := make([]int, 0, 16) //content index per level of the current ancestry
	for i, c := range o {
		level := c.Level()
		if level > len(path) {
			return i, false //broken levels, nothing sensible to compare against
		}
		path = path[:level]
		for _, ancestor := range path {
			if ancestor == c.ContentIndex() {
				return i, false
			}
		}
		path = append(path, c.ContentIndex())
	}
	return 0, true
}
