package match

// Similarity computes a normalized fuzzy similarity in [0, 1] between two
// raw company names. Both inputs are normalized first; if either normalizes
// to nothing the score is 0. The score is the classic matching-blocks ratio
// 2*M/T, where M is the total length of the matching blocks found by a
// greedy longest-common-substring matcher and T is the combined length of
// the two normalized strings. Symmetric and deterministic.
func Similarity(a, b string) float64 {
	na := []rune(Normalize(a))
	nb := []rune(Normalize(b))
	if len(na) == 0 || len(nb) == 0 {
		return 0
	}

	m := newMatcher(na, nb)
	matched := m.matchLen(0, len(na), 0, len(nb))

	return 2 * float64(matched) / float64(len(na)+len(nb))
}

// matcher finds matching blocks between two rune slices the way difflib's
// SequenceMatcher does, minus the junk heuristics (normalized company names
// never contain junk-scale noise).
type matcher struct {
	a, b []rune
	b2j  map[rune][]int
}

func newMatcher(a, b []rune) *matcher {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	return &matcher{a: a, b: b, b2j: b2j}
}

// matchLen sums the lengths of all matching blocks inside a[alo:ahi] and
// b[blo:bhi]: find the longest common substring, then recurse on the pieces
// to its left and right.
func (m *matcher) matchLen(alo, ahi, blo, bhi int) int {
	i, j, size := m.longestMatch(alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size + m.matchLen(alo, i, blo, j) + m.matchLen(i+size, ahi, j+size, bhi)
}

// longestMatch returns the longest matching block within the given windows.
// Ties go to the earliest block in a, then the earliest in b, which keeps
// the decomposition deterministic.
func (m *matcher) longestMatch(alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	return besti, bestj, bestsize
}
