package spellcheck

// damerauLevenshtein returns the Damerau-Levenshtein distance between a and
// b: the minimum number of insertions, deletions, substitutions, and
// transpositions of adjacent characters needed to turn one into the other.
// Transpositions matter here because swapped letters are among the most
// common typing mistakes.
func damerauLevenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	ra := []rune(a)
	rb := []rune(b)
	la := len(ra)
	lb := len(rb)

	// Full matrix: the transposition check needs the row before last.
	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			m := d[i-1][j] + 1 // deletion
			if v := d[i][j-1] + 1; v < m { // insertion
				m = v
			}
			if v := d[i-1][j-1] + cost; v < m { // substitution
				m = v
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if v := d[i-2][j-2] + cost; v < m { // transposition
					m = v
				}
			}
			d[i][j] = m
		}
	}
	return d[la][lb]
}
