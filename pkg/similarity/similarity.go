// Package similarity scores how alike two blocks of text are using
// Levenshtein edit distance.
package similarity

// Distance returns the Levenshtein distance between a and b. Insertion,
// deletion and substitution each cost 1. The distance is computed over runes
// with a (len(b)+1) x (len(a)+1) table.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	matrix := make([][]int, len(rb)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(ra)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(ra); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(rb); i++ {
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				matrix[i][j] = matrix[i-1][j-1]
				continue
			}
			matrix[i][j] = 1 + min(
				matrix[i-1][j-1],
				matrix[i][j-1],
				matrix[i-1][j],
			)
		}
	}

	return matrix[len(rb)][len(ra)]
}

// Similarity returns (max(len(a), len(b)) - Distance(a, b)) / max(len(a), len(b)),
// a value in [0, 1]. Two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}
	return float64(longest-Distance(a, b)) / float64(longest)
}
