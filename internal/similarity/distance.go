// Package similarity scores how alike two command names are.
package similarity

// Threshold is the largest distance at which two commands are still reported as similar.
const Threshold = 4

// Distance returns the case-insensitive Damerau-Levenshtein distance between a and b
// using the optimal string alignment variant. Insertion, deletion, substitution and
// transposition of two adjacent bytes each cost 1.
//
// ASCII case is folded, so "Python" and "python" are at distance 0.
func Distance(a, b string) int {
	rows, cols := len(a)+1, len(b)+1
	mat := make([]int, rows*cols)

	for i := 1; i < rows; i++ {
		mat[i*cols] = i
	}
	for j := 1; j < cols; j++ {
		mat[j] = j
	}

	for i := 1; i < rows; i++ {
		ca := fold(a[i-1])
		for j := 1; j < cols; j++ {
			cb := fold(b[j-1])

			cost := 1
			if ca == cb {
				cost = 0
			}

			best := min(
				mat[(i-1)*cols+j]+1,      // deletion
				mat[i*cols+j-1]+1,        // insertion
				mat[(i-1)*cols+j-1]+cost, // substitution
			)

			if i > 1 && j > 1 && ca == fold(b[j-2]) && fold(a[i-2]) == cb {
				best = min(best, mat[(i-2)*cols+j-2]+1)
			}

			mat[i*cols+j] = best
		}
	}

	return mat[rows*cols-1]
}

// Similar reports whether a and b are within Threshold of each other.
func Similar(a, b string) bool {
	return Distance(a, b) <= Threshold
}

func fold(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
