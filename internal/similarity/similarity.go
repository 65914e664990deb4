// Package similarity scores how close a candidate is to a previously posted
// item. Pure functions, no I/O.
package similarity

import "strings"

// NormalizeTitle lower-cases, maps every rune outside [a-z0-9] to a space,
// collapses whitespace runs and trims. Idempotent.
func NormalizeTitle(title string) string {
	lowered := strings.ToLower(title)
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, lowered)
	return strings.Join(strings.Fields(mapped), " ")
}

// TitleSimilarity returns a ratio in [0,1] between the normalized titles:
// twice the total length of greedily matched longest common blocks divided by
// the combined length. Identical titles score 1.0; if either side normalizes
// to empty the score is 0.0.
func TitleSimilarity(a, b string) float64 {
	an := NormalizeTitle(a)
	bn := NormalizeTitle(b)
	if an == "" || bn == "" {
		return 0.0
	}
	return matchRatio(an, bn)
}

// NormalizeURL trims, rewrites a leading http:// to https:// and drops the
// fragment. Query strings and trailing slashes are preserved: two URLs that
// differ only in tracking parameters stay distinct on purpose.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, "http://") {
		url = "https://" + strings.TrimPrefix(url, "http://")
	}
	if i := strings.IndexByte(url, '#'); i >= 0 {
		url = url[:i]
	}
	return url
}

// Result carries both signals computed for one candidate/hit pair.
type Result struct {
	TitleScore float64
	SameURL    bool
}

// Compare scores the hit title against the candidate title and flags URL
// equality. SameURL requires both normalized URLs to be non-empty and equal.
func Compare(candidateTitle, candidateURL, hitTitle, hitURL string) Result {
	cu := NormalizeURL(candidateURL)
	hu := NormalizeURL(hitURL)
	return Result{
		TitleScore: TitleSimilarity(candidateTitle, hitTitle),
		SameURL:    cu != "" && hu != "" && cu == hu,
	}
}

// matchRatio computes 2*M/(len(a)+len(b)) where M is the total size of the
// non-overlapping matching blocks found by repeatedly taking the longest
// (leftmost on ties) common substring and recursing into the unmatched
// regions on either side. Inputs are normalized titles, so ASCII bytes.
func matchRatio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0.0
	}
	// Positions of every byte of b, for the inner-loop scan.
	bPos := make(map[byte][]int, len(b))
	for j := 0; j < len(b); j++ {
		bPos[b[j]] = append(bPos[b[j]], j)
	}

	matched := 0
	type region struct{ alo, ahi, blo, bhi int }
	queue := []region{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		r := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		i, j, k := longestMatch(a, b, r.alo, r.ahi, r.blo, r.bhi, bPos)
		if k == 0 {
			continue
		}
		matched += k
		queue = append(queue,
			region{r.alo, i, r.blo, j},
			region{i + k, r.ahi, j + k, r.bhi},
		)
	}
	return 2.0 * float64(matched) / float64(total)
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] with
// alo <= i < i+k <= ahi and blo <= j < j+k <= bhi, preferring the earliest
// occurrence in a, then in b.
func longestMatch(a, b string, alo, ahi, blo, bhi int, bPos map[byte][]int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	lengths := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for _, j := range bPos[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := lengths[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}
	return besti, bestj, bestsize
}
