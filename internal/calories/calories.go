// Package calories sums blank-line separated groups of integers and reduces
// the group sums to the largest one or the total of the largest few.
package calories

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const groupSeparator = "\n\n"

type ParseError struct {
	Group int
	Line  int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("group %d, line %d: invalid number %q: %v", e.Group+1, e.Line+1, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TotalPerGroup returns one sum per group, in document order. Blank lines
// inside a group are skipped, so an empty document yields a single zero sum.
// Any other token that is not a decimal integer fails the whole document.
func TotalPerGroup(document string) ([]int, error) {
	document = strings.ReplaceAll(document, "\r\n", "\n")
	document = strings.TrimRight(document, "\n")

	groups := strings.Split(document, groupSeparator)
	sums := make([]int, 0, len(groups))

	for gi, group := range groups {
		sum := 0
		for li, line := range strings.Split(group, "\n") {
			token := strings.TrimSpace(line)
			if token == "" {
				continue
			}

			n, err := strconv.Atoi(token)
			if err != nil {
				return nil, &ParseError{Group: gi, Line: li, Token: token, Err: err}
			}
			sum += n
		}
		sums = append(sums, sum)
	}

	return sums, nil
}

func MaxGroupSum(sums []int) int {
	best := 0
	for _, s := range sums {
		best = max(best, s)
	}
	return best
}

func TopThreeSum(sums []int) int {
	return TopNSum(sums, 3)
}

// TopNSum adds the n largest sums. Fewer than n sums are added as they are.
func TopNSum(sums []int, n int) int {
	if n <= 0 {
		return 0
	}

	sorted := slices.Clone(sums)
	slices.SortFunc(sorted, func(a, b int) int { return cmp.Compare(b, a) })

	total := 0
	for _, s := range sorted[:min(n, len(sorted))] {
		total += s
	}
	return total
}
