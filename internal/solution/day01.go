package solution

import (
	"strconv"

	"github.com/aoc-runner/aoc22/internal/calories"
)

// Day01 is "Calorie Counting": part 1 is the largest group total, part 2 the
// combined total of the three largest groups.
type Day01 struct{}

func (Day01) Day() int {
	return 1
}

func (Day01) Title() string {
	return "Calorie Counting"
}

func (Day01) Part1(input string) (string, error) {
	sums, err := calories.TotalPerGroup(input)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(calories.MaxGroupSum(sums)), nil
}

func (Day01) Part2(input string) (string, error) {
	sums, err := calories.TotalPerGroup(input)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(calories.TopThreeSum(sums)), nil
}
