// internal/game/score.go
//
// Category scoring rules and the scorecard template.
//
// ComputeScore is pure and never fails: a hand that does not qualify for a
// category scores 0. It expects a complete hand; the engine guarantees that
// before calling it.

package game

import "sort"

const (
	fullHouseScore     = 25
	smallStraightScore = 30
	largeStraightScore = 40
	yahtzeeScore       = 50
)

var upperKeys = []Category{Ones, Twos, Threes, Fours, Fives, Sixes}

var lowerKeys = []Category{ThreeKind, FourKind, FullHouse, SmallStraight, LargeStraight, Yahtzee, Chance}

// categoryTemplate is the canonical scorecard, in display order.
var categoryTemplate = []CategoryState{
	{Key: Ones, Label: "Ones", Section: SectionUpper, Interactive: true},
	{Key: Twos, Label: "Twos", Section: SectionUpper, Interactive: true},
	{Key: Threes, Label: "Threes", Section: SectionUpper, Interactive: true},
	{Key: Fours, Label: "Fours", Section: SectionUpper, Interactive: true},
	{Key: Fives, Label: "Fives", Section: SectionUpper, Interactive: true},
	{Key: Sixes, Label: "Sixes", Section: SectionUpper, Interactive: true},
	{Key: UpperBonus, Label: "Upper Bonus", Section: SectionBonus, Interactive: false},
	{Key: ThreeKind, Label: "Three of a Kind", Section: SectionLower, Interactive: true},
	{Key: FourKind, Label: "Four of a Kind", Section: SectionLower, Interactive: true},
	{Key: FullHouse, Label: "Full House", Section: SectionLower, Interactive: true},
	{Key: SmallStraight, Label: "Small Straight", Section: SectionLower, Interactive: true},
	{Key: LargeStraight, Label: "Large Straight", Section: SectionLower, Interactive: true},
	{Key: Yahtzee, Label: "Yahtzee", Section: SectionLower, Interactive: true},
	{Key: Chance, Label: "Chance", Section: SectionLower, Interactive: true},
}

// Categories returns a fresh, unscored scorecard.
func Categories() []CategoryState {
	out := make([]CategoryState, len(categoryTemplate))
	copy(out, categoryTemplate)
	return out
}

// IsCategory reports whether key names a scorecard row.
func IsCategory(key Category) bool {
	for _, c := range categoryTemplate {
		if c.Key == key {
			return true
		}
	}
	return false
}

// ComputeScore returns the points the hand earns in category key.
func ComputeScore(key Category, dice []int) int {
	counts := faceCounts(dice)
	sum := 0
	for _, v := range dice {
		sum += v
	}

	switch key {
	case Ones, Twos, Threes, Fours, Fives, Sixes:
		face := upperFace(key)
		return counts[face-1] * face
	case ThreeKind:
		if maxCount(counts) >= 3 {
			return sum
		}
		return 0
	case FourKind:
		if maxCount(counts) >= 4 {
			return sum
		}
		return 0
	case FullHouse:
		if isFullHouse(counts) {
			return fullHouseScore
		}
		return 0
	case SmallStraight:
		if hasStraight(dice, 4) {
			return smallStraightScore
		}
		return 0
	case LargeStraight:
		if hasStraight(dice, 5) {
			return largeStraightScore
		}
		return 0
	case Yahtzee:
		if hasCount(counts, 5) {
			return yahtzeeScore
		}
		return 0
	case Chance:
		return sum
	default:
		// upper-bonus is computed by the engine, never scored directly.
		return 0
	}
}

// upperFace maps ones..sixes to 1..6.
func upperFace(key Category) int {
	for i, k := range upperKeys {
		if k == key {
			return i + 1
		}
	}
	return 0
}

// faceCounts tallies faces 1..6; anything else is ignored.
func faceCounts(dice []int) [6]int {
	var counts [6]int
	for _, v := range dice {
		if v >= 1 && v <= 6 {
			counts[v-1]++
		}
	}
	return counts
}

func maxCount(counts [6]int) int {
	m := 0
	for _, c := range counts {
		if c > m {
			m = c
		}
	}
	return m
}

func hasCount(counts [6]int, n int) bool {
	for _, c := range counts {
		if c == n {
			return true
		}
	}
	return false
}

// isFullHouse accepts three+two, and also five of a kind.
func isFullHouse(counts [6]int) bool {
	return (hasCount(counts, 3) && hasCount(counts, 2)) || hasCount(counts, 5)
}

// hasStraight reports whether the distinct values contain a run of length n.
func hasStraight(dice []int, n int) bool {
	seen := make(map[int]struct{}, len(dice))
	unique := make([]int, 0, len(dice))
	for _, v := range dice {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	sort.Ints(unique)

	streak := 1
	for i := 1; i < len(unique); i++ {
		if unique[i] == unique[i-1]+1 {
			streak++
			if streak >= n {
				return true
			}
		} else {
			streak = 1
		}
	}
	return false
}
