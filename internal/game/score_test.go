package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name string
		key  Category
		dice []int
		want int
	}{
		{"ones counts only ones", Ones, []int{1, 1, 2, 3, 1}, 3},
		{"twos", Twos, []int{2, 2, 2, 5, 6}, 6},
		{"sixes none", Sixes, []int{1, 2, 3, 4, 5}, 0},
		{"fives all", Fives, []int{5, 5, 5, 5, 5}, 25},
		{"three kind", ThreeKind, []int{3, 3, 3, 1, 2}, 12},
		{"three kind miss", ThreeKind, []int{3, 3, 1, 1, 2}, 0},
		{"three kind from yahtzee", ThreeKind, []int{4, 4, 4, 4, 4}, 20},
		{"four kind", FourKind, []int{6, 6, 6, 6, 1}, 25},
		{"four kind miss", FourKind, []int{6, 6, 6, 1, 1}, 0},
		{"four kind from yahtzee", FourKind, []int{2, 2, 2, 2, 2}, 10},
		{"full house", FullHouse, []int{2, 2, 3, 3, 3}, 25},
		{"full house from yahtzee", FullHouse, []int{5, 5, 5, 5, 5}, 25},
		{"full house four plus one", FullHouse, []int{5, 5, 5, 5, 1}, 0},
		{"full house two pair", FullHouse, []int{1, 1, 2, 2, 3}, 0},
		{"small straight low", SmallStraight, []int{1, 2, 3, 4, 6}, 30},
		{"small straight with pair", SmallStraight, []int{1, 2, 2, 3, 4}, 30},
		{"small straight high unordered", SmallStraight, []int{6, 3, 5, 4, 4}, 30},
		{"small straight miss", SmallStraight, []int{1, 2, 3, 5, 6}, 0},
		{"large straight high", LargeStraight, []int{2, 3, 4, 5, 6}, 40},
		{"large straight low unordered", LargeStraight, []int{5, 1, 4, 2, 3}, 40},
		{"large straight gap", LargeStraight, []int{1, 2, 3, 4, 6}, 0},
		{"large straight duplicate", LargeStraight, []int{1, 2, 3, 4, 4}, 0},
		{"yahtzee", Yahtzee, []int{3, 3, 3, 3, 3}, 50},
		{"yahtzee miss", Yahtzee, []int{3, 3, 3, 3, 2}, 0},
		{"chance", Chance, []int{1, 3, 5, 6, 6}, 21},
		{"upper bonus is never scored directly", UpperBonus, []int{6, 6, 6, 6, 6}, 0},
		{"unknown category", Category("bogus"), []int{6, 6, 6, 6, 6}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeScore(tt.key, tt.dice))
		})
	}
}

func TestCategoriesTemplate(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 14)

	interactive := 0
	for _, c := range cats {
		if c.Interactive {
			interactive++
		}
		assert.False(t, c.Scored, c.Key)
		assert.Nil(t, c.Score, c.Key)
	}
	assert.Equal(t, 13, interactive)

	// Mutating the returned slice must not leak into the template.
	cats[0].Label = "changed"
	assert.Equal(t, "Ones", Categories()[0].Label)
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory(Chance))
	assert.True(t, IsCategory(UpperBonus))
	assert.False(t, IsCategory("sevens"))
}
