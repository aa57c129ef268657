package game

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allInteractive = []Category{
	Ones, Twos, Threes, Fours, Fives, Sixes,
	ThreeKind, FourKind, FullHouse, SmallStraight, LargeStraight, Yahtzee, Chance,
}

func roll(t *testing.T, e *Engine, values ...float64) State {
	t.Helper()
	s, err := e.RecordRoll(values)
	require.NoError(t, err)
	return s
}

func TestNewDefaults(t *testing.T) {
	e := New(Config{})
	s := e.State()

	assert.Equal(t, 1, s.CurrentRound)
	assert.Equal(t, 13, s.MaxRounds)
	assert.Equal(t, 3, s.MaxRolls)
	assert.Equal(t, 0, s.RollsThisRound)
	assert.Equal(t, []Die{Unset, Unset, Unset, Unset, Unset}, s.Dice)
	assert.Equal(t, []bool{false, false, false, false, false}, s.Holds)
	assert.Equal(t, Totals{}, s.Totals)
	assert.False(t, s.Completed)

	bonus, ok := s.Category(UpperBonus)
	require.True(t, ok)
	assert.False(t, bonus.Interactive)
	assert.Equal(t, DefaultConfig(), e.Config())
}

func TestNewCustomConfig(t *testing.T) {
	e := New(Config{DiceCount: 6, MaxRolls: 2, MaxRounds: 4})
	s := e.State()
	assert.Len(t, s.Dice, 6)
	assert.Len(t, s.Holds, 6)
	assert.Equal(t, 2, s.MaxRolls)
	assert.Equal(t, 4, s.MaxRounds)
	assert.Equal(t, 63, *e.Config().UpperBonusThreshold)
	assert.Equal(t, 35, *e.Config().UpperBonusValue)
}

func TestExplicitZeroBonusRules(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantBonus int
	}{
		{name: "bonus turned off", cfg: Config{UpperBonusValue: Int(0)}, wantBonus: 0},
		{name: "threshold zero always awards", cfg: Config{UpperBonusThreshold: Int(0)}, wantBonus: 35},
		{name: "negative falls back to defaults", cfg: Config{UpperBonusThreshold: Int(-1), UpperBonusValue: Int(-1)}, wantBonus: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.cfg)
			for _, key := range upperKeys {
				roll(t, e, 1, 1, 2, 3, 4)
				_, err := e.Score(key)
				require.NoError(t, err)
			}
			bonus, _ := e.State().Category(UpperBonus)
			require.NotNil(t, bonus.Score)
			assert.Equal(t, tt.wantBonus, *bonus.Score)
		})
	}
}

func TestConfigIsNotAliased(t *testing.T) {
	threshold := 10
	e := New(Config{UpperBonusThreshold: &threshold})
	threshold = 500
	cfg := e.Config()
	*cfg.UpperBonusThreshold = 1000
	assert.Equal(t, 10, *e.Config().UpperBonusThreshold)
}

func TestStateIsDetached(t *testing.T) {
	e := New(Config{})
	roll(t, e, 2, 2, 3, 3, 3)
	_, err := e.Score(FullHouse)
	require.NoError(t, err)
	roll(t, e, 1, 2, 3, 4, 5)

	first := e.State()
	second := e.State()
	assert.Equal(t, first, second)

	first.Dice[0] = 6
	first.Holds[0] = true
	first.Categories[9].ScoredDice[0] = 6
	*first.Categories[9].Score = 99
	*first.Categories[9].RoundScored = 7
	first.Totals.Grand = 1000

	assert.Equal(t, second, e.State())
}

func TestRecordRollHonorsHolds(t *testing.T) {
	e := New(Config{})
	roll(t, e, 1, 2, 3, 4, 5)
	_, err := e.ToggleHold(0)
	require.NoError(t, err)

	s := roll(t, e, 6, 6, 6, 6, 6)
	assert.Equal(t, []Die{1, 6, 6, 6, 6}, s.Dice)
	assert.Equal(t, 2, s.RollsThisRound)
	assert.True(t, s.Holds[0])
}

func TestRecordRollIgnoresInputForHeldDice(t *testing.T) {
	e := New(Config{})
	roll(t, e, 4, 4, 4, 4, 4)
	_, err := e.ToggleHold(2)
	require.NoError(t, err)

	s := roll(t, e, 1, 1, math.NaN(), 1, 1)
	assert.Equal(t, []Die{1, 1, 4, 1, 1}, s.Dice)
}

func TestRecordRollNormalizesValues(t *testing.T) {
	e := New(Config{})
	s := roll(t, e, 0.5, 2.4, 2.5, 5.9, 6.49)
	assert.Equal(t, []Die{1, 2, 3, 6, 6}, s.Dice)
}

func TestRecordRollErrors(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   error
	}{
		{"too few values", []float64{1, 2, 3, 4}, ErrArityMismatch},
		{"too many values", []float64{1, 2, 3, 4, 5, 6}, ErrArityMismatch},
		{"zero", []float64{0, 2, 3, 4, 5}, ErrMissingValue},
		{"seven", []float64{1, 2, 3, 4, 7}, ErrMissingValue},
		{"rounds past six", []float64{1, 2, 3, 4, 6.5}, ErrMissingValue},
		{"nan", []float64{1, math.NaN(), 3, 4, 5}, ErrMissingValue},
		{"infinity", []float64{1, 2, math.Inf(1), 4, 5}, ErrMissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(Config{})
			before := e.State()
			_, err := e.RecordRoll(tt.values)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, e.State())
		})
	}
}

func TestRollBudget(t *testing.T) {
	e := New(Config{})
	roll(t, e, 1, 2, 3, 4, 5)
	roll(t, e, 1, 2, 3, 4, 5)
	roll(t, e, 1, 2, 3, 4, 5)

	before := e.State()
	_, err := e.RecordRoll([]float64{1, 2, 3, 4, 5})
	require.ErrorIs(t, err, ErrRollLimitExceeded)
	assert.Equal(t, KindRollLimitExceeded, KindOf(err))
	assert.Equal(t, before, e.State())
}

func TestToggleHold(t *testing.T) {
	e := New(Config{})

	_, err := e.ToggleHold(0)
	require.ErrorIs(t, err, ErrPrematureHold)

	roll(t, e, 1, 2, 3, 4, 5)

	_, err = e.ToggleHold(-1)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)
	_, err = e.ToggleHold(5)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)

	s, err := e.ToggleHold(3)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, true, false}, s.Holds)
	assert.Equal(t, 1, s.RollsThisRound)

	s, err = e.ToggleHold(3)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, false, false}, s.Holds)
}

func TestScoreAdvancesRound(t *testing.T) {
	e := New(Config{})
	roll(t, e, 2, 2, 3, 3, 3)

	score, err := e.Score(FullHouse)
	require.NoError(t, err)
	assert.Equal(t, 25, score)

	s := e.State()
	cat, _ := s.Category(FullHouse)
	require.NotNil(t, cat.Score)
	assert.Equal(t, 25, *cat.Score)
	assert.True(t, cat.Scored)
	assert.Equal(t, []int{2, 2, 3, 3, 3}, cat.ScoredDice)
	require.NotNil(t, cat.RoundScored)
	assert.Equal(t, 1, *cat.RoundScored)

	assert.Equal(t, 2, s.CurrentRound)
	assert.Equal(t, 0, s.RollsThisRound)
	assert.Equal(t, []Die{Unset, Unset, Unset, Unset, Unset}, s.Dice)
	assert.Equal(t, Totals{Lower: 25, Grand: 25}, s.Totals)
}

func TestScoreClearsHolds(t *testing.T) {
	e := New(Config{})
	roll(t, e, 1, 1, 1, 2, 2)
	_, err := e.ToggleHold(0)
	require.NoError(t, err)
	_, err = e.Score(Ones)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, false, false}, e.State().Holds)
}

func TestScoreErrors(t *testing.T) {
	e := New(Config{})

	_, err := e.Score(Chance)
	require.ErrorIs(t, err, ErrIncompleteRoll)

	roll(t, e, 1, 2, 3, 4, 5)

	_, err = e.Score("bogus")
	require.ErrorIs(t, err, ErrUnknownCategory)

	_, err = e.Score(UpperBonus)
	require.ErrorIs(t, err, ErrNotInteractive)

	_, err = e.Score(LargeStraight)
	require.NoError(t, err)

	roll(t, e, 1, 2, 3, 4, 5)
	before := e.State()
	_, err = e.Score(LargeStraight)
	require.ErrorIs(t, err, ErrAlreadyScored)
	assert.Equal(t, before, e.State())
}

func TestUpperBonusAwarded(t *testing.T) {
	e := New(Config{})
	for i, key := range upperKeys {
		face := float64(i + 1)
		roll(t, e, face, face, face, face, face)
		_, err := e.Score(key)
		require.NoError(t, err)

		bonus, _ := e.State().Category(UpperBonus)
		if i < len(upperKeys)-1 {
			assert.False(t, bonus.Scored, "bonus scored after %s", key)
			assert.Nil(t, bonus.Score)
		}
	}

	s := e.State()
	bonus, _ := s.Category(UpperBonus)
	assert.True(t, bonus.Scored)
	require.NotNil(t, bonus.Score)
	assert.Equal(t, 35, *bonus.Score)
	assert.Nil(t, bonus.ScoredDice)
	assert.Nil(t, bonus.RoundScored)
	assert.Equal(t, Totals{Upper: 105, Bonus: 35, Grand: 140}, s.Totals)
}

func TestUpperBonusBelowThreshold(t *testing.T) {
	e := New(Config{})
	for _, key := range upperKeys {
		roll(t, e, 1, 1, 2, 3, 4)
		_, err := e.Score(key)
		require.NoError(t, err)
	}

	s := e.State()
	bonus, _ := s.Category(UpperBonus)
	assert.True(t, bonus.Scored)
	require.NotNil(t, bonus.Score)
	assert.Equal(t, 0, *bonus.Score)
	assert.Equal(t, 0, s.Totals.Bonus)
}

func TestCompletion(t *testing.T) {
	e := New(Config{})
	// Reverse order: completion does not depend on scoring order.
	for i := len(allInteractive) - 1; i >= 0; i-- {
		roll(t, e, 6, 6, 6, 6, 6)
		_, err := e.ToggleHold(1)
		require.NoError(t, err)
		_, err = e.Score(allInteractive[i])
		require.NoError(t, err)
	}

	s := e.State()
	assert.True(t, s.Completed)
	assert.Equal(t, 0, s.RollsThisRound)
	assert.Equal(t, 13, s.CurrentRound)
	assert.Equal(t, []bool{false, false, false, false, false}, s.Holds)

	// Only sixes scores in the upper section.
	assert.Equal(t, 30, s.Totals.Upper)
	assert.Equal(t, 30+30+25+0+0+50+30, s.Totals.Lower)
	assert.Equal(t, 0, s.Totals.Bonus)
	assert.Equal(t, s.Totals.Upper+s.Totals.Lower+s.Totals.Bonus, s.Totals.Grand)

	_, err := e.RecordRoll([]float64{1, 2, 3, 4, 5})
	require.ErrorIs(t, err, ErrInvalidState)
	_, err = e.Score(Chance)
	require.ErrorIs(t, err, ErrAlreadyScored)

	before := e.State()
	assert.Equal(t, before, e.StartNewRound())
}

func TestStartNewRound(t *testing.T) {
	e := New(Config{MaxRounds: 2})
	roll(t, e, 1, 2, 3, 4, 5)
	_, err := e.ToggleHold(0)
	require.NoError(t, err)

	s := e.StartNewRound()
	assert.Equal(t, 2, s.CurrentRound)
	assert.Equal(t, 0, s.RollsThisRound)
	assert.Equal(t, []Die{Unset, Unset, Unset, Unset, Unset}, s.Dice)
	assert.Equal(t, []bool{false, false, false, false, false}, s.Holds)

	s = e.StartNewRound()
	assert.Equal(t, 2, s.CurrentRound, "round is capped at MaxRounds")
}

func TestPreview(t *testing.T) {
	e := New(Config{})

	_, err := e.Preview(Chance, nil)
	require.ErrorIs(t, err, ErrIncompleteRoll)

	got, err := e.Preview(Yahtzee, []int{4, 4, 4, 4, 4})
	require.NoError(t, err)
	assert.Equal(t, 50, got)

	_, err = e.Preview("bogus", []int{1, 2, 3, 4, 5})
	require.ErrorIs(t, err, ErrUnknownCategory)

	roll(t, e, 3, 3, 3, 5, 5)
	before := e.State()

	got, err = e.Preview(FullHouse, nil)
	require.NoError(t, err)
	assert.Equal(t, 25, got)

	got, err = e.Preview(UpperBonus, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	assert.Equal(t, before, e.State())
}

func TestReset(t *testing.T) {
	e := New(Config{})
	roll(t, e, 1, 2, 3, 4, 5)
	_, err := e.Score(Chance)
	require.NoError(t, err)

	s := e.Reset()
	assert.Equal(t, New(Config{}).State(), s)
}

func TestErrorKinds(t *testing.T) {
	err := newError(KindAlreadyScored, "category %s already scored", Chance)
	assert.True(t, errors.Is(err, ErrAlreadyScored))
	assert.False(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, "category chance already scored", err.Error())
	assert.Equal(t, KindAlreadyScored, KindOf(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("other")))
}
