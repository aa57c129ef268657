// internal/game/types.go
//
// Core type definitions for the dice poker engine.
// Defines:
//   - Die: a single die face (0 = not rolled yet).
//   - Category/Section: scorecard keys and the section they belong to.
//   - CategoryState, Totals, State: the snapshot handed to callers.
//   - Config: house rules (dice per hand, rolls per round, bonus rules).

package game

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Die is one die value. Unset (0) means the die has not been rolled this round.
// JSON encodes Unset as null.
type Die int

// Unset marks a die without a value.
const Unset Die = 0

// Valid reports whether d holds a face in [1,6].
func (d Die) Valid() bool { return d >= 1 && d <= 6 }

// MarshalJSON writes null for unset dice.
func (d Die) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(d))), nil
}

// UnmarshalJSON never fails: anything that is not a usable face becomes Unset.
func (d *Die) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*d = Unset
			return nil
		}
		*d = parseDie(s)
		return nil
	}
	*d = normalizeDie(f)
	return nil
}

// Category is a scorecard key.
type Category string

const (
	Ones          Category = "ones"
	Twos          Category = "twos"
	Threes        Category = "threes"
	Fours         Category = "fours"
	Fives         Category = "fives"
	Sixes         Category = "sixes"
	UpperBonus    Category = "upper-bonus"
	ThreeKind     Category = "three-kind"
	FourKind      Category = "four-kind"
	FullHouse     Category = "full-house"
	SmallStraight Category = "small-straight"
	LargeStraight Category = "large-straight"
	Yahtzee       Category = "yahtzee"
	Chance        Category = "chance"
)

// Section groups categories on the scorecard.
type Section string

const (
	SectionUpper Section = "upper"
	SectionLower Section = "lower"
	SectionBonus Section = "bonus"
)

// CategoryState is one scorecard row.
type CategoryState struct {
	Key         Category `json:"key"`
	Label       string   `json:"label"`
	Section     Section  `json:"section"`
	Interactive bool     `json:"interactive"`
	Scored      bool     `json:"scored"`
	Score       *int     `json:"score"`       // nil until scored
	ScoredDice  []int    `json:"scoredDice"`  // hand frozen at scoring time
	RoundScored *int     `json:"roundScored"` // round in which it was scored
}

// Totals are derived from the category scores after every scoring action.
type Totals struct {
	Upper int `json:"upper"`
	Lower int `json:"lower"`
	Bonus int `json:"bonus"`
	Grand int `json:"grand"`
}

// State is a full engine snapshot. Values returned by the engine never
// alias its internal slices.
type State struct {
	Dice           []Die           `json:"dice"`
	Holds          []bool          `json:"holds"`
	RollsThisRound int             `json:"rollsThisRound"`
	CurrentRound   int             `json:"currentRound"`
	MaxRounds      int             `json:"maxRounds"`
	MaxRolls       int             `json:"maxRolls"`
	Categories     []CategoryState `json:"categories"`
	Totals         Totals          `json:"totals"`
	Completed      bool            `json:"completed"`
}

// Category returns the row for key, if present.
func (s State) Category(key Category) (CategoryState, bool) {
	for _, c := range s.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return CategoryState{}, false
}

// Config holds house rules. Zero or negative counts fall back to defaults.
// The bonus fields are optional: nil (or negative) means the default, while
// an explicit 0 is kept, so a threshold of 0 always awards the bonus and a
// value of 0 turns it off.
type Config struct {
	DiceCount           int  `json:"diceCount" yaml:"dice_count"`
	MaxRolls            int  `json:"maxRolls" yaml:"max_rolls"`
	UpperBonusThreshold *int `json:"upperBonusThreshold,omitempty" yaml:"upper_bonus_threshold"`
	UpperBonusValue     *int `json:"upperBonusValue,omitempty" yaml:"upper_bonus_value"`
	MaxRounds           int  `json:"maxRounds" yaml:"max_rounds"`
}

// Int returns a pointer to v, for the optional fields of Config.
func Int(v int) *int { return &v }

const (
	defaultDiceCount           = 5
	defaultMaxRolls            = 3
	defaultUpperBonusThreshold = 63
	defaultUpperBonusValue     = 35
)

// DefaultConfig returns the standard rules: 5 dice, 3 rolls, 63/35 bonus, 13 rounds.
func DefaultConfig() Config {
	return Config{
		DiceCount:           defaultDiceCount,
		MaxRolls:            defaultMaxRolls,
		UpperBonusThreshold: Int(defaultUpperBonusThreshold),
		UpperBonusValue:     Int(defaultUpperBonusValue),
		MaxRounds:           len(upperKeys) + len(lowerKeys),
	}
}

// withDefaults fills unset fields from DefaultConfig. The result never
// shares pointers with c.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DiceCount <= 0 {
		c.DiceCount = d.DiceCount
	}
	if c.MaxRolls <= 0 {
		c.MaxRolls = d.MaxRolls
	}
	c.UpperBonusThreshold = optional(c.UpperBonusThreshold, defaultUpperBonusThreshold)
	c.UpperBonusValue = optional(c.UpperBonusValue, defaultUpperBonusValue)
	if c.MaxRounds <= 0 {
		c.MaxRounds = d.MaxRounds
	}
	return c
}

func optional(v *int, def int) *int {
	if v == nil || *v < 0 {
		return Int(def)
	}
	return Int(*v)
}
