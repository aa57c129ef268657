// internal/game/engine.go
//
// Core rules engine for a single player's dice poker game.
// Responsibilities:
//   - Track dice, holds and the roll budget for the current round.
//   - Validate and apply rolls supplied by an external roller.
//   - Score categories, maintain the upper bonus and totals.
//   - Advance rounds and detect completion.
//
// Notes:
//   - Every operation validates all preconditions before mutating anything,
//     so a returned error always leaves the engine untouched.
//   - Snapshots returned to callers are deep copies.
//   - An Engine is not safe for concurrent use; callers serialise access.
package game

import (
	"math"
	"strconv"
	"strings"
)

// Engine owns the state of one game.
type Engine struct {
	cfg   Config
	state State
}

// New constructs an engine with cfg; unset fields take the default rules.
func New(cfg Config) *Engine {
	e := &Engine{cfg: cfg.withDefaults()}
	e.state = e.initialState()
	return e
}

// Config returns the effective rules.
func (e *Engine) Config() Config { return e.cfg.withDefaults() }

// State returns a deep copy of the current state.
func (e *Engine) State() State { return cloneState(e.state) }

// Reset discards all progress.
func (e *Engine) Reset() State {
	e.state = e.initialState()
	return e.State()
}

// RecordRoll applies one roll. values holds one raw value per die; values
// for held dice are ignored. Each value is rounded to the nearest integer,
// and anything non-finite or outside [1,6] counts as missing.
func (e *Engine) RecordRoll(values []float64) (State, error) {
	if e.state.Completed {
		return e.State(), ErrInvalidState
	}
	if e.state.RollsThisRound >= e.cfg.MaxRolls {
		return e.State(), ErrRollLimitExceeded
	}
	if len(values) != e.cfg.DiceCount {
		return e.State(), newError(KindArityMismatch, "expected %d dice values, got %d", e.cfg.DiceCount, len(values))
	}

	next := make([]Die, len(e.state.Dice))
	for i, prev := range e.state.Dice {
		if e.state.Holds[i] {
			next[i] = prev
			continue
		}
		v := normalizeDie(values[i])
		if v == Unset {
			return e.State(), newError(KindMissingValue, "die %d is missing a value", i+1)
		}
		next[i] = v
	}

	e.state.Dice = next
	e.state.RollsThisRound++
	return e.State(), nil
}

// ToggleHold flips the hold flag of die index.
func (e *Engine) ToggleHold(index int) (State, error) {
	if index < 0 || index >= e.cfg.DiceCount {
		return e.State(), newError(KindIndexOutOfBounds, "die index %d is out of bounds", index)
	}
	if e.state.RollsThisRound == 0 {
		return e.State(), ErrPrematureHold
	}
	if e.state.Completed {
		return e.State(), ErrInvalidState
	}
	e.state.Holds[index] = !e.state.Holds[index]
	return e.State(), nil
}

// Preview returns what Score would award for key without changing state.
// When override is non-nil it is scored instead of the current dice.
func (e *Engine) Preview(key Category, override []int) (int, error) {
	if !IsCategory(key) {
		return 0, newError(KindUnknownCategory, "unknown category %s", key)
	}
	dice := override
	if dice == nil {
		full, err := e.fullDice()
		if err != nil {
			return 0, err
		}
		dice = full
	}
	return ComputeScore(key, dice), nil
}

// Score commits the current hand to category key and advances the round.
// It returns the points awarded.
func (e *Engine) Score(key Category) (int, error) {
	idx := e.categoryIndex(key)
	if idx < 0 {
		return 0, newError(KindUnknownCategory, "unknown category %s", key)
	}
	cat := &e.state.Categories[idx]
	if !cat.Interactive {
		return 0, newError(KindNotInteractive, "category %s is not user-scoreable", key)
	}
	if cat.Scored {
		return 0, newError(KindAlreadyScored, "category %s already scored", key)
	}
	if e.state.Completed {
		return 0, ErrInvalidState
	}
	dice, err := e.fullDice()
	if err != nil {
		return 0, err
	}

	score := ComputeScore(key, dice)
	round := e.state.CurrentRound
	cat.Score = &score
	cat.Scored = true
	cat.ScoredDice = dice
	cat.RoundScored = &round

	e.updateUpperBonus()
	e.recomputeTotals()
	e.advanceRound()
	return score, nil
}

// StartNewRound begins the next round without scoring. No-op once complete.
func (e *Engine) StartNewRound() State {
	if e.state.Completed {
		return e.State()
	}
	e.state.CurrentRound = min(e.state.CurrentRound+1, e.cfg.MaxRounds)
	e.clearRound()
	return e.State()
}

// Hydrate restores state from an untrusted snapshot. Raw fields are
// clamped to this engine's rules, categories are rebuilt from the template,
// and the bonus, totals and completion flag are always recomputed.
// A nil snapshot leaves the engine unchanged.
func (e *Engine) Hydrate(s *State) State {
	if s == nil {
		return e.State()
	}
	next := e.initialState()

	for i := range next.Dice {
		if i < len(s.Dice) {
			next.Dice[i] = normalizeDie(float64(s.Dice[i]))
		}
		if i < len(s.Holds) {
			next.Holds[i] = s.Holds[i]
		}
	}
	next.RollsThisRound = clamp(s.RollsThisRound, 0, e.cfg.MaxRolls)
	next.CurrentRound = clamp(s.CurrentRound, 1, e.cfg.MaxRounds)

	saved := make(map[Category]CategoryState, len(s.Categories))
	for _, c := range s.Categories {
		saved[c.Key] = c
	}
	for i := range next.Categories {
		c, ok := saved[next.Categories[i].Key]
		if !ok {
			continue
		}
		cat := &next.Categories[i]
		if c.Score != nil {
			v := *c.Score
			cat.Score = &v
		}
		cat.Scored = c.Scored
		if c.Scored {
			cat.ScoredDice = normalizeScoredDice(c.ScoredDice, e.cfg.DiceCount)
			if c.RoundScored != nil {
				r := clamp(*c.RoundScored, 1, e.cfg.MaxRounds)
				cat.RoundScored = &r
			}
		}
	}

	e.state = next
	e.updateUpperBonus()
	e.recomputeTotals()
	return e.State()
}

func (e *Engine) categoryIndex(key Category) int {
	for i := range e.state.Categories {
		if e.state.Categories[i].Key == key {
			return i
		}
	}
	return -1
}

// updateUpperBonus awards the bonus once all six upper rows are scored and
// clears it otherwise.
func (e *Engine) updateUpperBonus() {
	idx := e.categoryIndex(UpperBonus)
	if idx < 0 {
		return
	}
	bonus := &e.state.Categories[idx]
	bonus.ScoredDice = nil
	bonus.RoundScored = nil

	upperTotal := 0
	for _, c := range e.state.Categories {
		if c.Section != SectionUpper {
			continue
		}
		if !c.Scored {
			bonus.Score = nil
			bonus.Scored = false
			return
		}
		upperTotal += scoreOf(c)
	}

	v := 0
	if upperTotal >= *e.cfg.UpperBonusThreshold {
		v = *e.cfg.UpperBonusValue
	}
	bonus.Score = &v
	bonus.Scored = true
}

func (e *Engine) recomputeTotals() {
	var t Totals
	completed := true
	for _, c := range e.state.Categories {
		switch c.Section {
		case SectionUpper:
			t.Upper += scoreOf(c)
		case SectionLower:
			t.Lower += scoreOf(c)
		case SectionBonus:
			t.Bonus += scoreOf(c)
		}
		if c.Interactive && !c.Scored {
			completed = false
		}
	}
	t.Grand = t.Upper + t.Lower + t.Bonus
	e.state.Totals = t
	e.state.Completed = completed
}

// advanceRound runs after every successful score. The round number freezes
// once the game is complete.
func (e *Engine) advanceRound() {
	if !e.state.Completed {
		e.state.CurrentRound = min(e.state.CurrentRound+1, e.cfg.MaxRounds)
	}
	e.clearRound()
}

func (e *Engine) clearRound() {
	e.state.RollsThisRound = 0
	e.state.Dice = make([]Die, e.cfg.DiceCount)
	e.state.Holds = make([]bool, e.cfg.DiceCount)
}

// fullDice returns the current hand, or ErrIncompleteRoll if there is none.
func (e *Engine) fullDice() ([]int, error) {
	if e.state.RollsThisRound == 0 {
		return nil, ErrIncompleteRoll
	}
	out := make([]int, len(e.state.Dice))
	for i, d := range e.state.Dice {
		if !d.Valid() {
			return nil, newError(KindIncompleteRoll, "die %d has no value yet", i+1)
		}
		out[i] = int(d)
	}
	return out, nil
}

func (e *Engine) initialState() State {
	return State{
		Dice:         make([]Die, e.cfg.DiceCount),
		Holds:        make([]bool, e.cfg.DiceCount),
		CurrentRound: 1,
		MaxRounds:    e.cfg.MaxRounds,
		MaxRolls:     e.cfg.MaxRolls,
		Categories:   Categories(),
	}
}

func cloneState(s State) State {
	out := s
	out.Dice = append([]Die(nil), s.Dice...)
	out.Holds = append([]bool(nil), s.Holds...)
	out.Categories = make([]CategoryState, len(s.Categories))
	for i, c := range s.Categories {
		if c.Score != nil {
			v := *c.Score
			c.Score = &v
		}
		if c.RoundScored != nil {
			v := *c.RoundScored
			c.RoundScored = &v
		}
		if c.ScoredDice != nil {
			c.ScoredDice = append([]int(nil), c.ScoredDice...)
		}
		out.Categories[i] = c
	}
	return out
}

func scoreOf(c CategoryState) int {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}

// normalizeDie rounds half up; non-finite or out-of-range input is Unset.
func normalizeDie(f float64) Die {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Unset
	}
	r := math.Floor(f + 0.5)
	if r < 1 || r > 6 {
		return Unset
	}
	return Die(r)
}

func parseDie(s string) Die {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Unset
	}
	return normalizeDie(f)
}

// normalizeScoredDice keeps the valid faces among the first n values.
func normalizeScoredDice(values []int, n int) []int {
	if len(values) > n {
		values = values[:n]
	}
	var out []int
	for _, v := range values {
		if d := normalizeDie(float64(v)); d != Unset {
			out = append(out, int(d))
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	return min(hi, max(lo, v))
}
