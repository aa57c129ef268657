// internal/game/codec.go
//
// Lenient decoding of saved snapshots.
//
// Saved games come from storage written by older builds, or by hand, so the
// decoder never trusts the shape: fields of the wrong type are skipped and
// left for Hydrate to default. Only input that is not a JSON object fails.

package game

import (
	"errors"
	"math"

	"github.com/tidwall/gjson"
)

// ErrMalformedSnapshot is returned when data is not a JSON object.
var ErrMalformedSnapshot = errors.New("snapshot is not a JSON object")

// DecodeState parses a saved snapshot. The result should be passed to
// Engine.Hydrate, which clamps it to the engine's rules.
func DecodeState(data []byte) (*State, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformedSnapshot
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrMalformedSnapshot
	}

	s := &State{}
	if v := root.Get("dice"); v.IsArray() {
		for _, d := range v.Array() {
			s.Dice = append(s.Dice, dieFromJSON(d))
		}
	}
	if v := root.Get("holds"); v.IsArray() {
		for _, h := range v.Array() {
			s.Holds = append(s.Holds, truthy(h))
		}
	}
	if n, ok := intFromJSON(root.Get("rollsThisRound")); ok {
		s.RollsThisRound = n
	}
	if n, ok := intFromJSON(root.Get("currentRound")); ok {
		s.CurrentRound = n
	}
	if v := root.Get("categories"); v.IsArray() {
		for _, c := range v.Array() {
			if cat, ok := categoryFromJSON(c); ok {
				s.Categories = append(s.Categories, cat)
			}
		}
	}
	return s, nil
}

func categoryFromJSON(c gjson.Result) (CategoryState, bool) {
	if !c.IsObject() {
		return CategoryState{}, false
	}
	key := c.Get("key")
	if key.Type != gjson.String {
		return CategoryState{}, false
	}
	cat := CategoryState{
		Key:    Category(key.Str),
		Scored: c.Get("scored").Type == gjson.True,
	}
	if n, ok := intFromJSON(c.Get("score")); ok {
		cat.Score = &n
	}
	if v := c.Get("scoredDice"); v.IsArray() {
		// Unusable entries stay as 0 so Hydrate truncates before filtering.
		for _, d := range v.Array() {
			cat.ScoredDice = append(cat.ScoredDice, int(dieFromJSON(d)))
		}
	}
	if n, ok := intFromJSON(c.Get("roundScored")); ok {
		cat.RoundScored = &n
	}
	return cat, true
}

func dieFromJSON(v gjson.Result) Die {
	switch v.Type {
	case gjson.Number:
		return normalizeDie(v.Num)
	case gjson.String:
		return parseDie(v.Str)
	default:
		return Unset
	}
}

// intFromJSON truncates finite numbers; anything else is reported missing.
func intFromJSON(v gjson.Result) (int, bool) {
	if v.Type != gjson.Number || math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
		return 0, false
	}
	n := math.Trunc(v.Num)
	n = math.Max(math.MinInt32, math.Min(math.MaxInt32, n))
	return int(n), true
}

// truthy follows loose truthiness: true, non-zero numbers, non-empty strings,
// arrays and objects.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case gjson.String:
		return v.Str != ""
	case gjson.JSON:
		return true
	default:
		return false
	}
}
