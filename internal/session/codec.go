package session

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"

	"github.com/robalobadob/bigmonte/internal/game"
)

// Encode serialises a snapshot for storage.
func Encode(st State) ([]byte, error) {
	return json.Marshal(st)
}

// Decode parses a stored snapshot leniently: fields of the wrong type are
// dropped and each player's game state goes through game.DecodeState.
// Pass the result to Restore, which hydrates every engine.
func Decode(data []byte) (State, error) {
	if !gjson.ValidBytes(data) {
		return State{}, game.ErrMalformedSnapshot
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return State{}, game.ErrMalformedSnapshot
	}

	st := State{
		ID:        strFromJSON(root.Get("id")),
		Mode:      Mode(strFromJSON(root.Get("mode"))),
		OwnerID:   strFromJSON(root.Get("ownerId")),
		DailyDate: strFromJSON(root.Get("dailyDate")),
		CreatedAt: timeFromJSON(root.Get("createdAt")),
		UpdatedAt: timeFromJSON(root.Get("updatedAt")),
	}
	if v := root.Get("seed"); v.Type == gjson.Number {
		st.Seed = v.Int()
	}
	if v := root.Get("activePlayerIndex"); v.Type == gjson.Number {
		st.ActivePlayerIndex = int(v.Int())
	}
	st.Completed = root.Get("completed").Type == gjson.True

	for _, p := range root.Get("players").Array() {
		if !p.IsObject() {
			continue
		}
		ps := PlayerState{
			ID:   strFromJSON(p.Get("id")),
			Name: strFromJSON(p.Get("name")),
			Appearance: Appearance{
				DiceColor: Color(strFromJSON(p.Get("appearance.diceColor"))),
				HeldColor: Color(strFromJSON(p.Get("appearance.heldColor"))),
			},
		}
		if gs, err := game.DecodeState([]byte(p.Get("state").Raw)); err == nil {
			ps.State = *gs
		}
		st.Players = append(st.Players, ps)
	}
	return st, nil
}

func timeFromJSON(v gjson.Result) time.Time {
	if v.Type != gjson.String {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v.Str)
	if err != nil {
		return time.Time{}
	}
	return t
}

func strFromJSON(v gjson.Result) string {
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}
