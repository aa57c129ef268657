package session

import (
	"strings"
	"time"

	"github.com/robalobadob/bigmonte/internal/game"
)

// Mode selects how players share a session.
type Mode string

const (
	ModeSolo        Mode = "solo"
	ModePassAndPlay Mode = "pass-and-play"
)

// ParseMode maps user input to a Mode; anything unrecognised is solo.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePassAndPlay:
		return ModePassAndPlay
	default:
		return ModeSolo
	}
}

// Color is a dice palette.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorSlate  Color = "slate"
)

// ParseColor maps user input to a Color, falling back to blue.
func ParseColor(s string) Color {
	switch c := Color(strings.ToLower(strings.TrimSpace(s))); c {
	case ColorBlue, ColorRed, ColorPurple, ColorSlate:
		return c
	default:
		return ColorBlue
	}
}

// Appearance is a player's dice colours.
type Appearance struct {
	DiceColor Color `json:"diceColor"`
	HeldColor Color `json:"heldColor"`
}

// DefaultAppearance is blue dice, blue when held.
func DefaultAppearance() Appearance {
	return Appearance{DiceColor: ColorBlue, HeldColor: ColorBlue}
}

func (a Appearance) normalized() Appearance {
	return Appearance{DiceColor: ParseColor(string(a.DiceColor)), HeldColor: ParseColor(string(a.HeldColor))}
}

// PlayerOptions customises one seat at creation time.
type PlayerOptions struct {
	Name       string     `json:"name"`
	Appearance Appearance `json:"appearance"`
}

// Options configures New.
type Options struct {
	Mode Mode
	// PlayerCount is used when Players is shorter; clamped to [1,4].
	PlayerCount int
	Players     []PlayerOptions
	OwnerID     string
	// DailyDate marks a daily challenge session (YYYY-MM-DD).
	DailyDate string
	// Seed makes dice deterministic; zero rolls at random.
	Seed  int64
	Rules game.Config
}

// PlayerState is one player's part of a snapshot.
type PlayerState struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Appearance Appearance `json:"appearance"`
	State      game.State `json:"state"`
}

// State is a serialisable snapshot of a whole session.
type State struct {
	ID                string        `json:"id"`
	Mode              Mode          `json:"mode"`
	OwnerID           string        `json:"ownerId,omitempty"`
	DailyDate         string        `json:"dailyDate,omitempty"`
	Seed              int64         `json:"seed,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	Players           []PlayerState `json:"players"`
	ActivePlayerIndex int           `json:"activePlayerIndex"`
	Completed         bool          `json:"completed"`
}

// LeaderIndex returns the index of the player with the highest grand total,
// the first such player on ties, or -1 when there are no players.
func (s State) LeaderIndex() int {
	best := -1
	for i, p := range s.Players {
		if best < 0 || p.State.Totals.Grand > s.Players[best].State.Totals.Grand {
			best = i
		}
	}
	return best
}
