// internal/names/names.go
//
// Default player names for new sessions.
//
// Responsibilities:
//   - Load the casino-themed name list from the embedded assets (or from
//     PLAYER_NAMES_FILE when set) exactly once.
//   - Pick random, non-repeating names for the players of a session.
//
// Constraints:
//   - A session has between 1 and 4 players.
//   - Picking gives up after a bounded number of tries and falls back to
//     "Player N".

package names

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/bigmonte/assets"
)

const (
	minPlayers = 1
	maxPlayers = 4
	maxTries   = 50
)

var (
	initOnce   sync.Once
	names      []string
	initialErr error
)

// Init loads the name list exactly once.
// Returns an error if the list ends up empty.
func Init() error {
	initOnce.Do(func() {
		var list []string
		var err error
		if path := os.Getenv("PLAYER_NAMES_FILE"); path != "" {
			list, err = readNameFile(path)
		} else {
			list, err = assets.NamesList()
		}
		if err != nil {
			initialErr = err
			return
		}
		names = list
		if len(names) == 0 {
			initialErr = errors.New("names: name list is empty")
		}
	})
	return initialErr
}

// readNameFile loads one name per line, skipping blanks and # comments.
func readNameFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n := strings.TrimSpace(sc.Text())
		if n != "" && !strings.HasPrefix(n, "#") {
			out = append(out, n)
		}
	}
	return out, sc.Err()
}

// RandomName returns a random name not present in exclude.
// Falls back to "Player N" (N = len(exclude)+1) when no free name is found.
func RandomName(exclude map[string]struct{}) string {
	_ = Init()
	if len(names) == 0 {
		return fmt.Sprintf("Player %d", len(exclude)+1)
	}
	for i := 0; i < maxTries; i++ {
		candidate := names[randomIndex(len(names))]
		if _, taken := exclude[candidate]; !taken {
			return candidate
		}
	}
	return fmt.Sprintf("Player %d", len(exclude)+1)
}

// DefaultPlayerNames returns count unique names; count is clamped to [1,4].
func DefaultPlayerNames(count int) []string {
	count = ClampPlayers(count)
	exclude := make(map[string]struct{}, count)
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		n := RandomName(exclude)
		exclude[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ClampPlayers clamps a requested player count to the supported range.
func ClampPlayers(count int) int {
	return min(maxPlayers, max(minPlayers, count))
}

// Stats returns the number of loaded names.
func Stats() int {
	return len(names)
}

// randomIndex returns a cryptographically random index in [0,n).
func randomIndex(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}
