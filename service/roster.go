package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-dwarfs/game"
)

// RosterEntry describes one dwarf to be placed on the start cell.
type RosterEntry struct {
	Kind       string
	Name       string
	Symbol     rune
	StartDelay time.Duration
}

var profiles = map[string]struct {
	name   string
	symbol rune
}{
	game.LeftWallKind:   {name: "LeftTurnDwarf", symbol: 'L'},
	game.RightWallKind:  {name: "RightTurnDwarf", symbol: 'R'},
	game.PathFollowKind: {name: "PathFollowerDwarf", symbol: 'P'},
	game.RandomPortKind: {name: "RandomPortDwarf", symbol: 'T'},
}

// DefaultRoster names the given strategy kinds and staggers them: entry k
// starts k*stagger after the run begins. A kind listed more than once gets a
// numeric suffix from its second occurrence on.
func DefaultRoster(kinds []string, stagger time.Duration) ([]RosterEntry, error) {
	if len(kinds) == 0 {
		return nil, game.ErrEmptyRoster
	}
	if stagger <= 0 {
		return nil, fmt.Errorf("%w: stagger must be positive, got %v", game.ErrRosterOrder, stagger)
	}

	seen := make(map[string]int, len(kinds))
	roster := make([]RosterEntry, 0, len(kinds))
	for k, raw := range kinds {
		kind := strings.ToLower(strings.TrimSpace(raw))
		profile, ok := profiles[kind]
		if !ok {
			return nil, &game.UnknownStrategyError{Kind: raw}
		}

		seen[kind]++
		name := profile.name
		if n := seen[kind]; n > 1 {
			name = fmt.Sprintf("%s%d", name, n)
		}

		roster = append(roster, RosterEntry{
			Kind:       kind,
			Name:       name,
			Symbol:     profile.symbol,
			StartDelay: time.Duration(k) * stagger,
		})
	}
	return roster, nil
}

// ParseKinds splits a comma separated roster list, dropping blanks.
func ParseKinds(list string) []string {
	kinds := make([]string, 0)
	for _, kind := range strings.Split(list, ",") {
		if kind = strings.TrimSpace(kind); kind != "" {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
