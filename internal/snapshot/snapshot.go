package snapshot

import (
	"sort"
	"time"
)

// Snapshot is an immutable view of all source data for one refresh cycle.
// It is built once by a Loader, published through the Store, and read
// concurrently by projection requests. Nothing mutates a Snapshot after
// it is published.
type Snapshot struct {
	BuiltAt time.Time

	Teams          map[int]TeamSeason
	TeamAdvanced   map[int]TeamAdvanced
	Players        map[int]PlayerSeason
	PlayerAdvanced map[int]PlayerAdvanced

	// History maps player id to match records, most recent first.
	History map[int][]MatchRecord

	// Fixtures is sorted by gameweek ascending.
	Fixtures []Fixture

	Odds map[int]OddsGoals
}

// New returns an empty snapshot with all maps initialised, so lookups on
// a freshly built snapshot never panic.
func New() *Snapshot {
	return &Snapshot{
		BuiltAt:        time.Now().UTC(),
		Teams:          make(map[int]TeamSeason),
		TeamAdvanced:   make(map[int]TeamAdvanced),
		Players:        make(map[int]PlayerSeason),
		PlayerAdvanced: make(map[int]PlayerAdvanced),
		History:        make(map[int][]MatchRecord),
		Odds:           make(map[int]OddsGoals),
	}
}

// HistoryFor returns the match history for a player, most recent first.
// A player with no recorded matches yields an empty slice.
func (s *Snapshot) HistoryFor(playerID int) []MatchRecord {
	return s.History[playerID]
}

// FixtureByID finds an upcoming fixture by id.
func (s *Snapshot) FixtureByID(fixtureID int) (Fixture, bool) {
	for _, f := range s.Fixtures {
		if f.FixtureID == fixtureID {
			return f, true
		}
	}
	return Fixture{}, false
}

// UpcomingFixturesFor returns up to limit upcoming fixtures involving the
// team, in gameweek order.
func (s *Snapshot) UpcomingFixturesFor(teamID int, limit int) []Fixture {
	fixtures := make([]Fixture, 0, limit)
	for _, f := range s.Fixtures {
		if f.HomeTeamID != teamID && f.AwayTeamID != teamID {
			continue
		}
		fixtures = append(fixtures, f)
		if limit > 0 && len(fixtures) >= limit {
			break
		}
	}
	return fixtures
}

// OddsFor returns the odds-derived implied goals for a fixture, if present.
func (s *Snapshot) OddsFor(fixtureID int) *OddsGoals {
	if o, ok := s.Odds[fixtureID]; ok {
		return &o
	}
	return nil
}

// PlayersOfTeam returns the players registered to a team.
func (s *Snapshot) PlayersOfTeam(teamID int) []PlayerSeason {
	players := make([]PlayerSeason, 0)
	for _, p := range s.Players {
		if p.TeamID == teamID {
			players = append(players, p)
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].PlayerID < players[j].PlayerID })
	return players
}

// sortFixtures orders fixtures by gameweek then id. Called by loaders
// before publishing.
func (s *Snapshot) sortFixtures() {
	sort.Slice(s.Fixtures, func(i, j int) bool {
		if s.Fixtures[i].Gameweek != s.Fixtures[j].Gameweek {
			return s.Fixtures[i].Gameweek < s.Fixtures[j].Gameweek
		}
		return s.Fixtures[i].FixtureID < s.Fixtures[j].FixtureID
	})
}

// sortHistory orders every player's history most recent round first.
func (s *Snapshot) sortHistory() {
	for id := range s.History {
		records := s.History[id]
		sort.Slice(records, func(i, j int) bool { return records[i].Round > records[j].Round })
		s.History[id] = records
	}
}
