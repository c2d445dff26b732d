package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testFixtures() []Fixture {
	return []Fixture{
		{FixtureID: 3, Gameweek: 3, HomeTeamID: 1, AwayTeamID: 2},
		{FixtureID: 1, Gameweek: 1, HomeTeamID: 2, AwayTeamID: 1},
		{FixtureID: 2, Gameweek: 2, HomeTeamID: 1, AwayTeamID: 3},
		{FixtureID: 4, Gameweek: 4, HomeTeamID: 2, AwayTeamID: 3},
	}
}

func TestSortFixturesAndLookup(t *testing.T) {
	snap := New()
	snap.Fixtures = testFixtures()
	snap.sortFixtures()

	assert.Equal(t, []int{1, 2, 3, 4}, []int{
		snap.Fixtures[0].FixtureID, snap.Fixtures[1].FixtureID,
		snap.Fixtures[2].FixtureID, snap.Fixtures[3].FixtureID,
	})

	fix, ok := snap.FixtureByID(2)
	assert.True(t, ok)
	assert.Equal(t, 2, fix.Gameweek)

	_, ok = snap.FixtureByID(99)
	assert.False(t, ok)
}

func TestUpcomingFixturesFor(t *testing.T) {
	snap := New()
	snap.Fixtures = testFixtures()
	snap.sortFixtures()

	all := snap.UpcomingFixturesFor(1, 0)
	assert.Len(t, all, 3)

	limited := snap.UpcomingFixturesFor(1, 2)
	assert.Len(t, limited, 2)
	assert.Equal(t, 1, limited[0].FixtureID, "fixtures must come back in gameweek order")

	assert.Empty(t, snap.UpcomingFixturesFor(99, 5))
}

func TestSortHistory(t *testing.T) {
	snap := New()
	snap.History[1] = []MatchRecord{
		{Round: 2, TotalPoints: 5},
		{Round: 8, TotalPoints: 2},
		{Round: 5, TotalPoints: 9},
	}
	snap.sortHistory()

	rounds := []int{snap.History[1][0].Round, snap.History[1][1].Round, snap.History[1][2].Round}
	assert.Equal(t, []int{8, 5, 2}, rounds)

	assert.Empty(t, snap.HistoryFor(99))
}

func TestPlayersOfTeam(t *testing.T) {
	snap := New()
	snap.Players[3] = PlayerSeason{PlayerID: 3, TeamID: 1}
	snap.Players[1] = PlayerSeason{PlayerID: 1, TeamID: 1}
	snap.Players[2] = PlayerSeason{PlayerID: 2, TeamID: 2}

	players := snap.PlayersOfTeam(1)
	assert.Len(t, players, 2)
	assert.Equal(t, 1, players[0].PlayerID, "players come back in id order")
	assert.Equal(t, 3, players[1].PlayerID)
}

func TestOddsFor(t *testing.T) {
	snap := New()
	snap.Odds[7] = OddsGoals{FixtureID: 7, HomeXG: 1.8, AwayXG: 1.1}

	odds := snap.OddsFor(7)
	assert.NotNil(t, odds)
	assert.Equal(t, 1.8, odds.HomeXG)

	assert.Nil(t, snap.OddsFor(8))
}

func TestPositionIsAttacking(t *testing.T) {
	assert.True(t, PositionMidfielder.IsAttacking())
	assert.True(t, PositionForward.IsAttacking())
	assert.False(t, PositionDefender.IsAttacking())
	assert.False(t, PositionGoalkeeper.IsAttacking())
}
