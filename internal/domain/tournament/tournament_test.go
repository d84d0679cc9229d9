package tournament_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/arbiter/internal/domain/player"
	"github.com/okian/arbiter/internal/domain/tournament"
)

// addGame records a game and the matching player statistics, the way the
// orchestrator drives the two ledgers together.
func addGame(t *tournament.Tournament, players *player.Ledger, p1ID, p2ID, winnerID, playTime int) {
	p1, _, err := players.Ensure(p1ID)
	So(err, ShouldBeNil)
	p2, _, err := players.Ensure(p2ID)
	So(err, ShouldBeNil)

	So(t.AddGame(p1, p2, winnerID, playTime), ShouldBeNil)

	status1, status2 := player.Draw, player.Draw
	switch winnerID {
	case p1ID:
		status1, status2 = player.Win, player.Lose
	case p2ID:
		status1, status2 = player.Lose, player.Win
	}
	So(p1.Update(t.ID(), status1, playTime), ShouldBeNil)
	So(p2.Update(t.ID(), status2, playTime), ShouldBeNil)
}

func TestAggregates(t *testing.T) {
	Convey("Given an open tournament", t, func() {
		trn := tournament.New(1, 2, "Haifa", 0)
		players := player.NewLedger()

		Convey("When three games are recorded", func() {
			addGame(trn, players, 1, 2, 1, 10)
			addGame(trn, players, 1, 3, 0, 20)
			addGame(trn, players, 2, 3, 2, 30)

			Convey("Then the running aggregates are exact", func() {
				s := trn.Stats()
				So(s.NumGames, ShouldEqual, 3)
				So(s.AverageGameTime, ShouldAlmostEqual, 20.0)
				So(s.LongestGameTime, ShouldEqual, 30)
				So(s.NumPlayers, ShouldEqual, 3)
				So(s.Location, ShouldEqual, "Haifa")
			})

			Convey("And repeat participants are counted once", func() {
				So(trn.Stats().NumPlayers, ShouldEqual, 3)
			})
		})

		Convey("When a pairing is looked up", func() {
			addGame(trn, players, 1, 2, 1, 10)

			Convey("Then it is found regardless of order", func() {
				So(trn.GameExists(1, 2), ShouldBeTrue)
				So(trn.GameExists(2, 1), ShouldBeTrue)
				So(trn.GameExists(1, 3), ShouldBeFalse)
			})
		})
	})
}

func TestEnd(t *testing.T) {
	Convey("Given the three-player round-robin", t, func() {
		trn := tournament.New(1, 2, "Haifa", 0)
		players := player.NewLedger()
		addGame(trn, players, 1, 2, 1, 10) // player 1 wins
		addGame(trn, players, 1, 3, 0, 20) // draw
		addGame(trn, players, 2, 3, 2, 30) // player 2 wins

		Convey("When the tournament ends", func() {
			trn.End(players)

			Convey("Then the highest scorer is the champion", func() {
				// Scores: p1 = 1+2 = 3, p2 = 0+1 = 1, p3 = 2+0 = 2.
				So(trn.Ended(), ShouldBeTrue)
				So(trn.WinnerID(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a later pair tied with the leader on every level", t, func() {
		trn := tournament.New(1, 1, "Haifa", 0)
		players := player.NewLedger()
		addGame(trn, players, 4, 2, 0, 10) // draw: player 4 leads the scan
		addGame(trn, players, 5, 3, 0, 10) // draw: identical records

		Convey("When the tournament ends", func() {
			trn.End(players)

			Convey("Then the lowest id among the tied pair wins", func() {
				So(trn.WinnerID(), ShouldEqual, 3)
			})
		})
	})
}

func TestRemovePlayer(t *testing.T) {
	Convey("Given a tournament where players 1 and 2 drew", t, func() {
		trn := tournament.New(1, 2, "Haifa", 0)
		players := player.NewLedger()
		addGame(trn, players, 1, 2, 0, 10)

		Convey("When player 1 is removed from the tournament's games", func() {
			p1, _ := players.Get(1)
			p1.Reset()
			trn.RemovePlayer(p1, players)

			Convey("Then the opponent's draw became a win", func() {
				p2, _ := players.Get(2)
				So(p2.Wins(), ShouldEqual, 1)
				So(p2.Draws(), ShouldEqual, 0)
				So(p2.Score(1), ShouldEqual, 1)
			})
		})

		Convey("When the tournament has already ended", func() {
			trn.End(players)
			before, _ := players.Get(2)
			wins := before.Wins()

			p1, _ := players.Get(1)
			trn.RemovePlayer(p1, players)

			Convey("Then nothing changes", func() {
				after, _ := players.Get(2)
				So(after.Wins(), ShouldEqual, wins)
			})
		})
	})
}

func TestUnwind(t *testing.T) {
	Convey("Given a tournament with two games", t, func() {
		trn := tournament.New(1, 2, "Haifa", 0)
		players := player.NewLedger()
		addGame(trn, players, 1, 2, 1, 10)
		addGame(trn, players, 1, 3, 0, 20)

		Convey("When the tournament is unwound before removal", func() {
			trn.Unwind(players)

			Convey("Then every counted effect on the players is reversed", func() {
				for _, id := range []int{1, 2, 3} {
					p, ok := players.Get(id)
					So(ok, ShouldBeTrue)
					So(p.Active(), ShouldBeFalse)
					So(p.PlayedIn(1), ShouldBeFalse)
				}
			})
		})
	})
}

func TestLedger(t *testing.T) {
	Convey("Given an empty tournament ledger", t, func() {
		l := tournament.NewLedger()

		Convey("When a tournament is added twice", func() {
			So(l.Add(1, 2, "Haifa"), ShouldBeNil)
			err := l.Add(1, 3, "Paris")

			Convey("Then the duplicate is rejected", func() {
				So(err, ShouldNotBeNil)
				So(l.Len(), ShouldEqual, 1)
				trn, _ := l.Get(1)
				So(trn.MaxGamesPerPlayer(), ShouldEqual, 2)
			})
		})

		Convey("When tournaments are listed", func() {
			So(l.Add(3, 1, "Haifa"), ShouldBeNil)
			So(l.Add(1, 1, "Paris"), ShouldBeNil)

			Convey("Then ids come back ascending", func() {
				So(l.IDs(), ShouldResemble, []int{1, 3})
			})
		})
	})
}
