package engine_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/arbiter/internal/engine"
)

func TestAddTournament(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty engine", t, func() {
		e := engine.New()

		Convey("When a tournament is registered", func() {
			err := e.AddTournament(ctx, 1, 2, "Haifa")

			Convey("Then it is registered once", func() {
				So(err, ShouldBeNil)
				So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldEqual, engine.ErrTournamentExists)
			})
		})

		Convey("When the arguments are invalid", func() {
			So(e.AddTournament(ctx, 0, 2, "Haifa"), ShouldEqual, engine.ErrInvalidID)
			So(e.AddTournament(ctx, 1, 2, "haifa"), ShouldEqual, engine.ErrInvalidLocation)
			So(e.AddTournament(ctx, 1, 2, "Tel Aviv"), ShouldEqual, engine.ErrInvalidLocation)
			So(e.AddTournament(ctx, 1, 0, "Haifa"), ShouldEqual, engine.ErrInvalidMaxGames)
		})

		Convey("When validation order matters", func() {
			So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)

			Convey("Then the duplicate check precedes the location check", func() {
				So(e.AddTournament(ctx, 1, 2, "bad location"), ShouldEqual, engine.ErrTournamentExists)
			})
		})
	})

	Convey("Given an engine bounded to a single tournament", t, func() {
		e := engine.New(engine.WithCapacity(1))
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)

		Convey("When a second tournament is registered", func() {
			err := e.AddTournament(ctx, 2, 2, "Paris")

			Convey("Then the store reports exhaustion", func() {
				So(err, ShouldEqual, engine.ErrCapacity)
			})
		})
	})
}

func TestAddGame(t *testing.T) {
	ctx := context.Background()

	Convey("Given an open tournament", t, func() {
		e := engine.New()
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)

		Convey("When a valid game is recorded", func() {
			err := e.AddGame(ctx, 1, 1, 2, engine.FirstPlayer, 10)

			Convey("Then all counters advance together", func() {
				So(err, ShouldBeNil)
				So(e.TotalGames(), ShouldEqual, 1)

				s, err := e.TournamentStats(ctx, 1)
				So(err, ShouldBeNil)
				So(s.NumGames, ShouldEqual, 1)
				So(s.NumPlayers, ShouldEqual, 2)
			})

			Convey("And a rematch of the same pair is rejected either way around", func() {
				So(e.AddGame(ctx, 1, 1, 2, engine.Draw, 5), ShouldEqual, engine.ErrGameExists)
				So(e.AddGame(ctx, 1, 2, 1, engine.Draw, 5), ShouldEqual, engine.ErrGameExists)
			})
		})

		Convey("When the arguments are invalid", func() {
			So(e.AddGame(ctx, 0, 1, 2, engine.Draw, 10), ShouldEqual, engine.ErrInvalidID)
			So(e.AddGame(ctx, 1, 1, 1, engine.Draw, 10), ShouldEqual, engine.ErrInvalidID)
			So(e.AddGame(ctx, 2, 1, 2, engine.Draw, 10), ShouldEqual, engine.ErrTournamentNotFound)
			So(e.AddGame(ctx, 1, 1, 2, engine.Draw, -1), ShouldEqual, engine.ErrInvalidPlayTime)
		})

		Convey("When a player reaches the per-player game cap", func() {
			So(e.AddGame(ctx, 1, 1, 2, engine.FirstPlayer, 10), ShouldBeNil)
			So(e.AddGame(ctx, 1, 1, 3, engine.FirstPlayer, 10), ShouldBeNil)
			err := e.AddGame(ctx, 1, 1, 4, engine.FirstPlayer, 10)

			Convey("Then further games for that player are rejected", func() {
				So(err, ShouldEqual, engine.ErrExceededGames)
				So(e.TotalGames(), ShouldEqual, 2)
			})

			Convey("And the capped player's fresh opponent left no trace", func() {
				So(err, ShouldEqual, engine.ErrExceededGames)
				_, err := e.AveragePlayTime(ctx, 4)
				So(err, ShouldEqual, engine.ErrPlayerNotFound)
			})
		})

		Convey("When the tournament has ended", func() {
			So(e.AddGame(ctx, 1, 1, 2, engine.FirstPlayer, 10), ShouldBeNil)
			So(e.EndTournament(ctx, 1), ShouldBeNil)

			Convey("Then no further games are accepted", func() {
				So(e.AddGame(ctx, 1, 3, 4, engine.Draw, 10), ShouldEqual, engine.ErrTournamentEnded)
			})
		})
	})
}

func TestAddGameRollback(t *testing.T) {
	ctx := context.Background()

	Convey("Given a player whose statistic store is full", t, func() {
		e := engine.New(engine.WithStatsCapacity(1))
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)
		So(e.AddTournament(ctx, 2, 2, "Paris"), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 2, engine.FirstPlayer, 10), ShouldBeNil)

		Convey("When that player is drawn into a second tournament", func() {
			err := e.AddGame(ctx, 2, 3, 1, engine.FirstPlayer, 20)

			Convey("Then the whole step is undone", func() {
				So(err, ShouldEqual, engine.ErrCapacity)
				So(e.TotalGames(), ShouldEqual, 1)

				s, serr := e.TournamentStats(ctx, 2)
				So(serr, ShouldBeNil)
				So(s.NumGames, ShouldEqual, 0)

				// The freshly created opponent was purged again.
				_, perr := e.AveragePlayTime(ctx, 3)
				So(perr, ShouldEqual, engine.ErrPlayerNotFound)
			})

			Convey("And the full player's record is exactly as before", func() {
				So(err, ShouldEqual, engine.ErrCapacity)

				avg, aerr := e.AveragePlayTime(ctx, 1)
				So(aerr, ShouldBeNil)
				So(avg, ShouldAlmostEqual, 10.0)

				var sb strings.Builder
				So(e.SavePlayerLevels(ctx, &sb), ShouldBeNil)
				So(sb.String(), ShouldEqual, "1 6.00\n2 -10.00\n")
			})
		})
	})
}

func TestConcurrentAddGame(t *testing.T) {
	ctx := context.Background()

	Convey("Given one tournament per worker", t, func() {
		const (
			workers        = 16
			gamesPerWorker = 50
		)
		e := engine.New()
		for w := 1; w <= workers; w++ {
			So(e.AddTournament(ctx, w, gamesPerWorker*2, "Haifa"), ShouldBeNil)
		}

		Convey("When the workers record games concurrently", func() {
			errs := make(chan error, workers*gamesPerWorker)
			var wg sync.WaitGroup
			for w := 1; w <= workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					base := w * 1000
					for i := 0; i < gamesPerWorker; i++ {
						first, second := base+2*i, base+2*i+1
						if err := e.AddGame(ctx, w, first, second, engine.FirstPlayer, 10); err != nil {
							errs <- err
						}
					}
				}(w)
			}
			wg.Wait()
			close(errs)

			Convey("Then every game landed and the counters agree", func() {
				So(len(errs), ShouldEqual, 0)
				So(e.TotalGames(), ShouldEqual, workers*gamesPerWorker)

				sum := 0
				for w := 1; w <= workers; w++ {
					s, err := e.TournamentStats(ctx, w)
					So(err, ShouldBeNil)
					So(s.NumGames, ShouldEqual, gamesPerWorker)
					sum += s.NumGames
				}
				So(sum, ShouldEqual, e.TotalGames())
			})
		})
	})
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	Convey("Given an engine holding records", t, func() {
		e := engine.New()
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 2, engine.FirstPlayer, 10), ShouldBeNil)

		Convey("When the engine is closed", func() {
			e.Close()

			Convey("Then every record is released", func() {
				So(e.TotalGames(), ShouldEqual, 0)
				_, err := e.TournamentStats(ctx, 1)
				So(err, ShouldEqual, engine.ErrTournamentNotFound)
				_, err = e.AveragePlayTime(ctx, 1)
				So(err, ShouldEqual, engine.ErrPlayerNotFound)
			})

			Convey("And the engine is usable again", func() {
				So(e.AddTournament(ctx, 1, 2, "Paris"), ShouldBeNil)
				So(e.AddGame(ctx, 1, 1, 2, engine.Draw, 5), ShouldBeNil)
				So(e.TotalGames(), ShouldEqual, 1)
			})

			Convey("And closing again is harmless", func() {
				So(e.Close, ShouldNotPanic)
			})
		})
	})

	Convey("Given a bounded engine", t, func() {
		e := engine.New(engine.WithCapacity(1))
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)

		Convey("When it is closed", func() {
			e.Close()

			Convey("Then the bound survives for the fresh stores", func() {
				So(e.AddTournament(ctx, 2, 2, "Paris"), ShouldBeNil)
				So(e.AddTournament(ctx, 3, 2, "Oslo"), ShouldEqual, engine.ErrCapacity)
			})
		})
	})
}

func TestEndTournament(t *testing.T) {
	ctx := context.Background()

	Convey("Given a three-player round-robin in Haifa", t, func() {
		e := engine.New()
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 2, engine.FirstPlayer, 10), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 3, engine.Draw, 20), ShouldBeNil)
		So(e.AddGame(ctx, 1, 2, 3, engine.FirstPlayer, 30), ShouldBeNil)

		Convey("When the tournament ends", func() {
			So(e.EndTournament(ctx, 1), ShouldBeNil)

			Convey("Then the winner and the aggregates are exact", func() {
				s, err := e.TournamentStats(ctx, 1)
				So(err, ShouldBeNil)
				So(s.WinnerID, ShouldEqual, 1)
				So(s.LongestGameTime, ShouldEqual, 30)
				So(s.AverageGameTime, ShouldAlmostEqual, 20.0)
				So(s.NumGames, ShouldEqual, 3)
				So(s.NumPlayers, ShouldEqual, 3)
			})

			Convey("And ending again is rejected", func() {
				So(e.EndTournament(ctx, 1), ShouldEqual, engine.ErrTournamentEnded)
			})
		})
	})

	Convey("Given a tournament without games", t, func() {
		e := engine.New()
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)

		Convey("When it is ended", func() {
			So(e.EndTournament(ctx, 1), ShouldEqual, engine.ErrNoGames)
		})
	})

	Convey("Given no such tournament", t, func() {
		e := engine.New()
		So(e.EndTournament(ctx, 7), ShouldEqual, engine.ErrTournamentNotFound)
		So(e.EndTournament(ctx, 0), ShouldEqual, engine.ErrInvalidID)
	})
}

func TestRemoveTournament(t *testing.T) {
	ctx := context.Background()

	Convey("Given two tournaments with recorded games", t, func() {
		e := engine.New()
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)
		So(e.AddTournament(ctx, 2, 2, "Paris"), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 2, engine.FirstPlayer, 10), ShouldBeNil)
		So(e.AddGame(ctx, 2, 1, 2, engine.Draw, 30), ShouldBeNil)

		Convey("When the first tournament is removed", func() {
			So(e.RemoveTournament(ctx, 1), ShouldBeNil)

			Convey("Then its games stop counting anywhere", func() {
				So(e.TotalGames(), ShouldEqual, 1)
				_, err := e.TournamentStats(ctx, 1)
				So(err, ShouldEqual, engine.ErrTournamentNotFound)

				avg, err := e.AveragePlayTime(ctx, 1)
				So(err, ShouldBeNil)
				So(avg, ShouldAlmostEqual, 30.0)
			})

			Convey("And the remaining records rank without it", func() {
				var sb strings.Builder
				So(e.SavePlayerLevels(ctx, &sb), ShouldBeNil)
				So(sb.String(), ShouldEqual, "1 2.00\n2 2.00\n")
			})
		})

		Convey("When a missing tournament is removed", func() {
			So(e.RemoveTournament(ctx, 9), ShouldEqual, engine.ErrTournamentNotFound)
		})
	})
}

func TestRemovePlayer(t *testing.T) {
	ctx := context.Background()

	Convey("Given a drawn game between players 1 and 2", t, func() {
		e := engine.New()
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 2, engine.Draw, 10), ShouldBeNil)

		Convey("When player 1 is removed", func() {
			So(e.RemovePlayer(ctx, 1), ShouldBeNil)

			Convey("Then the opponent inherits a win", func() {
				var sb strings.Builder
				So(e.SavePlayerLevels(ctx, &sb), ShouldBeNil)
				So(sb.String(), ShouldEqual, "2 6.00\n")

				So(e.EndTournament(ctx, 1), ShouldBeNil)
				s, err := e.TournamentStats(ctx, 1)
				So(err, ShouldBeNil)
				So(s.WinnerID, ShouldEqual, 2)
			})

			Convey("And a second removal finds nothing", func() {
				So(e.RemovePlayer(ctx, 1), ShouldEqual, engine.ErrPlayerNotFound)
			})

			Convey("And the id can play again as a fresh record", func() {
				So(e.AddGame(ctx, 1, 1, 3, engine.FirstPlayer, 40), ShouldBeNil)
				avg, err := e.AveragePlayTime(ctx, 1)
				So(err, ShouldBeNil)
				So(avg, ShouldAlmostEqual, 40.0)
			})
		})

		Convey("When the tournament ended before the removal", func() {
			So(e.EndTournament(ctx, 1), ShouldBeNil)
			So(e.RemovePlayer(ctx, 1), ShouldBeNil)

			Convey("Then the closed result stands", func() {
				var sb strings.Builder
				So(e.SavePlayerLevels(ctx, &sb), ShouldBeNil)
				So(sb.String(), ShouldEqual, "2 2.00\n")
			})
		})

		Convey("When the id never played", func() {
			So(e.RemovePlayer(ctx, 9), ShouldEqual, engine.ErrPlayerNotFound)
			So(e.RemovePlayer(ctx, 0), ShouldEqual, engine.ErrInvalidID)
		})
	})
}

func TestAveragePlayTime(t *testing.T) {
	ctx := context.Background()

	Convey("Given a player with two games", t, func() {
		e := engine.New()
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 2, engine.FirstPlayer, 10), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 3, engine.Draw, 20), ShouldBeNil)

		Convey("When the average is queried", func() {
			avg, err := e.AveragePlayTime(ctx, 1)

			Convey("Then it is the mean over all the player's games", func() {
				So(err, ShouldBeNil)
				So(avg, ShouldAlmostEqual, 15.0)
			})
		})

		Convey("When the player is unknown", func() {
			_, err := e.AveragePlayTime(ctx, 9)
			So(err, ShouldEqual, engine.ErrPlayerNotFound)
		})
	})
}

func TestSavePlayerLevels(t *testing.T) {
	ctx := context.Background()

	Convey("Given players with distinct records", t, func() {
		e := engine.New()
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 2, engine.FirstPlayer, 10), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 3, engine.Draw, 20), ShouldBeNil)
		So(e.AddGame(ctx, 1, 2, 3, engine.FirstPlayer, 30), ShouldBeNil)

		Convey("When the levels report is written", func() {
			var sb strings.Builder
			err := e.SavePlayerLevels(ctx, &sb)

			Convey("Then lines go level-descending, ids ascending within a level", func() {
				So(err, ShouldBeNil)
				So(sb.String(), ShouldEqual, "1 4.00\n2 -2.00\n3 -4.00\n")
			})
		})

		Convey("When two players share a level", func() {
			// Player 4 mirrors player 2's record: one win, one loss.
			So(e.AddGame(ctx, 1, 4, 5, engine.FirstPlayer, 10), ShouldBeNil)
			So(e.AddGame(ctx, 1, 6, 4, engine.FirstPlayer, 10), ShouldBeNil)

			var sb strings.Builder
			So(e.SavePlayerLevels(ctx, &sb), ShouldBeNil)

			Convey("Then they are listed adjacently by id", func() {
				So(sb.String(), ShouldEqual,
					"6 6.00\n1 4.00\n2 -2.00\n4 -2.00\n3 -4.00\n5 -10.00\n")
			})
		})

		Convey("When the writer is nil", func() {
			So(e.SavePlayerLevels(ctx, nil), ShouldEqual, engine.ErrNilArgument)
		})
	})
}

func TestSaveTournamentStatistics(t *testing.T) {
	ctx := context.Background()

	Convey("Given one ended and one open tournament", t, func() {
		e := engine.New()
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)
		So(e.AddTournament(ctx, 2, 2, "Paris"), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 2, engine.FirstPlayer, 10), ShouldBeNil)
		So(e.AddGame(ctx, 1, 1, 3, engine.Draw, 20), ShouldBeNil)
		So(e.AddGame(ctx, 1, 2, 3, engine.FirstPlayer, 30), ShouldBeNil)
		So(e.AddGame(ctx, 2, 1, 2, engine.Draw, 5), ShouldBeNil)
		So(e.EndTournament(ctx, 1), ShouldBeNil)

		Convey("When the statistics report is written", func() {
			var sb strings.Builder
			err := e.SaveTournamentStatistics(ctx, &sb)

			Convey("Then only the ended tournament appears", func() {
				So(err, ShouldBeNil)
				So(sb.String(), ShouldEqual, "1\n30\n20.00\nHaifa\n3\n3\n")
			})
		})

		Convey("When the writer is nil", func() {
			So(e.SaveTournamentStatistics(ctx, nil), ShouldEqual, engine.ErrNilArgument)
		})
	})

	Convey("Given no ended tournaments", t, func() {
		e := engine.New()
		So(e.AddTournament(ctx, 1, 2, "Haifa"), ShouldBeNil)

		Convey("When the statistics report is written", func() {
			var sb strings.Builder
			err := e.SaveTournamentStatistics(ctx, &sb)

			Convey("Then the report fails with nothing written", func() {
				So(err, ShouldEqual, engine.ErrNoTournamentsEnded)
				So(sb.String(), ShouldBeEmpty)
			})
		})
	})
}
