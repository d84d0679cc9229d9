package player

import "math"

// Standing carries the running best-so-far state threaded through the
// ranking comparators while a tournament scan is in progress.
type Standing struct {
	MaxScore  int
	MinLosses int
	MaxWins   int
}

// NewStanding returns the neutral pre-scan state.
func NewStanding() *Standing {
	return &Standing{MinLosses: math.MaxInt}
}

// The comparators share a three-valued contract: a positive return is the
// id of a new best candidate (the standing has been advanced), zero means
// neither operand improves on the best so far, and -1 means both operands
// tie the current best and the caller must escalate to the next tie-break
// level. Either operand may be nil (a vacated game side).

// CompareScores ranks by tournament score, higher is better.
func CompareScores(p1, p2 *Player, tournamentID int, st *Standing) int {
	score1, score2 := 0, 0
	if p1 != nil {
		score1 = p1.Score(tournamentID)
	}
	if p2 != nil {
		score2 = p2.Score(tournamentID)
	}
	if p1 != nil && score1 > st.MaxScore {
		st.MaxScore = score1
		st.MinLosses = p1.losses
		st.MaxWins = p1.wins
		return p1.id
	}
	if p2 != nil && score2 > st.MaxScore {
		st.MaxScore = score2
		st.MinLosses = p2.losses
		st.MaxWins = p2.wins
		return p2.id
	}
	if p1 != nil && p2 != nil && score1 == score2 && score1 == st.MaxScore {
		return -1
	}
	return 0
}

// CompareLosses ranks by loss count, fewer is better.
func CompareLosses(p1, p2 *Player, st *Standing) int {
	if p1 != nil && p1.losses < st.MinLosses {
		st.MinLosses = p1.losses
		st.MaxWins = p1.wins
		return p1.id
	}
	if p2 != nil && p2.losses < st.MinLosses {
		st.MinLosses = p2.losses
		st.MaxWins = p2.wins
		return p2.id
	}
	if p1 != nil && p2 != nil && p1.losses == p2.losses && p1.losses == st.MinLosses {
		return -1
	}
	return 0
}

// CompareWins ranks by win count, more is better.
func CompareWins(p1, p2 *Player, st *Standing) int {
	if p1 != nil && p1.wins > st.MaxWins {
		st.MaxWins = p1.wins
		return p1.id
	}
	if p2 != nil && p2.wins > st.MaxWins {
		st.MaxWins = p2.wins
		return p2.id
	}
	if p1 != nil && p2 != nil && p1.wins == p2.wins && p2.wins == st.MaxWins {
		return -1
	}
	return 0
}
