// game/scoring.go
package game

import (
	"strings"

	"github.com/AdeolaFaraday/guess-drawing-game-be/room"
)

// GuessOutcome classifies one chat line against the active word.
type GuessOutcome int

const (
	// OutcomeNotAGuess means there is no active word, or the drawer sent it.
	OutcomeNotAGuess GuessOutcome = iota
	// OutcomeAlreadyScored means the sender already guessed right this round.
	OutcomeAlreadyScored
	OutcomeIncorrect
	OutcomeCorrect
)

type GuessResult struct {
	Outcome  GuessOutcome
	Points   int
	Position int
}

// evaluateGuess checks text against the room's current word and, on a
// match, records the guesser and credits the points. Matching trims
// surrounding whitespace and ignores case; nothing fuzzier. Caller holds
// the room mutex.
func evaluateGuess(r *room.Room, participantID, text string) GuessResult {
	if r.Game.CurrentWord == "" || r.Game.CurrentDrawer == participantID {
		return GuessResult{Outcome: OutcomeNotAGuess}
	}
	if _, scored := r.Guessed[participantID]; scored {
		return GuessResult{Outcome: OutcomeAlreadyScored}
	}
	if !strings.EqualFold(strings.TrimSpace(text), r.Game.CurrentWord) {
		return GuessResult{Outcome: OutcomeIncorrect}
	}

	position := len(r.Guessed) + 1
	r.Guessed[participantID] = position
	points := pointsForPosition(position)
	if p, exists := r.GetParticipant(participantID); exists {
		p.Points += points
	}
	return GuessResult{Outcome: OutcomeCorrect, Points: points, Position: position}
}

// pointsForPosition maps guess rank to points: 100, 75, 50, 25 for ranks
// four and five, 10 from rank six on.
func pointsForPosition(position int) int {
	switch position {
	case 1:
		return 100
	case 2:
		return 75
	case 3:
		return 50
	case 4, 5:
		return 25
	default:
		return 10
	}
}
