package game

import (
	"testing"

	"github.com/AdeolaFaraday/guess-drawing-game-be/room"
)

func newGuessingRoom(word, drawer string, guessers ...string) *room.Room {
	r := room.NewRoom("score_test")
	r.AddParticipant(&room.Participant{ID: drawer, Name: "drawer"})
	for _, id := range guessers {
		r.AddParticipant(&room.Participant{ID: id, Name: "user-" + id})
	}
	r.Game.Started = true
	r.Game.CurrentDrawer = drawer
	r.Game.CurrentWord = word
	return r
}

func TestEvaluateGuess_NoActiveWord(t *testing.T) {
	r := newGuessingRoom("", "d", "g")

	result := evaluateGuess(r, "g", "anything")
	if result.Outcome != OutcomeNotAGuess {
		t.Errorf("Expected OutcomeNotAGuess without an active word, got %v", result.Outcome)
	}
}

func TestEvaluateGuess_DrawerCannotGuess(t *testing.T) {
	r := newGuessingRoom("cat", "d", "g")

	result := evaluateGuess(r, "d", "cat")
	if result.Outcome != OutcomeNotAGuess {
		t.Errorf("Expected OutcomeNotAGuess for the drawer, got %v", result.Outcome)
	}
	if len(r.Guessed) != 0 {
		t.Error("The drawer must never enter the guessed set")
	}
}

func TestEvaluateGuess_CaseAndWhitespaceInsensitive(t *testing.T) {
	r := newGuessingRoom("cat", "d", "g")

	result := evaluateGuess(r, "g", "  CaT ")
	if result.Outcome != OutcomeCorrect {
		t.Fatalf("Expected OutcomeCorrect for \"  CaT \", got %v", result.Outcome)
	}
	if result.Points != 100 || result.Position != 1 {
		t.Errorf("Expected 100 points at position 1, got %d at %d", result.Points, result.Position)
	}
}

func TestEvaluateGuess_Incorrect(t *testing.T) {
	r := newGuessingRoom("cat", "d", "g")

	result := evaluateGuess(r, "g", "dog")
	if result.Outcome != OutcomeIncorrect {
		t.Errorf("Expected OutcomeIncorrect, got %v", result.Outcome)
	}
	if len(r.Guessed) != 0 {
		t.Error("An incorrect guess must not enter the guessed set")
	}
}

func TestEvaluateGuess_ScoresAtMostOncePerRound(t *testing.T) {
	r := newGuessingRoom("cat", "d", "g")

	first := evaluateGuess(r, "g", "cat")
	if first.Outcome != OutcomeCorrect {
		t.Fatalf("Expected first guess to be correct, got %v", first.Outcome)
	}

	second := evaluateGuess(r, "g", "cat")
	if second.Outcome != OutcomeAlreadyScored {
		t.Errorf("Expected OutcomeAlreadyScored on repeat, got %v", second.Outcome)
	}

	p, _ := r.GetParticipant("g")
	if p.Points != 100 {
		t.Errorf("Expected points to stay at 100 after a repeat guess, got %d", p.Points)
	}
}

func TestEvaluateGuess_PointsByPosition(t *testing.T) {
	guessers := []string{"g1", "g2", "g3", "g4", "g5", "g6", "g7"}
	r := newGuessingRoom("cat", "d", guessers...)

	wantPoints := []int{100, 75, 50, 25, 25, 10, 10}
	for i, id := range guessers {
		result := evaluateGuess(r, id, "cat")
		if result.Outcome != OutcomeCorrect {
			t.Fatalf("Expected guess %d to be correct, got %v", i+1, result.Outcome)
		}
		if result.Position != i+1 {
			t.Errorf("Expected position %d, got %d", i+1, result.Position)
		}
		if result.Points != wantPoints[i] {
			t.Errorf("Expected %d points at position %d, got %d", wantPoints[i], i+1, result.Points)
		}
	}
}

func TestEvaluateGuess_PointsAccumulate(t *testing.T) {
	r := newGuessingRoom("cat", "d", "g")
	p, _ := r.GetParticipant("g")
	p.Points = 75

	evaluateGuess(r, "g", "cat")
	if p.Points != 175 {
		t.Errorf("Expected points to accumulate to 175, got %d", p.Points)
	}
}
