// models/models.go
package models

import (
	"time"
)

// RoundRecord is one completed drawing round as written to the history
// store: the word, who drew it and who guessed it in what order. Recorded
// after the fact; live game state never touches the database.
type RoundRecord struct {
	RoomID     string       `json:"room_id"`
	Word       string       `json:"word"`
	Drawer     string       `json:"drawer"`
	DrawerName string       `json:"drawer_name"`
	StartedAt  time.Time    `json:"started_at"`
	EndedAt    time.Time    `json:"ended_at"`
	Guessers   []GuessEntry `json:"guessers"`
}

// GuessEntry is one correct guesser within a round.
type GuessEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Position int    `json:"position"`
}

// LeaderboardEntry is one row of a room's all-time points ranking,
// aggregated from recorded rounds.
type LeaderboardEntry struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Rounds int    `json:"rounds"`
}
