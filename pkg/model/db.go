package model

import "time"

// DbEvent is the database representation of a race event.
type DbEvent struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	RecordStamp time.Time `json:"recordStamp"`
}

func (e *DbEvent) Event() Event {
	return Event{ID: e.ID, Name: e.Name, Year: e.Year}
}

// DbAnalysis stores the computed race analysis as a single document.
type DbAnalysis struct {
	ID      int          `json:"id"`
	EventID int          `json:"eventId"`
	Data    RaceAnalysis `json:"data"`
}

// DbSeasonProfile stores the seasonal profiles of one year.
type DbSeasonProfile struct {
	ID   int             `json:"id"`
	Year int             `json:"year"`
	Data []SeasonProfile `json:"data"`
}
