package model

// TrackStatus describes the race condition during a lap.
type TrackStatus string

const (
	StatusGreen            TrackStatus = "GREEN"
	StatusYellow           TrackStatus = "YELLOW"
	StatusSafetyCar        TrackStatus = "SC"
	StatusVirtualSafetyCar TrackStatus = "VSC"
	StatusRed              TrackStatus = "RED"
)

// IsCaution reports whether the lap ran under non-green conditions.
func (s TrackStatus) IsCaution() bool {
	return s != StatusGreen && s != ""
}

// LapRecord is one row of the per-lap timing table for a race.
// Lap numbers are unique per competitor and monotonically increasing.
type LapRecord struct {
	CompetitorID string      `json:"competitorId"`
	LapNo        int         `json:"lapNo"`
	Stint        int         `json:"stint"`
	Compound     string      `json:"compound"`
	LapSeconds   float64     `json:"lapSeconds"`
	PitIn        bool        `json:"pitIn"`
	PitOut       bool        `json:"pitOut"`
	TrackStatus  TrackStatus `json:"trackStatus"`
	Position     int         `json:"position"`
	// session time (seconds) at which the lap was completed
	CompletedAt float64 `json:"completedAt"`
}

// InPit reports whether the lap touched the pit lane.
func (r *LapRecord) InPit() bool {
	return r.PitIn || r.PitOut
}

// SegmentKey identifies one tactical phase (stint/compound combination).
// Benchmark models are keyed by SegmentKey and shared across competitors.
type SegmentKey struct {
	Stint    int
	Compound string
}

func (r *LapRecord) Segment() SegmentKey {
	return SegmentKey{Stint: r.Stint, Compound: r.Compound}
}

// RaceResult maps a competitor to team and finishing position.
type RaceResult struct {
	CompetitorID string `json:"competitorId"`
	Team         string `json:"team"`
	Position     int    `json:"position"`
}

// Event describes one race of a season.
type Event struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Year int    `json:"year"`
}
