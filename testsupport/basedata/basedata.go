// Package basedata provides sample race data for tests.
package basedata

import (
	"fmt"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
)

func SampleEvent() model.Event {
	return model.Event{ID: 1, Name: "testrace", Year: 2025}
}

type LapOption func(l *model.LapRecord)

func WithPitIn() LapOption {
	return func(l *model.LapRecord) { l.PitIn = true }
}

func WithPitOut() LapOption {
	return func(l *model.LapRecord) { l.PitOut = true }
}

func WithStatus(status model.TrackStatus) LapOption {
	return func(l *model.LapRecord) { l.TrackStatus = status }
}

func WithStint(stint int) LapOption {
	return func(l *model.LapRecord) { l.Stint = stint }
}

func WithCompound(compound string) LapOption {
	return func(l *model.LapRecord) { l.Compound = compound }
}

func WithCompletedAt(t float64) LapOption {
	return func(l *model.LapRecord) { l.CompletedAt = t }
}

func WithPosition(pos int) LapOption {
	return func(l *model.LapRecord) { l.Position = pos }
}

// Lap creates a green flag lap in stint 1 on medium tires.
func Lap(competitorID string, lapNo int, secs float64, opts ...LapOption) *model.LapRecord {
	ret := &model.LapRecord{
		CompetitorID: competitorID,
		LapNo:        lapNo,
		Stint:        1,
		Compound:     "medium",
		LapSeconds:   secs,
		TrackStatus:  model.StatusGreen,
		Position:     1,
		CompletedAt:  float64(lapNo) * 90.0,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Race creates a clean race: competitors run constant lap times
// (basePace, basePace+paceStep, ...) and are spread out on track.
func Race(competitors, laps int, basePace, paceStep float64) []*model.LapRecord {
	ret := make([]*model.LapRecord, 0, competitors*laps)
	for c := 0; c < competitors; c++ {
		id := CompetitorID(c)
		pace := basePace + float64(c)*paceStep
		elapsed := float64(c) * 5.0 // grid spread
		for n := 1; n <= laps; n++ {
			elapsed += pace
			ret = append(ret, Lap(id, n, pace,
				WithPosition(c+1),
				WithCompletedAt(elapsed)))
		}
	}
	return ret
}

func CompetitorID(idx int) string {
	return fmt.Sprintf("car-%d", idx+1)
}

func SampleResults(competitors int) []*model.RaceResult {
	ret := make([]*model.RaceResult, 0, competitors)
	for c := 0; c < competitors; c++ {
		ret = append(ret, &model.RaceResult{
			CompetitorID: CompetitorID(c),
			Team:         fmt.Sprintf("team-%d", c/2+1),
			Position:     c + 1,
		})
	}
	return ret
}
