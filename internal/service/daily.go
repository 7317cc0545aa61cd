package service

import (
	"encoding/json"
	"time"

	"github.com/fakhrymubarak/weather-lookup/internal/model"
)

type dayGroup struct {
	date    string
	entries []model.ForecastEntry
}

// BuildDailySummary groups 3-hour forecast entries by calendar date and
// reduces each date to its temperature range and a representative condition.
// Dates appear in the order they are first seen. The representative condition
// is the entry at index len/2 of the date's entries in arrival order.
func BuildDailySummary(list []json.RawMessage) ([]model.DailySummary, error) {
	var groups []*dayGroup
	index := make(map[string]*dayGroup)

	for _, raw := range list {
		var entry model.ForecastEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, err
		}
		key := dateKey(entry)
		g, ok := index[key]
		if !ok {
			g = &dayGroup{date: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.entries = append(g.entries, entry)
	}

	daily := make([]model.DailySummary, 0, len(groups))
	for _, g := range groups {
		first := g.entries[0]
		day := model.DailySummary{
			Date: g.date,
			Dt:   first.Dt,
			Temp: model.TempRange{Min: first.Main.Temp, Max: first.Main.Temp},
		}
		for _, e := range g.entries[1:] {
			day.Temp.Min = min(day.Temp.Min, e.Main.Temp)
			day.Temp.Max = max(day.Temp.Max, e.Main.Temp)
		}
		if rep := g.entries[len(g.entries)/2]; len(rep.Weather) > 0 {
			day.Weather = rep.Weather[0]
		}
		daily = append(daily, day)
	}
	return daily, nil
}

// dateKey is the date part of the provider's text timestamp. Entries without
// one fall back to the UTC date of the unix timestamp.
func dateKey(e model.ForecastEntry) string {
	if len(e.DtTxt) >= len(time.DateOnly) {
		return e.DtTxt[:len(time.DateOnly)]
	}
	return time.Unix(e.Dt, 0).UTC().Format(time.DateOnly)
}
