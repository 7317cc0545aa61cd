package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// LocationQuery is the raw location input of a weather request. Lat and Lon
// are kept as received and parsed by the resolver.
type LocationQuery struct {
	City string
	Lat  string
	Lon  string
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

type TempRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DailySummary is one calendar date derived from the 3-hour forecast list.
type DailySummary struct {
	Date    string    `json:"date"`
	Dt      int64     `json:"dt"`
	Temp    TempRange `json:"temp"`
	Weather Condition `json:"weather"`
}

// WeatherResponse is the combined current + forecast document. Current holds
// every top-level field of the current-weather object as received.
type WeatherResponse struct {
	Current map[string]json.RawMessage
	Hourly  []json.RawMessage
	Daily   []DailySummary
}

// MarshalJSON flattens the current-weather fields next to hourly and daily.
// Raw values are copied as-is so forecast entries reach the client unchanged.
func (w WeatherResponse) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(w.Current))
	for k := range w.Current {
		if k == "hourly" || k == "daily" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, k := range keys {
		writeKey(&buf, k)
		buf.Write(w.Current[k])
		buf.WriteByte(',')
	}

	writeKey(&buf, "hourly")
	buf.WriteByte('[')
	for i, entry := range w.Hourly {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(entry)
	}
	buf.WriteString("],")

	writeKey(&buf, "daily")
	daily := w.Daily
	if daily == nil {
		daily = []DailySummary{}
	}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(daily); err != nil {
		return nil, err
	}
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, k string) {
	b, _ := json.Marshal(k)
	buf.Write(b)
	buf.WriteByte(':')
}
