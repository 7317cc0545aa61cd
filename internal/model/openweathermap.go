package model

// GeoLocation is one candidate returned by the geocoding endpoint.
type GeoLocation struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Condition is an entry of the upstream "weather" array.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ForecastEntry is the subset of a 3-hour forecast item needed to build the
// daily summary. The item itself is forwarded untouched.
type ForecastEntry struct {
	Dt    int64  `json:"dt"`
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp    float64 `json:"temp"`
		TempMin float64 `json:"temp_min"`
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Weather []Condition `json:"weather"`
}

// OpenWeatherMapError is the error body returned by the provider. "cod" is
// sometimes a string and sometimes a number, so it is left undecoded.
type OpenWeatherMapError struct {
	Message string `json:"message"`
}
