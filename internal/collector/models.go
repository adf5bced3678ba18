package collector

// Field names follow the provider JSON because the dashboard reads the
// persisted files with those names. Numeric fields are pointers so the
// validator can tell a missing field from a legitimate zero.

// Condition is one entry of a provider "weather" array.
type Condition struct {
	Description *string `json:"description" validate:"required"`
	Icon        *string `json:"icon" validate:"required"`
}

// MainReadings holds the headline values of the current observation.
type MainReadings struct {
	Temp      *float64 `json:"temp" validate:"required"`      // °C
	FeelsLike *float64 `json:"feels_like" validate:"required"` // °C
	Humidity  *int     `json:"humidity" validate:"required"`   // %
}

// CurrentWeather is the observation at request time.
type CurrentWeather struct {
	Main    *MainReadings `json:"main" validate:"required"`
	Weather []Condition   `json:"weather" validate:"required,dive"`
	Dt      *int64        `json:"dt" validate:"required"` // unix seconds
}

// Clouds carries the cloud cover percentage.
type Clouds struct {
	All *int `json:"all" validate:"required"`
}

// HourlyForecast is a single forecast hour.
type HourlyForecast struct {
	Dt      *int64      `json:"dt" validate:"required"`
	Temp    *float64    `json:"temp" validate:"required"`
	Weather []Condition `json:"weather" validate:"required,dive"`
	Pop     *float64    `json:"pop" validate:"required"` // probability of precipitation, 0..1
	Clouds  *Clouds     `json:"clouds" validate:"required"`

	// Humidity is optional upstream; kept when present.
	Humidity *int `json:"humidity,omitempty"`
}

// WeatherSnapshot is the combined current + hourly forecast response.
// It is built fresh on every fetch and not modified afterwards.
type WeatherSnapshot struct {
	Current *CurrentWeather  `json:"current" validate:"required"`
	Hourly  []HourlyForecast `json:"hourly" validate:"required,dive"`
}

// PricePoint is one day-ahead auction price.
type PricePoint struct {
	Timestamp *int64   `json:"timestamp" validate:"required"` // ms since epoch
	Value     *float64 `json:"value" validate:"required"`     // EUR/MWh
}

// TimestampMs returns the point's timestamp, or 0 when unset.
func (p PricePoint) TimestampMs() int64 {
	if p.Timestamp == nil {
		return 0
	}
	return *p.Timestamp
}

// Price returns the point's value, or 0 when unset.
func (p PricePoint) Price() float64 {
	if p.Value == nil {
		return 0
	}
	return *p.Value
}

// PriceSeries is the envelope used both by the provider and on disk.
type PriceSeries struct {
	Data []PricePoint `json:"data" validate:"required,dive"`
}

// PriceQuery selects a SMARD series and the client-side window applied to it.
type PriceQuery struct {
	Filter     string
	Region     string
	Resolution string

	// StartMs and EndMs bound the retained points, both inclusive.
	StartMs int64
	EndMs   int64
}
