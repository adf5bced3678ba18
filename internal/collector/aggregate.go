package collector

import "time"

// PriceSummary describes a price series. Min, Max and Mean are zero for an
// empty series.
type PriceSummary struct {
	Count          int     `json:"count"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	Mean           float64 `json:"mean"`
	FirstTimestamp int64   `json:"firstTimestamp,omitempty"`
	LastTimestamp  int64   `json:"lastTimestamp,omitempty"`
}

// Window returns the millisecond bounds [now-span, now].
func Window(now time.Time, span time.Duration) (startMs, endMs int64) {
	endMs = now.UnixMilli()
	startMs = now.Add(-span).UnixMilli()
	return startMs, endMs
}

// FilterWindow keeps the points with startMs <= timestamp <= endMs in their
// input order. The result is never nil.
func FilterWindow(points []PricePoint, startMs, endMs int64) []PricePoint {
	out := make([]PricePoint, 0, len(points))
	for _, p := range points {
		ts := p.TimestampMs()
		if ts >= startMs && ts <= endMs {
			out = append(out, p)
		}
	}
	return out
}

// Summarize computes count, extremes and mean of a price series.
// First and last timestamps follow series order, not chronology.
func Summarize(points []PricePoint) PriceSummary {
	if len(points) == 0 {
		return PriceSummary{}
	}

	var sum float64
	s := PriceSummary{
		Count:          len(points),
		Min:            points[0].Price(),
		Max:            points[0].Price(),
		FirstTimestamp: points[0].TimestampMs(),
		LastTimestamp:  points[len(points)-1].TimestampMs(),
	}

	for _, p := range points {
		v := p.Price()
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}

	s.Mean = sum / float64(len(points))
	return s
}
