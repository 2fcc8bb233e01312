package weather

import "time"

// Window identifies one published nowcast dataset.
type Window struct {
	BaseDate string // YYYYMMDD
	BaseTime string // HH00
}

// ObservationWindow returns the most recent dataset guaranteed to exist at
// the given time. KMA publishes the ultra-short nowcast at minute 30 past
// each hour, so before minute 30 the previous hour's dataset is the newest
// one available. Stepping back across midnight moves the date back as well.
func ObservationWindow(now time.Time) Window {
	base := now
	if now.Minute() < 30 {
		base = now.Add(-time.Hour)
	}

	return Window{
		BaseDate: base.Format("20060102"),
		BaseTime: base.Format("15") + "00",
	}
}
