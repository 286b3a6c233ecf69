package zoombot

import (
	"fmt"
	"time"
)

// Meeting duration limits, inclusive.
const (
	MinDuration = 30 * time.Minute
	MaxDuration = 240 * time.Minute
)

// Window is a start instant plus a duration. The start keeps the location
// it was constructed in, which is the bot's configured timezone.
type Window struct {
	Start    time.Time
	Duration time.Duration
}

func NewWindow(start time.Time, minutes int) Window {
	return Window{Start: start, Duration: time.Duration(minutes) * time.Minute}
}

func (w Window) End() time.Time {
	return w.Start.Add(w.Duration)
}

func (w Window) Minutes() int {
	return int(w.Duration / time.Minute)
}

// Overlaps uses half-open interval semantics: a meeting ending exactly
// when another starts does not conflict.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End()) && o.Start.Before(w.End())
}

func (w Window) String() string {
	return fmt.Sprintf("%s (%d min)", w.Start.Format("02.01.2006 15:04"), w.Minutes())
}
