package zoombot

import "time"

// DateFormat is the format the bot prompts users for.
const DateFormat = "02.01.2006"

type Date struct {
	time.Time
}

func Today(loc *time.Location) Date {
	return NewDateFromTime(time.Now().In(loc))
}

func NewDateFromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day(), t.Location())
}

func NewDate(year int, month time.Month, day int, loc *time.Location) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, loc)}
}

func ParseDate(value string, loc *time.Location) (Date, error) {
	t, err := time.ParseInLocation(DateFormat, value, loc)
	if err != nil {
		return Date{}, err
	}
	return NewDateFromTime(t), nil
}

// At combines the date with a clock time in the date's location.
func (d Date) At(hour, min int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, d.Location())
}

// Window covers the whole day, midnight to midnight, half-open.
func (d Date) Window() Window {
	return Window{Start: d.Time, Duration: 24 * time.Hour}
}

func (d Date) String() string {
	return d.Format(DateFormat)
}
