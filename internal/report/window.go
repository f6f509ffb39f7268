package report

import (
	"time"

	"budgetreport/internal/core"
)

// Window is an inclusive date range of seven days ending on a Sunday.
type Window struct {
	Start core.Date
	End   core.Date
}

// WeekWindow returns the window whose end is the most recent Sunday on or
// before ref.
func WeekWindow(ref core.Date) Window {
	daysSinceSunday := int(ref.Weekday())
	end := ref.AddDays(-daysSinceSunday)
	return Window{Start: end.AddDays(-6), End: end}
}

// WeekWindowAt is WeekWindow for a wall-clock instant, using its calendar date.
func WeekWindowAt(t time.Time) Window {
	return WeekWindow(core.DateOf(t))
}

// Previous returns the window seven days earlier.
func (w Window) Previous() Window {
	return Window{Start: w.Start.AddDays(-7), End: w.End.AddDays(-7)}
}

func (w Window) String() string {
	return w.Start.String() + " ~ " + w.End.String()
}
