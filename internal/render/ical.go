package render

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
)

// defaultScreeningLength pads events when the site gives no end time.
const defaultScreeningLength = 2 * time.Hour

// WriteICS writes entries as an iCalendar feed, one event per showtime,
// so a day's programme can be imported into a calendar app.
func WriteICS(w io.Writer, entries []Entry) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//luxinema//schedule//EN")

	for _, e := range entries {
		uid := fmt.Sprintf("%s-%s@luxinema", e.Showtime.Start.Format("20060102T1504"), e.Showtime.Key)
		event := cal.AddEvent(uid)
		event.SetCreatedTime(time.Now())
		event.SetStartAt(e.Showtime.Start)
		event.SetEndAt(e.Showtime.Start.Add(defaultScreeningLength))

		summary := e.Showtime.Title
		if e.Rating.Found {
			summary = fmt.Sprintf("%s (%.1f)", summary, e.Rating.Score)
		}
		event.SetSummary(summary)

		if e.Showtime.Hall != "" {
			event.SetLocation(e.Showtime.Hall)
		}
		if e.Rating.Overview != "" {
			event.SetDescription(e.Rating.Overview)
		}
		if e.Rating.URL != "" {
			event.SetURL(e.Rating.URL)
		}
	}

	return cal.SerializeTo(w)
}
