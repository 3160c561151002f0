// Package report formats API results for the console.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/star/issview/internal/failure"
	"github.com/star/issview/internal/opennotify"
)

// FormatDuration renders whole seconds as "<m> minutes and <s> seconds".
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%d minutes and %d seconds", seconds/60, seconds%60)
}

// Passover renders a pass as "<rise time> for <duration>", with the rise
// time in loc using the ANSI C ctime layout.
func Passover(p opennotify.Pass, loc *time.Location) string {
	rise := time.Unix(p.RiseTime, 0).In(loc)
	return fmt.Sprintf("%s for %s", rise.Format(time.ANSIC), FormatDuration(p.Duration))
}

// reportedPass is the index of the pass WritePassover prints. The API's
// first entry is skipped; the second one is reported.
const reportedPass = 1

// WritePassover writes the line for the second pass in passes. Fewer than
// two passes is a validation failure.
func WritePassover(w io.Writer, passes []opennotify.Pass, loc *time.Location) error {
	if len(passes) <= reportedPass {
		return failure.Validation("report passover", fmt.Errorf("need at least %d passes, got %d", reportedPass+1, len(passes)))
	}
	_, err := fmt.Fprintln(w, Passover(passes[reportedPass], loc))
	return err
}

// WriteAstronauts writes the crew header followed by one numbered line per
// person.
func WriteAstronauts(w io.Writer, a opennotify.Astronauts) error {
	if _, err := fmt.Fprintf(w, "%d People in Space: \n", a.Number); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "-------------------"); err != nil {
		return err
	}
	for i, p := range a.People {
		if _, err := fmt.Fprintf(w, "%d) %s on the %s\n", i+1, p.Name, p.Craft); err != nil {
			return err
		}
	}
	return nil
}

// WritePosition writes the raw ISS position and its fetch time.
func WritePosition(w io.Writer, pos opennotify.RawPosition, loc *time.Location) error {
	line := fmt.Sprintf("ISS at longitude %s, latitude %s", pos.Longitude, pos.Latitude)
	if pos.Timestamp > 0 {
		line += " (" + time.Unix(pos.Timestamp, 0).In(loc).Format(time.ANSIC) + ")"
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
