package tle

import "time"

// Entry is one satellite's two-line element set.
type Entry struct {
	NORADID int
	Name    string
	Epoch   time.Time
	Line1   string
	Line2   string
}

// Find returns the entry for noradID.
func Find(entries []Entry, noradID int) (Entry, bool) {
	for _, e := range entries {
		if e.NORADID == noradID {
			return e, true
		}
	}
	return Entry{}, false
}
