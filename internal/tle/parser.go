package tle

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/star/issview/internal/failure"
)

const lineLen = 69

// Parse reads TLE text from r. Both the 3-line form (name line first) and
// the bare 2-line form are accepted. Entries that fail validation are
// skipped with a warning; input with no usable entry is a decode failure.
func Parse(r io.Reader, logger *slog.Logger) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r\n "); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, failure.Decode("parse tle", fmt.Errorf("reading TLE data: %w", err))
	}

	var entries []Entry
	for i := 0; i < len(lines); {
		var name, line1, line2 string
		switch {
		case i+1 < len(lines) && isLine(lines[i], '1') && isLine(lines[i+1], '2'):
			line1, line2 = lines[i], lines[i+1]
			i += 2
		case i+2 < len(lines) && isLine(lines[i+1], '1') && isLine(lines[i+2], '2'):
			name, line1, line2 = strings.TrimSpace(lines[i]), lines[i+1], lines[i+2]
			i += 3
		default:
			logger.Warn("skipping unrecognized TLE line", "line_index", i)
			i++
			continue
		}

		e, err := parseEntry(name, line1, line2)
		if err != nil {
			logger.Warn("skipping invalid TLE entry", "name", name, "error", err)
			continue
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return nil, failure.Decode("parse tle", fmt.Errorf("no valid entries in %d lines", len(lines)))
	}
	return entries, nil
}

func isLine(s string, n byte) bool {
	return len(s) >= 2 && s[0] == n && s[1] == ' '
}

func parseEntry(name, line1, line2 string) (Entry, error) {
	if len(line1) != lineLen || len(line2) != lineLen {
		return Entry{}, fmt.Errorf("line lengths %d/%d, want %d", len(line1), len(line2), lineLen)
	}
	for _, l := range []string{line1, line2} {
		if want, got := checksum(l), int(l[68]-'0'); want != got {
			return Entry{}, fmt.Errorf("line %c checksum %d, computed %d", l[0], got, want)
		}
	}

	// Catalog number: columns 3-7 on both lines.
	id, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid catalog number %q", line1[2:7])
	}
	if id2, err := strconv.Atoi(strings.TrimSpace(line2[2:7])); err != nil || id2 != id {
		return Entry{}, fmt.Errorf("catalog number mismatch %q vs %q", line1[2:7], line2[2:7])
	}

	// Epoch: columns 19-32 of line 1.
	epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
	if err != nil {
		return Entry{}, err
	}

	if name == "" {
		name = fmt.Sprintf("NORAD %d", id)
	}
	return Entry{NORADID: id, Name: name, Epoch: epoch, Line1: line1, Line2: line2}, nil
}

// checksum is the modulo-10 sum of the first 68 columns, counting digits at
// face value and each minus sign as 1.
func checksum(line string) int {
	sum := 0
	for i := 0; i < 68 && i < len(line); i++ {
		switch c := line[i]; {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}

// parseEpoch converts a YYDDD.DDDDDDDD epoch to UTC. Years 57-99 are 19xx.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch string too short: %q", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	day, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", s[2:], err)
	}
	if day < 1 || day >= 367 {
		return time.Time{}, fmt.Errorf("epoch day %v out of range", day)
	}

	// Day 1.0 is January 1st, 00:00.
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return start.Add(time.Duration((day - 1) * float64(24*time.Hour))), nil
}
