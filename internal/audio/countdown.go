package audio

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Countdown subtracts elapsed from a remaining-time display such as "-03:15"
// or "3:15" and formats the result as "-MM:SS". Minutes and seconds are
// printed as absolute values, so a countdown that runs past zero keeps its
// leading minus instead of flipping positive.
func Countdown(display string, elapsed time.Duration) (string, error) {
	parts := strings.Split(strings.ReplaceAll(display, "-", ""), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time display %q", display)
	}
	mins, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid minutes in %q: %w", display, err)
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid seconds in %q: %w", display, err)
	}

	remaining := time.Duration(mins)*time.Minute + time.Duration(secs)*time.Second - elapsed

	// whole seconds rounded toward negative infinity, minutes toward zero
	total := int64(remaining / time.Second)
	if remaining%time.Second < 0 {
		total--
	}
	m := total / 60
	s := total - m*60

	return fmt.Sprintf("-%02d:%02d", abs(m), abs(s)), nil
}

// TrackLength is the initial countdown display for a track of length d.
func TrackLength(d time.Duration) string {
	out, _ := Countdown(ZeroDisplay, d)
	return out
}

// ZeroDisplay is shown while nothing is playing.
const ZeroDisplay = "0:00"

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
