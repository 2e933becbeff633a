package scheduling

import (
	"time"

	"github.com/pkg/errors"

	"github.com/veltaplan/schedule-assist/internal/wallclock"
)

func parseClock(clock string) (h, m, s int, err error) {
	t, perr := time.Parse(wallclock.LayoutClock, clock)
	if perr != nil {
		// Attendee-submitted preferences sometimes omit seconds.
		t, perr = time.Parse("15:04", clock)
		if perr != nil {
			return 0, 0, 0, errors.Wrapf(perr, "parse clock %q", clock)
		}
	}
	h, m, s = t.Clock()
	return h, m, s, nil
}

func secondDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}

// clockSpanHours returns the length of [start, end] clocks in hours.
func clockSpanHours(start, end string) (float64, error) {
	sh, sm, ss, err := parseClock(start)
	if err != nil {
		return 0, err
	}
	eh, em, es, err := parseClock(end)
	if err != nil {
		return 0, err
	}
	startSec := sh*3600 + sm*60 + ss
	endSec := eh*3600 + em*60 + es
	if endSec < startSec {
		return 0, nil
	}
	return float64(endSec-startSec) / 3600, nil
}
