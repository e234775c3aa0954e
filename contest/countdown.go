package contest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	week         = 7 * 24 * time.Hour
	daysPerMonth = 146097.0 / 4800.0
)

// Countdown renders the time left before the next contest boundary.
// Components are joined without zero padding; underway contests show total hours.
func (st State) Countdown() string {
	switch st.ContestStatus() {
	case NotStart:
		d := st.Contest.StartTime.Sub(st.Now).Truncate(time.Second)
		if d >= week {
			return "Start At " + Humanize(d)
		}
		secs := int64(d / time.Second)
		return clock(secs/3600%24, secs/60%60, secs%60)
	case Underway:
		if st.Contest.EndTime.IsZero() {
			return ""
		}
		d := st.Contest.EndTime.Sub(st.Now).Truncate(time.Second)
		secs := int64(d / time.Second)
		hours := int64(math.Round(float64(secs) / 3600))
		return clock(hours, secs/60%60, secs%60)
	default:
		return "Ended"
	}
}

func clock(parts ...int64) string {
	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = strconv.FormatInt(p, 10)
	}
	return "-" + strings.Join(texts, ":")
}

// Humanize describes d approximately, e.g. "3 days" or "a month".
func Humanize(d time.Duration) string {
	d = d.Abs()
	days := d.Hours() / 24
	var (
		seconds = math.Round(d.Seconds())
		minutes = math.Round(d.Minutes())
		hours   = math.Round(d.Hours())
		months  = math.Round(days / daysPerMonth)
		years   = math.Round(days / daysPerMonth / 12)
	)
	days = math.Round(days)

	switch {
	case seconds < 45:
		return "a few seconds"
	case minutes <= 1:
		return "a minute"
	case minutes < 45:
		return fmt.Sprintf("%d minutes", int64(minutes))
	case hours <= 1:
		return "an hour"
	case hours < 22:
		return fmt.Sprintf("%d hours", int64(hours))
	case days <= 1:
		return "a day"
	case days < 26:
		return fmt.Sprintf("%d days", int64(days))
	case months <= 1:
		return "a month"
	case months < 11:
		return fmt.Sprintf("%d months", int64(months))
	case years <= 1:
		return "a year"
	default:
		return fmt.Sprintf("%d years", int64(years))
	}
}
