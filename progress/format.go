package progress

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatBytes returns n in a short human readable form, e.g. 512, 3K, 1.5M.
func FormatBytes(n int64) string {
	if n < 1024 {
		return strconv.FormatInt(n, 10)
	}
	kilobytes := int64(math.Ceil(float64(n) / 1024))
	if kilobytes < 1000 {
		return strconv.FormatInt(kilobytes, 10) + "K"
	}
	if kilobytes < 102400 {
		return fmt.Sprintf("%.1fM", float64(n)/(1024*1024))
	}
	megabytes := int64(math.Ceil(float64(n) / (1024 * 1024)))
	if megabytes < 102400 {
		return strconv.FormatInt(megabytes, 10) + "M"
	}
	return fmt.Sprintf("%.1fG", float64(n)/(1024*1024*1024))
}

// FormatDuration formats d as hh:mm:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// truncate cuts s to at most max terminal cells, ending it with "..." when
// there is room for one.
func truncate(s string, max int) string {
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return runewidth.Truncate(s, max, "")
	}
	return runewidth.Truncate(s, max, "...")
}

// fit truncates s and pads it with spaces to exactly width cells.
func fit(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}
