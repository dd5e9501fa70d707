package render

import (
	"fmt"
	"time"
)

var weekdays = [...]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

func in(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

// FormatDate renders a date the zh-CN long way, e.g. 2025年1月15日星期三.
func FormatDate(t time.Time, loc *time.Location) string {
	t = in(t, loc)
	return FormatDay(t, nil) + weekdays[t.Weekday()]
}

// FormatDay renders a date without weekday, e.g. 2025年1月15日.
func FormatDay(t time.Time, loc *time.Location) string {
	t = in(t, loc)
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// FormatDateShort renders a date the zh-CN numeric way, e.g. 2025/1/15.
func FormatDateShort(t time.Time, loc *time.Location) string {
	t = in(t, loc)
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}

// FormatDateTime renders a long date with a 24-hour time, e.g. 2025年1月15日星期三 14:00.
func FormatDateTime(t time.Time, loc *time.Location) string {
	t = in(t, loc)
	return FormatDate(t, nil) + " " + t.Format("15:04")
}

// FormatDateShortTime renders a numeric date with a 24-hour time, e.g. 2025/1/15 18:00.
func FormatDateShortTime(t time.Time, loc *time.Location) string {
	t = in(t, loc)
	return FormatDateShort(t, nil) + " " + t.Format("15:04")
}

// Truncate cuts text to at most length characters and appends "..." when
// anything was removed.
func Truncate(text string, length int) string {
	if length < 0 {
		length = 0
	}
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}
	return string(runes[:length]) + "..."
}
