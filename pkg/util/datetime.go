package util

import "time"

const (
	DateTimeFormat = "2006-01-02 15:04:05"
	ISO8601Format  = "2006-01-02T15:04:05Z"
)

func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeFormat)
}

func TimeToISO8601Str(t time.Time) string {
	return t.Format(ISO8601Format)
}
