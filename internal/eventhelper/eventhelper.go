// Package eventhelper holds the pure helpers shared by the event pages:
// type labels and icons, date formatting, slug generation and the RSVP
// open check.
package eventhelper

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"go-gin-rsvp/internal/model"
)

var EventTypeLabels = map[model.EventType]string{
	model.EventTypeWedding:      "Wedding",
	model.EventTypeEngagement:   "Engagement",
	model.EventTypeBirthday:     "Birthday Party",
	model.EventTypeBabyShower:   "Baby Shower",
	model.EventTypeBridalShower: "Bridal Shower",
	model.EventTypeCorporate:    "Corporate Event",
	model.EventTypeAnniversary:  "Anniversary",
	model.EventTypeGraduation:   "Graduation",
	model.EventTypeCustom:       "Custom Event",
}

var EventTypeIcons = map[model.EventType]string{
	model.EventTypeWedding:      "💒",
	model.EventTypeEngagement:   "💍",
	model.EventTypeBirthday:     "🎂",
	model.EventTypeBabyShower:   "🍼",
	model.EventTypeBridalShower: "👰",
	model.EventTypeCorporate:    "🏢",
	model.EventTypeAnniversary:  "🎊",
	model.EventTypeGraduation:   "🎓",
	model.EventTypeCustom:       "🎉",
}

// Label returns false for types outside the enumeration; callers decide what to show.
func Label(t model.EventType) (string, bool) {
	l, ok := EventTypeLabels[t]
	return l, ok
}

func Icon(t model.EventType) (string, bool) {
	i, ok := EventTypeIcons[t]
	return i, ok
}

const (
	longDateLayout  = "Monday, January 2, 2006 at 3:04 PM"
	shortDateLayout = "Jan 2, 2006"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseISO parses an ISO-8601 timestamp. Inputs without an offset are read as UTC.
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func FormatDate(iso string) (string, error) {
	t, err := ParseISO(iso)
	if err != nil {
		return "", err
	}
	return FormatTime(t), nil
}

func FormatShortDate(iso string) (string, error) {
	t, err := ParseISO(iso)
	if err != nil {
		return "", err
	}
	return t.Format(shortDateLayout), nil
}

// FormatTime 長格式，例如 "Sunday, June 1, 2025 at 4:00 PM"
func FormatTime(t time.Time) string {
	return t.Format(longDateLayout)
}

func FormatShortTime(t time.Time) string {
	return t.Format(shortDateLayout)
}

const (
	slugSuffixLen = 8
	base36        = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug 由標題產生網址用 slug，並加上 8 碼隨機 base-36 後綴。
// Uniqueness is probabilistic only; nothing checks existing rows first.
func GenerateSlug(title string) string {
	base := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	base = strings.Trim(base, "-")

	suffix := make([]byte, slugSuffixLen)
	for i := range suffix {
		suffix[i] = base36[rand.IntN(len(base36))]
	}
	return base + "-" + string(suffix)
}

// IsRSVPOpen 活動停用則關閉；沒有截止時間則開放；否則截止時間需晚於 now
func IsRSVPOpen(e *model.Event, now time.Time) bool {
	if !e.IsActive {
		return false
	}
	if e.RSVPDeadline == nil {
		return true
	}
	return e.RSVPDeadline.After(now)
}
