package calendar

import (
	"regexp"
	"strings"
	"time"

	"go-gin-rsvp/internal/eventhelper"
	"go-gin-rsvp/internal/model"
)

const (
	ContentType     = "text/calendar;charset=utf-8"
	defaultDuration = 2 * time.Hour
	icsTimeLayout   = "20060102T150405Z"
)

// CalendarEvent 產生 .ics 所需的欄位；日期為 ISO-8601 字串
type CalendarEvent struct {
	Title       string
	Description string
	Location    string
	StartDate   string
	EndDate     string
}

// FromEvent builds the calendar payload the public RSVP page offers.
func FromEvent(e *model.Event) CalendarEvent {
	ce := CalendarEvent{
		Title:     e.Title,
		Location:  e.Location,
		StartDate: e.Date.UTC().Format(time.RFC3339),
	}
	if e.ProgramNotes != nil {
		ce.Description = *e.ProgramNotes
	}
	return ce
}

// GenerateICS 產生 VCALENDAR/VEVENT 文字，結束時間預設為開始後兩小時，並附一小時前提醒
func GenerateICS(event CalendarEvent) (string, error) {
	start, err := eventhelper.ParseISO(event.StartDate)
	if err != nil {
		return "", err
	}

	end := start.Add(defaultDuration)
	if event.EndDate != "" {
		end, err = eventhelper.ParseISO(event.EndDate)
		if err != nil {
			return "", err
		}
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//RSVP Platform//Event Calendar//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"DTSTART:" + formatICSTime(start),
		"DTEND:" + formatICSTime(end),
		"SUMMARY:" + escapeText(event.Title),
	}
	if event.Description != "" {
		lines = append(lines, "DESCRIPTION:"+escapeText(event.Description))
	}
	lines = append(lines,
		"LOCATION:"+escapeText(event.Location),
		"STATUS:CONFIRMED",
		"BEGIN:VALARM",
		"TRIGGER:-PT1H",
		"ACTION:DISPLAY",
		"DESCRIPTION:Event reminder",
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	return strings.Join(lines, "\r\n"), nil
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName 下載檔名，空白換成底線
func FileName(title string) string {
	return whitespace.ReplaceAllString(title, "_") + ".ics"
}

func formatICSTime(t time.Time) string {
	return t.UTC().Format(icsTimeLayout)
}

// only newlines are escaped
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", `\n`)
}
