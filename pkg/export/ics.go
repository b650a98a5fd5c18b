package export

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

const icsTimeLayout = "20060102T150405Z"

// Event is a single calendar entry.
type Event struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Stamp       time.Time
}

var icsTemplate = template.Must(template.New("ics").Funcs(template.FuncMap{
	"utc":    func(t time.Time) string { return t.UTC().Format(icsTimeLayout) },
	"escape": escapeICSText,
}).Parse("BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//volley-vote-api//attendance//RU\r\n" +
	"CALSCALE:GREGORIAN\r\n" +
	"METHOD:PUBLISH\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:{{ .UID }}\r\n" +
	"DTSTAMP:{{ utc .Stamp }}\r\n" +
	"DTSTART:{{ utc .Start }}\r\n" +
	"DTEND:{{ utc .End }}\r\n" +
	"SUMMARY:{{ escape .Summary }}\r\n" +
	"{{ if .Description }}DESCRIPTION:{{ escape .Description }}\r\n{{ end }}" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"))

// ICSRenderer renders iCalendar (RFC 5545) documents.
type ICSRenderer struct{}

// NewICSRenderer constructs the renderer.
func NewICSRenderer() *ICSRenderer {
	return &ICSRenderer{}
}

// ContentType of the rendered document.
func (r *ICSRenderer) ContentType() string { return "text/calendar; charset=utf-8" }

// Render writes a calendar containing one event.
func (r *ICSRenderer) Render(event Event) ([]byte, error) {
	if event.UID == "" {
		return nil, fmt.Errorf("ics event requires a uid")
	}
	if !event.End.After(event.Start) {
		return nil, fmt.Errorf("ics event must end after it starts")
	}
	if event.Stamp.IsZero() {
		event.Stamp = time.Now()
	}
	var buf bytes.Buffer
	if err := icsTemplate.Execute(&buf, event); err != nil {
		return nil, fmt.Errorf("render ics: %w", err)
	}
	return buf.Bytes(), nil
}

func escapeICSText(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	).Replace(s)
}
