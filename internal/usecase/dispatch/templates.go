package dispatch

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"event-notifier/internal/domain/event"
	"event-notifier/internal/domain/notification"
	"event-notifier/internal/pkg/errs"
)

const placeholderTBD = "TBD"

var ErrUnknownKind = errs.New("unknown notification kind")

var reminderBody = template.Must(template.New("reminder").Parse(`Hello!

This is a reminder that {{.Name}} is happening tomorrow!

Event Details:
- Time: {{.Time}}
- Location: {{.Location}}
- Description: {{.Description}}

We look forward to seeing you there!

Best regards,
Community Pulse Team
`))

var updateBody = template.Must(template.New("update").Parse(`Hello!

{{.Name}} has been updated.

What changed:
{{- range .Summary}}
- {{.}}
{{- end}}

Current Event Details:
- Date: {{.Date}}
- Time: {{.Time}}
- Location: {{.Location}}
- Description: {{.Description}}

Best regards,
Community Pulse Team
`))

type bodyData struct {
	Name        string
	Date        string
	Time        string
	Location    string
	Description string
	Summary     []string
}

func Subject(kind notification.Kind, eventName string) (string, error) {
	switch kind {
	case notification.KindReminder:
		return "Tomorrow's Event: " + eventName, nil
	case notification.KindUpdate:
		return "Event Update: " + eventName, nil
	default:
		return "", errs.Wrapf(ErrUnknownKind, "kind %q", kind)
	}
}

// Render builds the envelope for msg; missing time or location fields render as TBD.
func Render(msg Message, loc *time.Location) (Envelope, error) {
	if msg.Event == nil {
		return Envelope{}, errs.New("render: event snapshot is required")
	}

	subject, err := Subject(msg.Kind, msg.Event.Name)
	if err != nil {
		return Envelope{}, err
	}

	data := bodyData{
		Name:        msg.Event.Name,
		Date:        formatDate(msg.Event.StartDate, loc),
		Time:        formatTime(msg.Event.StartDate, loc),
		Location:    formatLocation(msg.Event),
		Description: orTBD(msg.Event.Description),
		Summary:     msg.Summary,
	}

	tmpl := reminderBody
	if msg.Kind == notification.KindUpdate {
		tmpl = updateBody
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Envelope{}, errs.Wrap(err, "render body")
	}

	return Envelope{To: msg.Recipient, Subject: subject, Body: buf.String()}, nil
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return placeholderTBD
	}
	return t.In(loc).Format("03:04 PM")
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return placeholderTBD
	}
	return t.In(loc).Format("Monday, January 2, 2006")
}

func formatLocation(s *event.Snapshot) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.Address, s.City, s.State} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return placeholderTBD
	}
	return strings.Join(parts, ", ")
}

func orTBD(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholderTBD
	}
	return s
}
