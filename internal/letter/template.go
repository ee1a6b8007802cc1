// Package letter renders visa invitation letters and runs the letter
// generation saga.
package letter

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// A4 in millimeters.
const (
	LetterWidthMM  = 210
	LetterHeightMM = 297
)

// LetterData is the field set substituted into the invitation letter.
type LetterData struct {
	FullName         string
	Nationality      string
	EventName        string
	StartDate        time.Time
	EndDate          time.Time
	Venue            string
	City             string
	Country          string
	OrganizerName    string
	OrganizerAddress string
	LogoURL          string
	IssuedAt         time.Time
}

var letterTemplate = template.Must(template.New("letter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 25mm; }
  body { font-family: Georgia, 'Times New Roman', serif; color: #111; font-size: 11pt; line-height: 1.5; }
  .logo { height: 20mm; margin-bottom: 8mm; }
  .organizer { white-space: pre-line; margin-bottom: 12mm; font-size: 10pt; color: #333; }
  .date { text-align: right; margin-bottom: 12mm; }
  .subject { font-weight: bold; margin-bottom: 8mm; }
  .signature { margin-top: 20mm; }
</style>
</head>
<body>
  {{if .LogoURL}}<img class="logo" src="{{.LogoURL}}" alt="">{{end}}
  <div class="organizer">{{.OrganizerName}}
{{.OrganizerAddress}}</div>
  <div class="date">{{.IssuedAt.Format "2 January 2006"}}</div>
  <div class="subject">Subject: Visa Support / Letter of Invitation</div>
  <p>To Whom It May Concern,</p>
  <p>
    This letter confirms that <strong>{{.FullName}}</strong>{{if .Nationality}},
    a national of {{.Nationality}},{{end}} is registered to attend
    <strong>{{.EventName}}</strong>, taking place {{.Dates}}{{if .Venue}} at
    {{.Venue}}{{end}}{{if .City}}, {{.City}}{{end}}{{if .Country}}, {{.Country}}{{end}}.
  </p>
  <p>
    We kindly request that the relevant consular authorities grant the visa
    required for the duration of the event. The organizer does not assume any
    financial or legal responsibility for the applicant during their stay.
  </p>
  <p>Please do not hesitate to contact us should you require further information.</p>
  <div class="signature">
    <p>Sincerely,</p>
    <p>{{.OrganizerName}}<br>Organizing Committee, {{.EventName}}</p>
  </div>
</body>
</html>`))

// ComposeLetter substitutes letter fields into the A4 template.
func ComposeLetter(data LetterData) (string, error) {
	var b strings.Builder
	err := letterTemplate.Execute(&b, struct {
		LetterData
		Dates string
	}{
		LetterData: data,
		Dates:      formatDateRange(data.StartDate, data.EndDate),
	})
	if err != nil {
		return "", fmt.Errorf("compose invitation letter: %w", err)
	}
	return b.String(), nil
}

func formatDateRange(start, end time.Time) string {
	if start.IsZero() {
		return ""
	}
	if end.IsZero() || start.Equal(end) {
		return "on " + start.Format("2 January 2006")
	}
	return "from " + start.Format("2 January 2006") + " to " + end.Format("2 January 2006")
}
