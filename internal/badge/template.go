package badge

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Badge page size in millimeters, matching standard event badge stock.
const (
	BadgeWidthMM  = 92
	BadgeHeightMM = 132
)

// BadgeData is the field set substituted into the badge template.
type BadgeData struct {
	EventName    string
	FullName     string
	Organization string
	Profession   string
	StartDate    time.Time
	EndDate      time.Time
	Venue        string
	QRDataURI    template.URL
}

var badgeTemplate = template.Must(template.New("badge").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: {{.WidthMM}}mm {{.HeightMM}}mm; margin: 0; }
  body {
    width: {{.WidthMM}}mm;
    height: {{.HeightMM}}mm;
    margin: 0;
    font-family: Helvetica, Arial, sans-serif;
    display: flex;
    flex-direction: column;
    align-items: center;
    text-align: center;
  }
  .event { font-size: 14pt; font-weight: bold; margin-top: 8mm; padding: 0 4mm; }
  .dates { font-size: 9pt; color: #555; margin-top: 2mm; }
  .name { font-size: 18pt; font-weight: bold; margin-top: 10mm; padding: 0 4mm; }
  .org { font-size: 11pt; color: #333; margin-top: 2mm; }
  .profession { font-size: 9pt; color: #666; margin-top: 1mm; }
  .qr { margin-top: auto; margin-bottom: 8mm; }
  .qr img { width: 38mm; height: 38mm; }
  .venue { font-size: 8pt; color: #777; margin-bottom: 4mm; }
</style>
</head>
<body>
  <div class="event">{{.Data.EventName}}</div>
  <div class="dates">{{.Dates}}</div>
  <div class="name">{{.Data.FullName}}</div>
  {{if .Data.Organization}}<div class="org">{{.Data.Organization}}</div>{{end}}
  {{if .Data.Profession}}<div class="profession">{{.Data.Profession}}</div>{{end}}
  <div class="qr"><img src="{{.Data.QRDataURI}}" alt="scan code"></div>
  {{if .Data.Venue}}<div class="venue">{{.Data.Venue}}</div>{{end}}
</body>
</html>`))

// ComposeBadge substitutes badge fields into the HTML template.
func ComposeBadge(data BadgeData) (string, error) {
	var b strings.Builder
	err := badgeTemplate.Execute(&b, struct {
		Data     BadgeData
		Dates    string
		WidthMM  int
		HeightMM int
	}{
		Data:     data,
		Dates:    formatDateRange(data.StartDate, data.EndDate),
		WidthMM:  BadgeWidthMM,
		HeightMM: BadgeHeightMM,
	})
	if err != nil {
		return "", fmt.Errorf("compose badge: %w", err)
	}
	return b.String(), nil
}

func formatDateRange(start, end time.Time) string {
	if start.IsZero() {
		return ""
	}
	if end.IsZero() || start.Equal(end) {
		return start.Format("2 Jan 2006")
	}
	return start.Format("2 Jan 2006") + " - " + end.Format("2 Jan 2006")
}
