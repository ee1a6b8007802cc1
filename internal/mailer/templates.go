package mailer

import (
	"fmt"
	"html/template"
	"strings"

	"waangu/pkg/email"
)

var badgeEmailTemplate = template.Must(template.New("badge-email").Parse(`<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #222;">
  <p>Dear {{.FullName}},</p>
  <p>Your badge for <strong>{{.EventName}}</strong> is ready.</p>
  <p><a href="{{.URL}}">Download your badge</a></p>
  <p>Please print it and bring it with you, or present the QR code at the entrance.</p>
  <p>See you there!</p>
</body>
</html>`))

var letterEmailTemplate = template.Must(template.New("letter-email").Parse(`<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #222;">
  <p>Dear {{.FullName}},</p>
  <p>Your visa invitation letter for <strong>{{.EventName}}</strong> is ready.</p>
  <p><a href="{{.URL}}">Download your invitation letter</a></p>
  <p>Present this letter with your visa application.</p>
</body>
</html>`))

type emailData struct {
	FullName  string
	EventName string
	URL       string
}

func renderBadgeEmail(to, fullName, eventName, badgeURL string) (subject, html string, err error) {
	subject = fmt.Sprintf("Your badge for %s", eventName)
	html, err = render(badgeEmailTemplate, emailData{FullName: displayName(to, fullName), EventName: eventName, URL: badgeURL})
	return subject, html, err
}

func renderLetterEmail(to, fullName, eventName, letterURL string) (subject, html string, err error) {
	subject = fmt.Sprintf("Your visa invitation letter for %s", eventName)
	html, err = render(letterEmailTemplate, emailData{FullName: displayName(to, fullName), EventName: eventName, URL: letterURL})
	return subject, html, err
}

// displayName falls back to a name derived from the address when the
// registration carried no usable name.
func displayName(to, fullName string) string {
	if strings.TrimSpace(fullName) != "" {
		return fullName
	}
	first, last := email.DeriveNameFromEmail(to)
	return first + " " + last
}

func render(tmpl *template.Template, data emailData) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return b.String(), nil
}
