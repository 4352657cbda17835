package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"eventconsole/internal/domain"
)

var announcementHTML = template.Must(template.New("announcement").Parse(`<html>
<body>
  <h2>{{.EventName}}</h2>
  <p>{{.Body}}</p>
  <p style="color:#888;font-size:12px">You are receiving this because you hold a ticket for {{.EventName}}.</p>
</body>
</html>`))

// renderAnnouncement builds the subject, HTML, and plain-text bodies for
// an announcement email. The HTML path escapes customer-visible fields
// via html/template.
func renderAnnouncement(data *domain.AnnouncementEmailData) (subject, htmlBody, textBody string, err error) {
	subject = fmt.Sprintf("[%s] %s", data.EventName, data.Subject)

	var buf bytes.Buffer
	if err := announcementHTML.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	htmlBody = buf.String()

	textBody = strings.Join([]string{data.EventName, "", data.Body}, "\n")
	return subject, htmlBody, textBody, nil
}
