package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailNotifier sends the digest as an HTML mail over SMTP.
type EmailNotifier struct {
	host     string
	port     string
	username string
	password string
	from     string
	to       string
}

// NewEmailNotifier creates an SMTP email notifier.
func NewEmailNotifier(host, port, username, password, to string) *EmailNotifier {
	return &EmailNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     username,
		to:       to,
	}
}

func (n *EmailNotifier) Name() string { return "email" }

var emailTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2>{{.Title}} ({{len .Groups}}곳)</h2>
  {{range .Groups}}
  <div style="border: 1px solid #e5e7eb; border-radius: 8px; padding: 15px; margin: 10px 0;">
    <h3 style="margin-top: 0;"><a href="{{.URL}}">{{.CourtName}}</a></h3>
    {{range .Dates}}
    <p style="margin: 5px 0;"><strong>{{.Month}}월 {{.Date}}일</strong></p>
    <ul style="margin: 5px 0;">
      {{range .Times}}<li>{{.}}</li>{{end}}
    </ul>
    {{end}}
  </div>
  {{end}}
</body>
</html>`))

// Notify sends one mail carrying the whole digest.
func (n *EmailNotifier) Notify(_ context.Context, d *Digest) error {
	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, d); err != nil {
		return fmt.Errorf("rendering mail: %w", err)
	}

	subject := fmt.Sprintf("%s 예약 가능 코트 %d 곳", d.Title, len(d.Groups))
	msg := fmt.Sprintf("From: Court Watcher <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n%s",
		n.from, n.to, subject, body.String())

	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	addr := fmt.Sprintf("%s:%s", n.host, n.port)

	if err := smtp.SendMail(addr, auth, n.from, []string{n.to}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}
