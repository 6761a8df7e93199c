// Package mailer delivers account e-mails: an SMTP sender built on gomail and
// a bounded asynchronous dispatcher that keeps delivery off the request path.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

// Message is one outgoing HTML e-mail.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

const verificationSubject = "Account Verification"

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8" />
    <title>Email Verification</title>
  </head>
  <body style="margin:0; padding:0; font-family: Arial, sans-serif; background-color:#f5f6fa;">
    <div style="max-width:500px; margin:2rem auto; background:#ffffff; padding:2rem 3rem; border-radius:0.75rem; text-align:center;">
      <h2 style="color:#333;">Account Verification</h2>
      <p style="color:#555; line-height:1.5;">
        Thank you for registering. Please confirm your email address by clicking the button below:
      </p>
      <a href="{{.Link}}"
         style="display:inline-block; margin-top:1.5rem; padding:0.75rem 1.5rem; background-color:#0275d8; color:#ffffff; text-decoration:none; border-radius:0.5rem; font-weight:bold;">
        Verify your Email
      </a>
      <p style="margin-top:2rem; font-size:0.9rem; color:#888;">
        The link is valid for {{.ValidFor}}. If you did not sign up, you can safely ignore this email.
      </p>
    </div>
  </body>
</html>
`))

// VerificationMessage renders the account verification e-mail for to with
// the given confirmation link.
func VerificationMessage(to, link, validFor string) (Message, error) {
	var buf bytes.Buffer
	data := struct {
		Link     string
		ValidFor string
	}{Link: link, ValidFor: validFor}

	if err := verificationTemplate.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render verification mail: %w", err)
	}

	return Message{To: to, Subject: verificationSubject, HTML: buf.String()}, nil
}
