package utils

import (
	"fmt"
	"net/smtp"

	"trainhub/config"
)

// Mailer sends a single HTML email. The notification engine batches on top
// of this, and tests substitute a fake.
type Mailer interface {
	Send(to string, subject string, htmlBody string) error
}

type SMTPMailer struct {
	Cfg *config.Config
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{Cfg: cfg}
}

func (m *SMTPMailer) Send(to string, subject string, htmlBody string) error {
	from := m.Cfg.SMTPSender

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: TrainHub <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += EmailTemplate(subject, htmlBody)

	auth := smtp.PlainAuth("", from, m.Cfg.SMTPPass, m.Cfg.SMTPHost)

	return smtp.SendMail(m.Cfg.SMTPHost+":"+m.Cfg.SMTPPort, auth, from, []string{to}, []byte(msg))
}

// EmailTemplate wraps body content in the shared HTML layout.
func EmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1A2B4C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #1A2B4C; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>TRAINHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 TrainHub. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
