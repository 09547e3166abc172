package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"subman/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: SubMan <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1E293B; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1E293B; line-height: 1.6; }
			.content h2 { color: #1E293B; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #2563EB; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 10px; }
			.dept { margin: 15px 0; padding: 15px; background: #F8FAFC; border-radius: 4px; border-left: 4px solid #2563EB; }
			table { width: 100%%; border-collapse: collapse; }
			td, th { padding: 8px; text-align: left; border-bottom: 1px solid #E0E0E0; font-size: 14px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>SUBMAN</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated notification from the SubMan admin panel.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendOTPEmail delivers a step-up login code.
func SendOTPEmail(code, email string) error {
	subject := "Your SubMan Verification Code"
	body := fmt.Sprintf(`
		<p>Your One Time Password (OTP) is:</p>
		<h1 style="text-align: center; color: #2563EB; font-size: 40px; margin: 20px 0;">%s</h1>
		<p>This code expires in 2 minutes. Do not share it with anyone.</p>
	`, code)

	return SendEmail([]string{email}, subject, getEmailTemplate("OTP Verification", body))
}

// SmtpExpiryNotifier dispatches grouped expiry notices to the admin address.
type SmtpExpiryNotifier struct {
	AdminEmail string
}

// SendGroupedExpiryNotice renders one notice (all departments of one offset)
// into a single email. Urgency labeling is driven purely by the offset value.
func (n *SmtpExpiryNotifier) SendGroupedExpiryNotice(notice ExpiryNotice) error {
	var subject, title string
	switch notice.DaysRemaining {
	case 0:
		subject = fmt.Sprintf("EXPIRING TODAY: %d subscription(s)", notice.TotalSubscriptions)
		title = "Subscriptions Expiring Today"
	default:
		subject = fmt.Sprintf("Renewal reminder: %d subscription(s) expiring in %d days",
			notice.TotalSubscriptions, notice.DaysRemaining)
		title = fmt.Sprintf("Subscriptions Expiring in %d Days", notice.DaysRemaining)
	}

	var b strings.Builder
	for _, dept := range notice.Departments {
		fmt.Fprintf(&b, `<div class="dept"><strong>%s</strong><table>`, dept.Name)
		b.WriteString(`<tr><th>Subscription</th><th>Price</th><th>Expires</th><th></th></tr>`)
		for _, item := range dept.Subscriptions {
			fmt.Fprintf(&b,
				`<tr><td>%s</td><td>%.2f %s</td><td>%s</td><td><a href="%s">View</a></td></tr>`,
				item.Name, item.Price, item.Currency, item.ExpiryDateFormatted, item.URL)
		}
		b.WriteString(`</table></div>`)
	}
	fmt.Fprintf(&b, `<p>Total: <strong>%d</strong> subscription(s).</p>`, notice.TotalSubscriptions)

	return SendEmail([]string{n.AdminEmail}, subject, getEmailTemplate(title, b.String()))
}
