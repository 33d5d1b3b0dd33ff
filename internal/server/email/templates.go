package email

import (
	"bytes"
	"html/template"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`
<html>
  <body style="font-family: Arial, sans-serif; background: #0b0c2a; color: #e8e8ff; padding: 24px;">
    <div style="max-width: 520px; margin: 0 auto; background: #16173d; border-radius: 12px; padding: 32px;">
      <h2 style="color: #c9a9ff;">&#10024; Welcome to the Constellation Fortune Teller!</h2>
      <p>Hello {{.Username}},</p>
      <p>The stars have aligned to bring you here. Please verify your email address to begin your cosmic journey:</p>
      <p style="text-align: center; margin: 28px 0;">
        <a href="{{.URL}}" style="background: #7b5cd6; color: #ffffff; padding: 12px 28px; border-radius: 8px; text-decoration: none;">Verify Email</a>
      </p>
      <p style="font-size: 13px; color: #9a9ac0;">This link expires in 24 hours. If you did not create an account, you can safely ignore this message.</p>
    </div>
  </body>
</html>`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<html>
  <body style="font-family: Arial, sans-serif; background: #0b0c2a; color: #e8e8ff; padding: 24px;">
    <div style="max-width: 520px; margin: 0 auto; background: #16173d; border-radius: 12px; padding: 32px;">
      <h2 style="color: #c9a9ff;">&#128274; Password Reset Request</h2>
      <p>Hello {{.Username}},</p>
      <p>We received a request to reset your password. Follow the link below to choose a new one:</p>
      <p style="text-align: center; margin: 28px 0;">
        <a href="{{.URL}}" style="background: #7b5cd6; color: #ffffff; padding: 12px 28px; border-radius: 8px; text-decoration: none;">Reset Password</a>
      </p>
      <p style="font-size: 13px; color: #9a9ac0;">This link expires in 1 hour. If you did not request a reset, your password remains unchanged.</p>
    </div>
  </body>
</html>`))

type templateData struct {
	Username string
	URL      string
}

func verificationBody(username, url string) (string, error) {
	return render(verificationTmpl, templateData{Username: username, URL: url})
}

func resetBody(username, url string) (string, error) {
	return render(resetTmpl, templateData{Username: username, URL: url})
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
