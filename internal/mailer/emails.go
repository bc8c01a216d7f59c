package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type emailData struct {
	Subject string
	HTML    string
}

type templateContext struct {
	Name            string
	ProjectName     string
	URL             string
	ExpirationHours int
}

func renderEmail(templateName, subject string, ctx templateContext) (emailData, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, templateName, ctx); err != nil {
		return emailData{}, fmt.Errorf("failed to render email template %s: %w", templateName, err)
	}

	return emailData{Subject: subject, HTML: buf.String()}, nil
}

func actionLink(frontendHost, action, token string) string {
	return fmt.Sprintf("%s/%s/%s/confirm", strings.TrimRight(frontendHost, "/"), action, token)
}

func verificationEmail(firstName, frontendHost, projectName, token string, expirationHours int) (emailData, error) {
	return renderEmail("verify_email.html", "Email Verification", templateContext{
		Name:            firstName,
		ProjectName:     projectName,
		URL:             actionLink(frontendHost, "verify-email", token),
		ExpirationHours: expirationHours,
	})
}

func welcomeEmail(firstName, projectName string) (emailData, error) {
	return renderEmail("welcome.html", "Welcome!", templateContext{
		Name:        firstName,
		ProjectName: projectName,
	})
}

func passwordResetEmail(firstName, frontendHost, projectName, token string, expirationHours int) (emailData, error) {
	return renderEmail("reset_password.html", "Password Reset", templateContext{
		Name:            firstName,
		ProjectName:     projectName,
		URL:             actionLink(frontendHost, "reset-password", token),
		ExpirationHours: expirationHours,
	})
}

func accountRemovalEmail(firstName, frontendHost, projectName, token string, expirationHours int) (emailData, error) {
	return renderEmail("remove_account.html", "Deactivate Account", templateContext{
		Name:            firstName,
		ProjectName:     projectName,
		URL:             actionLink(frontendHost, "verify-remove-account", token),
		ExpirationHours: expirationHours,
	})
}

func accountRemovedEmail(firstName, projectName string) (emailData, error) {
	return renderEmail("remove_account_success.html", "Deactivate Account Complete", templateContext{
		Name:        firstName,
		ProjectName: projectName,
	})
}
