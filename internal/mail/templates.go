package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// TemplateName identifies a mail template.
type TemplateName string

const (
	TemplateContactReceived TemplateName = "contact_received"
	TemplatePasswordChanged TemplateName = "password_changed"
)

type mailTemplate struct {
	subject string
	html    *template.Template
}

var templates = map[TemplateName]mailTemplate{
	TemplateContactReceived: {
		subject: "New contact message from {{.FirstName}} {{.LastName}}",
		html: template.Must(template.New("contact_received").Parse(`
<h2>New contact message</h2>
<p><strong>From:</strong> {{.FirstName}} {{.LastName}} ({{.EmailAddress}})</p>
<p>{{.Message}}</p>
`)),
	},
	TemplatePasswordChanged: {
		subject: "Your {{.AppName}} password was changed",
		html: template.Must(template.New("password_changed").Parse(`
<h2>Password changed</h2>
<p>The password for your {{.AppName}} account was just changed. If this was
not you, contact the site administrator immediately.</p>
`)),
	},
}

// Render produces the subject and HTML body for a template.
func Render(name TemplateName, data map[string]any) (subject, body string, err error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("mail template %q not found", name)
	}

	subjectTmpl, err := template.New("subject").Parse(tmpl.subject)
	if err != nil {
		return "", "", err
	}
	var subjectBuf bytes.Buffer
	if err := subjectTmpl.Execute(&subjectBuf, data); err != nil {
		return "", "", err
	}

	var bodyBuf bytes.Buffer
	if err := tmpl.html.Execute(&bodyBuf, data); err != nil {
		return "", "", err
	}
	return subjectBuf.String(), bodyBuf.String(), nil
}
