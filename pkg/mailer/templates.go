package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names understood by the email worker.
const (
	TemplateWelcome = "welcome"
)

var welcomeHTML = template.Must(template.New(TemplateWelcome).Parse(`
<h2>Welcome{{if .Name}}, {{.Name}}{{end}}!</h2>
<p>Your account is ready. Sign in with your email and start creating tasks.</p>
<p>— The {{.AppName}} team</p>
`))

// Render produces subject, text and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	if data == nil {
		data = map[string]any{}
	}
	switch name {
	case TemplateWelcome:
		var buf bytes.Buffer
		if err := welcomeHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		subject = "Welcome aboard"
		text = fmt.Sprintf("Welcome%s! Your account is ready.", optionalName(data))
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("mailer: unknown template %q", name)
	}
}

func optionalName(data map[string]any) string {
	if v, ok := data["Name"]; ok && fmt.Sprintf("%v", v) != "" {
		return fmt.Sprintf(", %v", v)
	}
	return ""
}
