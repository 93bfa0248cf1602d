// Package notification renders and delivers the service's emails.
package notification

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/showring/backend/internal/domain/shared"
)

type messageTemplate struct {
	subject *template.Template
	body    *template.Template
}

func mustTemplate(key, subject, body string) messageTemplate {
	return messageTemplate{
		subject: template.Must(template.New(key + ".subject").Option("missingkey=zero").Parse(subject)),
		body:    template.Must(template.New(key + ".body").Option("missingkey=zero").Parse(body)),
	}
}

var templates = map[string]messageTemplate{
	shared.TemplateJudgeOffer: mustTemplate(shared.TemplateJudgeOffer,
		`Judging appointment: {{.show_name}}`,
		`Dear {{.judge_name}},

{{.show_name}} would like you to judge {{.breeds}}{{if .date}} on {{.date}}{{end}}.
{{if .notes}}
{{.notes}}
{{end}}
To accept straight away: {{.accept_link}}
To read the offer or decline: {{.offer_link}}
`),
	shared.TemplateJudgeOfferAccepted: mustTemplate(shared.TemplateJudgeOfferAccepted,
		`{{.judge_name}} accepted the appointment at {{.show_name}}`,
		`{{.judge_name}} has accepted the judging appointment at {{.show_name}}.
The contract ({{.contract_id}}) is awaiting your confirmation.
`),
	shared.TemplateJudgeOfferDeclined: mustTemplate(shared.TemplateJudgeOfferDeclined,
		`{{.judge_name}} declined the appointment at {{.show_name}}`,
		`{{.judge_name}} has declined the judging appointment at {{.show_name}} (contract {{.contract_id}}).
`),
	shared.TemplateEntryConfirmation: mustTemplate(shared.TemplateEntryConfirmation,
		`Entry confirmed: {{.show_name}}`,
		`Your entries for {{.show_name}} are confirmed.
Order {{.order_id}}, total paid {{.total}}.
`),
}

// Message is a rendered email
type Message struct {
	Template string
	To       string
	Subject  string
	Body     string
}

// Render fills the named template with data
func Render(templateKey, to string, data map[string]any) (Message, error) {
	tpl, ok := templates[templateKey]
	if !ok {
		return Message{}, fmt.Errorf("unknown notification template %q", templateKey)
	}
	var subject, body bytes.Buffer
	if err := tpl.subject.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", templateKey, err)
	}
	if err := tpl.body.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", templateKey, err)
	}
	return Message{Template: templateKey, To: to, Subject: subject.String(), Body: body.String()}, nil
}
