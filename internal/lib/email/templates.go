package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

// Template names an embedded HTML template.
type Template string

const (
	TemplateMemberAdded   Template = "member_added"
	TemplateMemberRemoved Template = "member_removed"
	TemplateTaskAssigned  Template = "task_assigned"
	TemplateTaskCompleted Template = "task_completed"
	TemplateWeeklyDigest  Template = "weekly_digest"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type MemberAddedData struct {
	Fullname  string
	GroupName string
	AddedBy   string
}

type MemberRemovedData struct {
	Fullname  string
	GroupName string
}

type TaskAssignedData struct {
	Fullname    string
	TaskName    string
	Description string
	GroupName   string
	Priority    string
	DateDue     string
	AssignedBy  string
}

type TaskCompletedData struct {
	Fullname    string
	TaskName    string
	GroupName   string
	CompletedBy string
}

type DigestTask struct {
	Name        string
	Description string
	GroupName   string
	Priority    string
	DateDue     string
}

type WeeklyDigestData struct {
	Username string
	Tasks    []DigestTask
}

// Render executes the named template with data.
func Render(name Template, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}

// NewMessage renders the template into a message for to.
func NewMessage(to, subject string, name Template, data any) (Message, error) {
	html, err := Render(name, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, HTML: html}, nil
}
