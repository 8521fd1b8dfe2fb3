package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

const AccountApprovedSubject = "Your LU League Account Approved"

var accountApprovedTmpl = template.Must(template.New("approved").Parse(
	`<p>Hello {{.Name}},</p>
<p>Your {{.Role}} account on LU League has been approved.</p>
<p>Complete your registration here (the link expires in {{.ValidFor}}):</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>`))

// Phase2Link builds the frontend address that continues registration.
func Phase2Link(frontendURL, token string) string {
	return fmt.Sprintf("%s/register-phase2?token=%s", strings.TrimRight(frontendURL, "/"), url.QueryEscape(token))
}

// AccountApprovedBody renders the approval email.
func AccountApprovedBody(name, role, link, validFor string) (string, error) {
	var buf bytes.Buffer
	err := accountApprovedTmpl.Execute(&buf, struct {
		Name, Role, Link, ValidFor string
	}{name, role, link, validFor})
	if err != nil {
		return "", fmt.Errorf("render approval email: %w", err)
	}
	return buf.String(), nil
}
