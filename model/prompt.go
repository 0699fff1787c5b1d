package model

import (
	"strings"

	"github.com/hupe1980/crewmesh/internal/util"
)

var systemTmpl = util.MustParse("system", `You are {{.Role}}.{{if .Backstory}} {{trim .Backstory}}{{end}}
{{- if .Goal}}

Your personal goal is: {{.Goal}}{{end}}`)

var userTmpl = util.MustParse("user", `{{.Prompt}}
{{- if .Context}}

This is the context you are working with:
{{- range .Context}}

--- {{.Source}}{{if .Role}} ({{.Role}}){{end}} ---
{{.Output}}
{{- end}}{{end}}`)

// SystemPrompt renders the persona part of req (role, backstory, goal).
func SystemPrompt(req Request) string {
	var b strings.Builder
	_ = systemTmpl.Execute(&b, req)
	return b.String()
}

// UserPrompt renders the task prompt followed by every context item in order.
func UserPrompt(req Request) string {
	var b strings.Builder
	_ = userTmpl.Execute(&b, req)
	return b.String()
}
