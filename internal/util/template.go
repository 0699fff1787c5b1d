package util

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"text/template/parse"
)

// funcs are the helpers available to task text and prompt templates.
var funcs = template.FuncMap{
	"default": func(defaultVal any, val any) any {
		if val == nil || val == "" {
			return defaultVal
		}
		return val
	},
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
	"join": func(sep string, items []any) string {
		strItems := make([]string, len(items))
		for i, item := range items {
			strItems[i] = fmt.Sprintf("%v", item)
		}
		return strings.Join(strItems, sep)
	},
}

// RenderTemplate replaces template variables using Go's text/template package.
// Generated artifacts are HTML and JavaScript, so text/template is used to keep
// them unescaped. Top-level keys the template references but a map[string]any
// data lacks render as empty strings; substituted values are never altered.
func RenderTemplate(text string, data any) (string, error) {
	if !strings.Contains(text, "{{") { // fast path: no template markers
		return text, nil
	}

	tmpl, err := template.New("prompt").Funcs(funcs).Parse(text)
	if err != nil {
		return "", err
	}

	if m, ok := data.(map[string]any); ok {
		data = withReferencedKeys(tmpl.Tree.Root, m)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// withReferencedKeys returns a copy of m in which every top-level field the
// template reads ({{.name}}) is present, defaulting to "".
func withReferencedKeys(root parse.Node, m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	walkFields(root, func(name string) {
		if _, ok := out[name]; !ok {
			out[name] = ""
		}
	})
	return out
}

func walkFields(n parse.Node, fn func(string)) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			walkFields(c, fn)
		}
	case *parse.ActionNode:
		walkFields(n.Pipe, fn)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, c := range n.Cmds {
			walkFields(c, fn)
		}
	case *parse.CommandNode:
		for _, a := range n.Args {
			walkFields(a, fn)
		}
	case *parse.FieldNode:
		fn(n.Ident[0])
	case *parse.ChainNode:
		walkFields(n.Node, fn)
	case *parse.IfNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, fn)
	case *parse.TemplateNode:
		walkFields(n.Pipe, fn)
	}
}

// walkBranch only visits the condition and else branch; inside the body of a
// range or with the dot is rebound, so fields there are not top-level keys.
func walkBranch(b *parse.BranchNode, fn func(string)) {
	walkFields(b.Pipe, fn)
	if b.NodeType == parse.NodeIf {
		walkFields(b.List, fn)
	}
	walkFields(b.ElseList, fn)
}

// MustParse parses a template with the shared helpers, panicking on error.
// Intended for package level prompt templates.
func MustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(text))
}
