package submission

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
)

// renderer compiles small text templates once and renders them with strict
// missing-key semantics.
type renderer struct {
	mu    sync.Mutex
	cache map[string]*template.Template
}

func newRenderer() *renderer {
	return &renderer{cache: make(map[string]*template.Template)}
}

func (r *renderer) render(name, tmpl string, data any) (string, error) {
	if tmpl == "" {
		return "", fmt.Errorf("submission: template %s: text required", name)
	}
	t, err := r.compiled(name, tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("submission: execute %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *renderer) compiled(name, tmpl string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.cache[name]; ok {
		return t, nil
	}
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("submission: parse %s: %w", name, err)
	}
	r.cache[name] = t
	return t, nil
}

// addressTemplate renders "<street> <house>[, Apt <apt>]\n<zip> <city>\n<state>, <country>".
const addressTemplate = "{{.Street}} {{.House}}{{if .Apt}}, Apt {{.Apt}}{{end}}\n{{.Zip}} {{.City}}\n{{.State}}, {{.Country}}"

// scheduleLineTemplate renders one lesson line of the combined schedule block.
const scheduleLineTemplate = "{{.Type}} ({{.Hours}}h): {{.Schedule}}"

// installmentTemplate renders one line of the payment plan summary.
const installmentTemplate = "{{.Date}}: {{.Amount}} {{.Currency}}"
