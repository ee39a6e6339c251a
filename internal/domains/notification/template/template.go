// Package template renders notification mails from the embedded templates.
// Each file is named <kind>.<locale>.tmpl and defines "subject", "text" and "html".
package template

import (
	"bytes"
	"embed"
	"fmt"
	htmlTemplate "html/template"
	"strings"
	textTemplate "text/template"
	"time"
	_ "time/tzdata"

	"realty/internal/domains/notification/model"
	"realty/shared/constant"
)

//go:embed templates/*.tmpl
var files embed.FS

var funcs = map[string]any{
	"inZone": inZone,
}

type set struct {
	text *textTemplate.Template
	html *htmlTemplate.Template
}

var sets = mustLoad()

func mustLoad() map[string]set {
	entries, err := files.ReadDir("templates")
	if err != nil {
		panic(err)
	}

	loaded := make(map[string]set, len(entries))

	for _, entry := range entries {
		name := "templates/" + entry.Name()

		text, err := textTemplate.New(entry.Name()).Funcs(funcs).ParseFS(files, name)
		if err != nil {
			panic(err)
		}

		html, err := htmlTemplate.New(entry.Name()).Funcs(funcs).ParseFS(files, name)
		if err != nil {
			panic(err)
		}

		loaded[strings.TrimSuffix(entry.Name(), ".tmpl")] = set{text: text, html: html}
	}

	return loaded
}

// Render builds a message of kind for the recipients. Unknown locales fall back to English.
func Render(kind, locale string, to []string, data any) (model.Message, error) {
	tmpl, ok := sets[kind+"."+locale]
	if !ok {
		tmpl, ok = sets[kind+"."+constant.DefaultLocale]
	}

	if !ok {
		return model.Message{}, fmt.Errorf("no template for %s", kind)
	}

	subject, err := execute(tmpl.text, "subject", data)
	if err != nil {
		return model.Message{}, err
	}

	text, err := execute(tmpl.text, "text", data)
	if err != nil {
		return model.Message{}, err
	}

	var html bytes.Buffer
	if err = tmpl.html.ExecuteTemplate(&html, "html", data); err != nil {
		return model.Message{}, fmt.Errorf("failed to render %s html: %w", kind, err)
	}

	return model.Message{
		Kind:    kind,
		To:      to,
		Subject: strings.Join(strings.Fields(subject), " "),
		Text:    strings.TrimSpace(text),
		HTML:    strings.TrimSpace(html.String()),
	}, nil
}

func execute(tmpl *textTemplate.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return constant.Empty, fmt.Errorf("failed to render %s: %w", name, err)
	}

	return buf.String(), nil
}

func inZone(t time.Time, tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == constant.Empty {
		return t
	}

	return t.In(loc)
}
