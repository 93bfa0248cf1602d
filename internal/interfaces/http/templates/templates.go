// Package templates holds the server-rendered pages of the judge offer link.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed *.html
var files embed.FS

// Page names
const (
	Offer     = "offer.html"
	Responded = "responded.html"
	Error     = "error.html"
)

// Load parses every page with the shared helpers
func Load() (*template.Template, error) {
	return template.New("pages").Funcs(Funcs()).ParseFS(files, "*.html")
}

// Funcs returns the helpers available to the pages
func Funcs() template.FuncMap {
	return template.FuncMap{
		"stageTitle": StageTitle,
		"longDate":   LongDate,
		"join":       strings.Join,
	}
}

// StageTitle renders a stage such as "offer_accepted" as "Offer Accepted".
// Casers keep state, so each call gets its own.
func StageTitle(stage any) string {
	words := strings.ReplaceAll(fmt.Sprint(stage), "_", " ")
	return cases.Title(language.BritishEnglish).String(words)
}

// LongDate formats t as "Saturday 6 June 2026"; zero times render empty
func LongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Monday 2 January 2006")
}
