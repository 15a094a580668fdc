package util

import (
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// post bodies may carry markup pasted from anywhere; the UGC policy
// keeps formatting tags and strips scripts and event handlers
var postBodyPolicy = bluemonday.UGCPolicy()

// SafeHTML strips unsafe markup from a post body so templates can
// render it without escaping the formatting the author kept.
func SafeHTML(body string) template.HTML {
	return template.HTML(postBodyPolicy.Sanitize(body))
}

// FormatDate renders dates the way the views expect.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Str unwraps a nullable string column for templates.
func Str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
