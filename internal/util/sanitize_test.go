package util

import (
	"strings"
	"testing"
	"time"
)

func TestSafeHTML(t *testing.T) {
	got := string(SafeHTML(`<p>hello <b>world</b></p><script>alert("x")</script>`))
	if strings.Contains(got, "<script") || strings.Contains(got, "alert") {
		t.Errorf("script survived sanitization: %q", got)
	}
	if !strings.Contains(got, "<b>world</b>") {
		t.Errorf("formatting was stripped: %q", got)
	}

	got = string(SafeHTML(`<a href="https://example.com" onclick="steal()">link</a>`))
	if strings.Contains(got, "onclick") {
		t.Errorf("event handler survived sanitization: %q", got)
	}
	if !strings.Contains(got, "https://example.com") {
		t.Errorf("link target was stripped: %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2023, 11, 5, 9, 30, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2023-11-05" {
		t.Errorf("FormatDate = %q, want 2023-11-05", got)
	}
}

func TestStr(t *testing.T) {
	if got := Str(nil); got != "" {
		t.Errorf("Str(nil) = %q, want empty", got)
	}
	s := "soups"
	if got := Str(&s); got != "soups" {
		t.Errorf("Str = %q, want soups", got)
	}
}
