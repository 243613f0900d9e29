package generator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrNotHTML means the model output has no recognizable HTML in it.
	ErrNotHTML = errors.New("response does not appear to be valid HTML")
	// ErrNotSVG means the model output has no <svg> element.
	ErrNotSVG = errors.New("response does not appear to be valid SVG")
)

var (
	openFenceRe  = regexp.MustCompile("(?i)^```[a-z]*\\s*")
	closeFenceRe = regexp.MustCompile("\\s*```$")
)

// CleanHTML normalizes raw model output into a servable document: strips
// code-fence wrapping, verifies an HTML marker is present and guarantees a
// doctype preamble. Running it on already-clean HTML is a no-op.
func CleanHTML(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = openFenceRe.ReplaceAllString(clean, "")
	clean = closeFenceRe.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)

	lower := strings.ToLower(clean)
	if !strings.Contains(lower, "<!doctype") && !strings.Contains(lower, "<html") {
		return "", ErrNotHTML
	}

	if !strings.HasPrefix(lower, "<!doctype") {
		clean = "<!DOCTYPE html>\n" + clean
	}

	return clean, nil
}

// CleanSVG strips fences and isolates the <svg> element from model output.
func CleanSVG(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = openFenceRe.ReplaceAllString(clean, "")
	clean = closeFenceRe.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)

	lower := strings.ToLower(clean)
	start := strings.Index(lower, "<svg")
	end := strings.LastIndex(lower, "</svg>")
	if start < 0 || end < 0 || end < start {
		return "", ErrNotSVG
	}

	return clean[start : end+len("</svg>")], nil
}
