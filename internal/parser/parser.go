// Package parser extracts a note's fields from its structured
// Markdown document:
//
//	#<title>
//
//	<body...>
//	Posted on <date>
//	Tags:<comma-separated tags>
//
// Parsing is anchored and line-based. The title anchor is the first
// line that begins with '#' (after leading whitespace); the date
// anchor is the first "Posted on" line after it. The body is
// everything strictly between the two anchors, trimmed. Body capture
// is non-greedy: a second "Posted on" line belongs to the body of no
// note, never extends the first.
package parser

import (
	"fmt"
	"strings"

	"github.com/okvist/gitnote/internal/apperr"
)

const (
	dateAnchor = "Posted on "
	tagsAnchor = "Tags:"
)

// Result holds the fields extracted from a note document.
type Result struct {
	Title string
	Body  string
	Date  string
	Tags  []string
}

// Parse extracts title, body, date, and tags from raw note bytes.
// A document without a title anchor or a date anchor fails with
// apperr.ErrMalformed. An empty body span is allowed here; rendering
// rejects it later.
func Parse(data []byte) (*Result, error) {
	lines := strings.Split(string(data), "\n")

	titleIdx, title := findTitle(lines)
	if titleIdx < 0 {
		return nil, fmt.Errorf("parser: missing title line: %w", apperr.ErrMalformed)
	}

	dateIdx, date := findDate(lines, titleIdx+1)
	if dateIdx < 0 {
		return nil, fmt.Errorf("parser: missing %q line: %w", strings.TrimSpace(dateAnchor), apperr.ErrMalformed)
	}

	body := strings.TrimSpace(strings.Join(lines[titleIdx+1:dateIdx], "\n"))

	return &Result{
		Title: title,
		Body:  body,
		Date:  date,
		Tags:  findTags(lines),
	}, nil
}

// findTitle returns the index and captured text of the first line
// beginning with a '#' run. A bare "#" with no text does not count.
func findTitle(lines []string) (int, string) {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		if title == "" {
			continue
		}
		return i, title
	}
	return -1, ""
}

// findDate returns the index and captured date of the first
// "Posted on" line at or after start.
func findDate(lines []string, start int) (int, string) {
	for i := start; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, dateAnchor) {
			continue
		}
		date := strings.TrimSpace(strings.TrimPrefix(trimmed, dateAnchor))
		if date == "" {
			continue
		}
		return i, date
	}
	return -1, ""
}

// findTags returns the tags from the first "Tags:" line, split on
// comma with each element trimmed. A tag line whose split yields only
// empty elements normalizes to nil (absent), never to [""].
func findTags(lines []string) []string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, tagsAnchor) {
			continue
		}
		rest := strings.TrimPrefix(trimmed, tagsAnchor)
		var out []string
		for _, t := range strings.Split(rest, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
		return out
	}
	return nil
}
