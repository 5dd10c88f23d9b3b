// Package models defines the domain types for gitnote.
package models

import (
	"strings"
	"time"
)

// DateFormat is the fixed timestamp layout used in note files and the
// index. Values are compared lexically, never parsed back into a
// calendar type.
const DateFormat = "02-01-2006 15:04:05"

// Timestamp formats t in the note date format.
func Timestamp(t time.Time) string {
	return t.Format(DateFormat)
}

// Note represents one Markdown note. The title is the natural dedup
// key within the index; ID is 0 until the index assigns one. A nil
// Tags slice means the note carries no tags marker, which is distinct
// from an empty tag list.
type Note struct {
	ID          int
	Title       string
	ContentRaw  string
	ContentHTML string
	Tags        []string
	DateCreated string
}

// Indexed reports whether the note has been assigned an id.
func (n Note) Indexed() bool {
	return n.ID > 0
}

// Markdown serializes the note into the on-disk file shape, the
// inverse of parser.Parse:
//
//	#<title>
//
//	<body>
//	Posted on <date>
//	Tags: <comma-separated tags>
//
// Absent tags serialize as a bare "Tags:" line, which parses back as
// absent.
func (n Note) Markdown() string {
	var b strings.Builder
	b.WriteString("#")
	b.WriteString(n.Title)
	b.WriteString("\n\n")
	if n.ContentRaw != "" {
		b.WriteString(n.ContentRaw)
		b.WriteString("\n")
	}
	b.WriteString("Posted on ")
	b.WriteString(n.DateCreated)
	b.WriteString("\nTags: ")
	b.WriteString(strings.Join(n.Tags, ","))
	b.WriteString("\n")
	return b.String()
}
