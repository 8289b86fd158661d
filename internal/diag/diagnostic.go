// Package diag implements the compiler's diagnostics model (solangc spec
// §4.7): an append-only log of leveled, source-spanned messages that every
// resolution phase keeps writing to instead of unwinding on the first
// problem it finds.
package diag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Level orders diagnostics from least to most severe. The zero value is the
// least severe (Debug) so a freshly zeroed Diagnostic never looks like an
// error by accident.
type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Kind classifies a diagnostic's origin, per spec §7's error taxonomy.
type Kind int

const (
	KindNone Kind = iota
	KindParser
	KindSyntax
	KindDeclaration
	KindType
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindParser:
		return "ParserError"
	case KindSyntax:
		return "SyntaxError"
	case KindDeclaration:
		return "DeclarationError"
	case KindType:
		return "TypeError"
	case KindWarning:
		return "Warning"
	default:
		return "None"
	}
}

// Span locates a diagnostic (or a note) in a source file.
type Span struct {
	File   string
	Line   int
	Column int
}

func (s Span) String() string {
	if s.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Note is additional context attached to a Diagnostic, e.g. pointing at the
// previous definition in a "already defined" error.
type Note struct {
	Span    Span
	Message string
}

// Diagnostic is one compiler message. It is immutable once appended to a Log.
type Diagnostic struct {
	Level   Level
	Kind    Kind
	Span    Span
	Message string
	Notes   []Note
}

// Format renders a Diagnostic as "file:line:col: level: message" followed by
// indented notes, matching spec §4.7.
func (d Diagnostic) Format() string {
	var b strings.Builder
	if loc := d.Span.String(); loc != "" {
		b.WriteString(loc)
		b.WriteString(": ")
	}
	b.WriteString(d.Level.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	for _, n := range d.Notes {
		b.WriteString("\n\t")
		if loc := n.Span.String(); loc != "" {
			b.WriteString(loc)
			b.WriteString(": ")
		}
		b.WriteString(n.Message)
	}
	return b.String()
}

// jsonDiagnostic mirrors the standard-json schema of spec §4.7.
type jsonDiagnostic struct {
	SourceLocation   string `json:"sourceLocation,omitempty"`
	Type             string `json:"type"`
	Component        string `json:"component"`
	Severity         string `json:"severity"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage"`
}

// marshalJSON renders the diagnostic per the standard-json schema. Info and
// Debug level diagnostics are never emitted this way — callers filter before
// calling it (see Log.JSON).
func (d Diagnostic) marshalJSON() jsonDiagnostic {
	return jsonDiagnostic{
		SourceLocation:   d.Span.String(),
		Type:             d.Kind.String(),
		Component:        "general",
		Severity:         d.Level.String(),
		Message:          d.Message,
		FormattedMessage: d.Format(),
	}
}

// Log is the namespace's append-only diagnostics collector.
type Log struct {
	entries []Diagnostic
}

// Push appends a diagnostic to the log, preserving production order — this
// order is part of the observable contract (spec §5).
func (l *Log) Push(d Diagnostic) {
	l.entries = append(l.entries, d)
}

// Errorf appends a new Error-level diagnostic of the given kind.
func (l *Log) Errorf(kind Kind, span Span, format string, args ...any) {
	l.Push(Diagnostic{Level: Error, Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)})
}

// ErrorWithNote appends an Error-level diagnostic carrying exactly one note,
// the shape used throughout sema for "already defined" style errors.
func (l *Log) ErrorWithNote(kind Kind, span Span, message string, noteSpan Span, noteMessage string) {
	l.Push(Diagnostic{
		Level:   Error,
		Kind:    kind,
		Span:    span,
		Message: message,
		Notes:   []Note{{Span: noteSpan, Message: noteMessage}},
	})
}

// ErrorWithNotes appends an Error-level diagnostic carrying zero or more notes.
func (l *Log) ErrorWithNotes(kind Kind, span Span, message string, notes []Note) {
	l.Push(Diagnostic{Level: Error, Kind: kind, Span: span, Message: message, Notes: notes})
}

// Warnf appends a new Warning-level diagnostic.
func (l *Log) Warnf(span Span, format string, args ...any) {
	l.Push(Diagnostic{Level: Warning, Kind: KindWarning, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Infof appends a new Info-level diagnostic, suppressed from user output
// unless verbose mode is requested.
func (l *Log) Infof(span Span, format string, args ...any) {
	l.Push(Diagnostic{Level: Info, Span: span, Message: fmt.Sprintf(format, args...)})
}

// Entries returns all diagnostics appended so far, in production order.
func (l *Log) Entries() []Diagnostic { return l.entries }

// AnyErrors reports whether any diagnostic in the log is Error-level. This is
// the single gate the pipeline orchestrator checks before emission (spec §4.10).
func (l *Log) AnyErrors() bool {
	for _, d := range l.entries {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Render writes every diagnostic to stderr-style plain text in source order,
// the non-standard-json output path of spec §7.
func (l *Log) Render() string {
	var b strings.Builder
	for i, d := range l.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.Format())
	}
	return b.String()
}

// JSON renders the non-Info/Debug entries per the standard-json schema of
// spec §4.7.
func (l *Log) JSON() ([]byte, error) {
	out := make([]jsonDiagnostic, 0, len(l.entries))
	for _, d := range l.entries {
		if d.Level == Info || d.Level == Debug {
			continue
		}
		out = append(out, d.marshalJSON())
	}
	return json.Marshal(out)
}
