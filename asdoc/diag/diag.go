// Package diag collects the non-fatal problems found while building a
// documentation set. Nothing in the pipeline aborts on these; the caller
// decides whether a non-empty list fails the build.
package diag

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("asdoc.diag")

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Kind classifies a diagnostic.
type Kind string

const (
	KindMalformedTag      Kind = "malformed-tag"
	KindMarkup            Kind = "markup"
	KindSignatureMismatch Kind = "signature-mismatch"
	KindUnresolvedRef     Kind = "unresolved-reference"
	KindStructural        Kind = "structural"
)

// Entry is one diagnostic. Owner names the declaration it was found on, when
// known.
type Entry struct {
	Severity Severity
	Kind     Kind
	Owner    string
	Message  string
}

func (e Entry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Severity.String())
	sb.WriteString(" [")
	sb.WriteString(string(e.Kind))
	sb.WriteString("]")
	if e.Owner != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Owner)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}

// List accumulates diagnostics in the order they were reported. The zero
// value is ready to use. A nil *List discards everything.
type List struct {
	entries []Entry
}

func (l *List) Add(e Entry) {
	if l == nil {
		return
	}
	log.Warning(e.Message, "kind", string(e.Kind), "owner", e.Owner, "severity", e.Severity.String())
	l.entries = append(l.entries, e)
}

// Errorf records an error-severity diagnostic.
func (l *List) Errorf(kind Kind, owner, format string, args ...any) {
	l.Add(Entry{Severity: SeverityError, Kind: kind, Owner: owner, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning-severity diagnostic.
func (l *List) Warnf(kind Kind, owner, format string, args ...any) {
	l.Add(Entry{Severity: SeverityWarning, Kind: kind, Owner: owner, Message: fmt.Sprintf(format, args...)})
}

// Append adds all entries of other, keeping their order.
func (l *List) Append(other *List) {
	if l == nil || other == nil {
		return
	}
	l.entries = append(l.entries, other.entries...)
}

func (l *List) Entries() []Entry {
	if l == nil {
		return nil
	}
	return l.entries
}

func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Count returns the number of entries of the given kind.
func (l *List) Count(kind Kind) int {
	n := 0
	for _, e := range l.Entries() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// HasErrors reports whether any entry has error severity.
func (l *List) HasErrors() bool {
	for _, e := range l.Entries() {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}
