package hgschema

import (
	"slices"
	"strconv"
	"strings"
)

// PathRef is a location inside a viewconf document. It renders as an RFC 6901
// JSON Pointer and is immutable: Field and Index return extended copies, so a
// parent path can be shared between sibling fields.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code string) Issue
}

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Root returns the document root, rendered as "/".
func Root() PathRef { return pointer(nil) }

// At parses a pointer such as "/views/0/tracks". Escaped segments are
// decoded, so At(it.Path).Pointer() reproduces any Issue path. Empty
// segments are skipped.
func At(path string) PathRef {
	var p pointer
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			p = append(p, pointerUnescaper.Replace(seg))
		}
	}
	return p
}

// pointer holds unescaped segments: view uids and option keys may contain
// "/" or "~".
type pointer []string

func (p pointer) with(seg string) pointer { return append(slices.Clip(p), seg) }

func (p pointer) Field(name string) PathRef {
	if name == "" {
		return p
	}
	return p.with(name)
}

func (p pointer) Index(i int) PathRef { return p.with(strconv.Itoa(i)) }

func (p pointer) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(seg))
	}
	return b.String()
}

func (p pointer) Issue(code string) Issue { return IssueAt(p, code) }
