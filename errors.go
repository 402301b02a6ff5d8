package hgschema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/higlass/hgschema/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType  = "invalid_type"
	CodeRequired     = "required"
	CodeUnknownKey   = "unknown_key"
	CodeDuplicateKey = "duplicate_key"
	CodeTooShort     = "too_short"
	CodeTooLong      = "too_long"
	CodeInvalidEnum  = "invalid_enum"
	CodeInvalidConst = "invalid_const"
	CodeNoMatch      = "no_match"
	CodeParseError   = "parse_error"
	CodeCustom       = "custom"
	CodeTruncated    = "truncated"
)

// ErrValidation matches every validation failure through errors.Is.
var ErrValidation = errors.New("hgschema: validation failed")

// Issue represents a single validation entry.
type Issue struct {
	Path     string // JSON Pointer (for example: /views/0/tracks/top/1/type).
	Code     string // One of the codes listed above.
	Message  string
	Expected string // Shape the value had to satisfy ("string", "array of length 3", ...).
	Got      string // JSON type or literal encountered.
	Hint     string // Optional: remediation hints.
	Cause    error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":0}).
	Params map[string]any
}

// Segments splits Path back into its keys and indices, unescaping RFC 6901
// sequences.
func (it Issue) Segments() []string {
	if it.Path == "" || it.Path == "/" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(it.Path, "/"), "/")
	for i, p := range parts {
		parts[i] = pointerUnescaper.Replace(p)
	}
	return parts
}

func (it Issue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s", it.Code, it.Path)
	if it.Expected != "" {
		fmt.Fprintf(&b, " (expected %s", it.Expected)
		if it.Got != "" {
			fmt.Fprintf(&b, ", got %s", it.Got)
		}
		b.WriteString(")")
	}
	return b.String()
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports true for ErrValidation.
func (iss Issues) Is(target error) bool { return target == ErrValidation }

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssuesFromErr converts an error into Issues, wrapping non-Issues with
// CodeParseError at path.
func IssuesFromErr(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Path: path, Code: CodeParseError, Message: err.Error(), Cause: err}}
}

// Rebase prefixes every issue path with base, which must be a JSON Pointer.
func Rebase(base string, iss Issues) Issues {
	if base == "" || base == "/" {
		return iss
	}
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// IssueAt creates an Issue at the given path with provided code and the
// translated message for that code.
func IssueAt(p PathRef, code string) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: i18n.T(code, nil)}
}

// NewIssue builds a root-relative issue carrying the expected shape and the
// JSON type of the offending value.
func NewIssue(code, expected string, got any) Issue {
	return Issue{
		Path:     "/",
		Code:     code,
		Message:  i18n.T(code, map[string]string{"expected": expected}),
		Expected: expected,
		Got:      Describe(got),
	}
}

// Describe names the JSON type of a decoded value for issue reporting.
func Describe(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case interface{ Float64() (float64, error) }:
		return "number"
	default:
		return fmt.Sprintf("%T", t)
	}
}
