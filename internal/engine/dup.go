// Package engine holds token-level JSON helpers shared by the root package.
package engine

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// DuplicateStrictness controls duplicate key handling in detection helpers.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type dupFrame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	seg          string // segment of this container within its parent
	next         int    // next array index
	key          string // last key read (objects)
}

// DetectDuplicateKeys detects duplicate object keys in a JSON document using
// go-json's token stream. If onDup is DupIgnore, no issues are produced.
// maxIssues < 0 means unlimited; 0 means disabled; >0 sets limit. With
// DupError detection stops at the first duplicate.
func DetectDuplicateKeys(data []byte, onDup DuplicateStrictness, maxIssues int) ([]SimpleIssue, error) {
	if onDup == DupIgnore {
		return nil, nil
	}
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var issues []SimpleIssue
	var stack []dupFrame

	appendIssue := func(i SimpleIssue) bool {
		if maxIssues == 0 {
			return false
		}
		issues = append(issues, i)
		if maxIssues > 0 && len(issues) >= maxIssues {
			issues = append(issues, SimpleIssue{Code: "truncated", Path: "/", Message: "max issues reached"})
			return false
		}
		return true
	}

	// valueSeg returns the path segment for the value about to be read.
	valueSeg := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := &stack[len(stack)-1]
		if top.kind == kindArray {
			s := strconv.Itoa(top.next)
			top.next++
			return s
		}
		top.expectingKey = true
		return escape(top.key)
	}
	pointer := func(extra string) string {
		var b strings.Builder
		for _, f := range stack {
			if f.seg != "" {
				b.WriteString("/")
				b.WriteString(f.seg)
			}
		}
		if extra != "" {
			b.WriteString("/")
			b.WriteString(extra)
		}
		if b.Len() == 0 {
			return "/"
		}
		return b.String()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return issues, err
		}
		if d, ok := tok.(gojson.Delim); ok {
			switch d {
			case '{':
				seg := valueSeg()
				stack = append(stack, dupFrame{kind: kindObject, keys: make(map[string]struct{}), expectingKey: true, seg: seg})
			case '[':
				seg := valueSeg()
				stack = append(stack, dupFrame{kind: kindArray, seg: seg})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
			continue
		}
		if s, ok := tok.(string); ok && len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.kind == kindObject && top.expectingKey {
				if _, dup := top.keys[s]; dup {
					more := appendIssue(SimpleIssue{Code: "duplicate_key", Path: pointer(escape(s)), Message: "key '" + s + "' duplicated"})
					if onDup == DupError || !more {
						return issues, nil
					}
				}
				top.keys[s] = struct{}{}
				top.key = s
				top.expectingKey = false
				continue
			}
		}
		valueSeg()
	}
	return issues, nil
}

func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
