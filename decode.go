package hgschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	gojson "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/higlass/hgschema/i18n"
	eng "github.com/higlass/hgschema/internal/engine"
)

// Decode turns document text into the generic value tree accepted by
// Schema.Parse: map[string]any, []any, string, bool, nil and numbers
// (json.Number for JSON input, int/float64 for YAML).
func Decode(data []byte, opt ParseOpt) (any, error) {
	var (
		v   any
		err error
	)
	switch opt.Format {
	case FormatYAML:
		v, err = decodeYAML(data)
	case FormatJSONC:
		v, err = decodeJSON(jsonc.ToJSON(data), opt)
	default:
		v, err = decodeJSON(data, opt)
	}
	if err != nil {
		return nil, err
	}
	if opt.MaxDepth > 0 {
		if d := depth(v); d > opt.MaxDepth {
			return nil, Issues{{
				Path:    "/",
				Code:    CodeTooLong,
				Message: i18n.T(CodeTooLong, nil),
				Hint:    "document nesting exceeds max depth",
				Params:  map[string]any{"max": opt.MaxDepth, "got": d},
			}}
		}
	}
	return v, nil
}

// DecodeJSON decodes a single JSON document, keeping numbers as json.Number.
func DecodeJSON(data []byte) (any, error) { return decodeJSON(data, ParseOpt{}) }

func decodeJSON(data []byte, opt ParseOpt) (any, error) {
	if sev := opt.Strictness.OnDuplicateKey; sev != Ignore {
		found, err := DetectDuplicateKeys(data, opt.Strictness, -1)
		if err != nil {
			return nil, err
		}
		if sev == Error && len(found) > 0 {
			return nil, found
		}
	}
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, parseIssue(err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, parseIssue(errors.New("unexpected data after top-level value"))
	}
	return v, nil
}

// DecodeYAML decodes a YAML document into the same value tree as DecodeJSON.
func DecodeYAML(data []byte) (any, error) { return decodeYAML(data) }

func decodeYAML(data []byte) (any, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, parseIssue(err)
	}
	return yamlNormalizeValue(node), nil
}

// DetectDuplicateKeys scans JSON text for repeated object keys. maxIssues < 0
// means unlimited.
func DetectDuplicateKeys(data []byte, strict Strictness, maxIssues int) (Issues, error) {
	si, err := eng.DetectDuplicateKeys(data, toEngineDup(strict.OnDuplicateKey), maxIssues)
	if err != nil {
		return nil, err
	}
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, Issue{Code: s.Code, Path: s.Path, Message: i18n.T(s.Code, nil), Hint: s.Message})
	}
	return iss, nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func parseIssue(err error) Issues {
	return Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Hint: err.Error(), Cause: err}}
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into the JSON-like value tree.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[yamlKey(k)] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}

func yamlKey(k any) string {
	switch t := k.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}

func depth(v any) int {
	switch t := v.(type) {
	case map[string]any:
		d := 0
		for _, vv := range t {
			d = max(d, depth(vv))
		}
		return d + 1
	case []any:
		d := 0
		for _, vv := range t {
			d = max(d, depth(vv))
		}
		return d + 1
	default:
		return 0
	}
}
