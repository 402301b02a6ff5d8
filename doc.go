// Package hgschema provides:
//
// - The typed Schema contract (Parse/Validate/JSONSchema) shared by the DSL
// and the viewconf model
// - A stable error model via Issues (JSON Pointer, code, message, expected/got)
// - Document decoding for JSON, JSON with comments and YAML, with
// duplicate-key and depth enforcement
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place the DSL under dsl/, the HiGlass model under viewconf/ and the CLI under cmd/hgschema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	vc, err := viewconf.Parse(ctx, data)
//	if iss, ok := hgschema.AsIssues(err); ok {
//		for _, it := range iss {
//			fmt.Println(it.Path, it.Code)
//		}
//	}
//	schema, err := viewconf.SchemaJSON(viewconf.WithIndent("", "  "))
package hgschema
