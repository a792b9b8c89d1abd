// Package formatter maps file formats to serializers.
//
// A Formatter knows how to decode a stream into a Go value and how to encode
// a Go value back into a stream. Formatters are collected in a Registry and
// selected either by explicit name or by the extension of the path being
// loaded or dumped:
//
//	reg := formatter.Builtin()
//	f, err := reg.Find("", "/data/config.yaml") // the "yaml" formatter
//
// Lookup order is exact name, then the longest matching extension, then the
// registry default if one is set. Anything else fails with
// errors.CodeNotFound.
//
// Builtin registers the "json", "yaml" and "text" formatters. Additional
// formatters (see the cue subpackage) are registered without touching the
// filesystem layer:
//
//	reg.Register(cue.New())
package formatter
