// Package analyze extracts documented parameter types from Go source.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to find
// directive comments on struct types and their fields:
//
//	//jsonmap:alias Song
//	type Track struct {
//		//jsonmap:type int|string
//		Length any `json:"length"`
//	}
//
// A type directive documents the type of the parameter the field maps to,
// like a jsontype struct tag. An alias directive names a class in
// documented types. The result converts to an introspect.AnnotationFile.
package analyze
