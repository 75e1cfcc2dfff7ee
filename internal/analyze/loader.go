package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"json-mapper/diagnostic"
	"json-mapper/internal/typeexpr"
	"json-mapper/introspect"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Analyzer loads Go packages and collects their directives.
type Analyzer struct {
	// Dir is the directory patterns are relative to. Empty means the
	// current directory.
	Dir string

	result *Result
	errs   []error
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{result: &Result{}}
}

// LoadPackages loads the specified packages and collects their directives.
// Patterns are standard Go package patterns (e.g., "./examples/shop",
// "json-mapper/examples/music"). Malformed directives are reported together.
func (a *Analyzer) LoadPackages(patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	if len(a.errs) > 0 {
		return nil, errors.Join(a.errs...)
	}

	return a.result, nil
}

// processPackage scans the type declarations of a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	a.result.Packages = append(a.result.Packages, pkg.PkgPath)

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}

			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}

				a.processType(pkg, ts, doc)
			}
		}
	}
}

func (a *Analyzer) processType(pkg *packages.Package, ts *ast.TypeSpec, doc *ast.CommentGroup) {
	id := TypeID{PkgPath: pkg.PkgPath, Name: ts.Name.Name}

	obj := pkg.TypesInfo.Defs[ts.Name]
	if obj == nil {
		return
	}

	var isStruct, isClass bool

	switch obj.Type().Underlying().(type) {
	case *types.Struct:
		isStruct, isClass = true, true
	case *types.Interface:
		isClass = true
	}

	for _, c := range directives(doc, PrefixAlias) {
		pos := pkg.Fset.Position(c.Slash)

		alias := strings.TrimSpace(strings.TrimPrefix(c.Text, PrefixAlias))

		switch {
		case !isClass:
			a.errorf(pos, "%s is not a struct or interface and cannot have an alias", id)
		case alias == "" || strings.ContainsAny(alias, " \t|()[]"):
			a.errorf(pos, "invalid alias %q for %s", alias, id)
		default:
			a.result.Directives = append(a.result.Directives, Directive{
				Kind:  KindAlias,
				Class: id,
				Value: alias,
				Pos:   pos,
			})
		}
	}

	st, ok := ts.Type.(*ast.StructType)
	if !isStruct || !ok {
		// fields of a struct defined from another type are declared elsewhere
		return
	}

	for _, field := range st.Fields.List {
		a.processField(pkg, id, field)
	}
}

func (a *Analyzer) processField(pkg *packages.Package, id TypeID, field *ast.Field) {
	found := append(directives(field.Doc, PrefixType), directives(field.Comment, PrefixType)...)
	if len(found) == 0 {
		return
	}

	pos := pkg.Fset.Position(found[0].Slash)

	if len(found) > 1 {
		a.errorf(pos, "%s has %d type directives", fieldLabel(id, field), len(found))
		return
	}

	if len(field.Names) == 0 {
		a.errorf(pos, "embedded field %s cannot have a type directive", fieldLabel(id, field))
		return
	}

	expr := strings.TrimSpace(strings.TrimPrefix(found[0].Text, PrefixType))
	if _, err := typeexpr.Parse(expr); err != nil {
		msg := err.Error()
		if de, ok := diagnostic.As(err); ok {
			msg = de.Message
		}

		a.errorf(pos, "invalid type %q on %s: %s", expr, fieldLabel(id, field), msg)

		return
	}

	var tag reflect.StructTag

	if field.Tag != nil {
		raw, err := strconv.Unquote(field.Tag.Value)
		if err != nil {
			a.errorf(pos, "malformed tag on %s: %v", fieldLabel(id, field), err)
			return
		}

		tag = reflect.StructTag(raw)
	}

	if _, ok := tag.Lookup(introspect.TagType); ok {
		a.errorf(pos, "%s has both a %s tag and a type directive", fieldLabel(id, field), introspect.TagType)
		return
	}

	for _, name := range field.Names {
		if !name.IsExported() {
			a.errorf(pos, "unexported field %s.%s cannot have a type directive", id, name.Name)
			continue
		}

		param, ok := introspect.FieldParamName(tag, name.Name)
		if !ok {
			a.errorf(pos, "field %s.%s is ignored by its json tag", id, name.Name)
			continue
		}

		a.result.Directives = append(a.result.Directives, Directive{
			Kind:  KindType,
			Class: id,
			Field: name.Name,
			Param: param,
			Value: expr,
			Pos:   pos,
		})
	}
}

func (a *Analyzer) errorf(pos fmt.Stringer, format string, args ...any) {
	a.errs = append(a.errs, fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...)))
}

// directives returns the comments of g that start with prefix.
func directives(g *ast.CommentGroup, prefix string) []*ast.Comment {
	if g == nil {
		return nil
	}

	var out []*ast.Comment

	for _, c := range g.List {
		rest, ok := strings.CutPrefix(c.Text, prefix)
		if ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			out = append(out, c)
		}
	}

	return out
}

func fieldLabel(id TypeID, field *ast.Field) string {
	if len(field.Names) == 0 {
		return id.String() + "." + types.ExprString(field.Type)
	}

	return id.String() + "." + field.Names[0].Name
}
