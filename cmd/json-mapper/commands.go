package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"json-mapper/internal/analyze"
	"json-mapper/internal/resolve"
	"json-mapper/internal/typeexpr"
	"json-mapper/introspect"
)

// ParseCmd prints the canonical form of a type expression.
type ParseCmd struct {
	Expr   string `arg:""                                  help:"Type expression, e.g. \"(int|string)[]|null\"."`
	Tokens bool   `help:"Print the tokens before the tree." short:"t"`
	Dump   bool   `help:"Dump the parsed tree."            short:"d"`
}

func (c *ParseCmd) Run(g *Globals) error {
	if c.Tokens {
		tokens, err := typeexpr.Tokenize(c.Expr)
		if err != nil {
			return err
		}

		for _, tok := range tokens {
			fmt.Fprintln(g.Stdout, tok)
		}
	}

	list, err := typeexpr.Parse(c.Expr)
	if err != nil {
		return err
	}

	if c.Dump {
		spew.Fdump(g.Stdout, list)
	}

	fmt.Fprintln(g.Stdout, list.String())

	return nil
}

// ResolveCmd resolves a type expression to a union descriptor.
type ResolveCmd struct {
	Expr  string `arg:""                                             help:"Type expression."`
	Scope string `default:"json-mapper/examples/shop" help:"Package path bare class names are relative to."`
	Dump  bool   `help:"Dump the union descriptor."                  short:"d"`
}

func (c *ResolveCmd) Run(g *Globals) error {
	cfg, err := g.config()
	if err != nil {
		return err
	}

	reg, err := g.registry()
	if err != nil {
		return err
	}

	r := resolve.New(reg, resolve.Flags{
		AllowUntypedArrays:  cfg.AllowUntypedArrays,
		AllowUntypedObjects: cfg.AllowUntypedObjects,
		AllowMixed:          cfg.AllowMixed,
	}, g.logger())

	u, err := r.Expr(c.Expr, c.Scope)
	if err != nil {
		return err
	}

	if c.Dump {
		spew.Fdump(g.Stdout, u.Atoms())
	}

	fmt.Fprintln(g.Stdout, u.String())

	return nil
}

// MapCmd maps a document to a class and prints the result.
type MapCmd struct {
	Target string `arg:""                                           help:"Target class, e.g. \"shop.Order\"."`
	File   string `arg:"" default:"-" help:"Input document, or - for stdin." optional:""`
	YAML   bool   `help:"Read the document as YAML."                name:"yaml"`
	Dump   bool   `help:"Dump the mapped object instead of printing JSON." short:"d"`
}

func (c *MapCmd) Run(g *Globals) error {
	m, err := g.mapper()
	if err != nil {
		return err
	}

	data, err := readInput(c.File)
	if err != nil {
		return err
	}

	mapFn := m.Map
	if c.YAML {
		mapFn = m.MapYAML
	}

	res, err := mapFn(data, c.Target)
	if err != nil {
		return err
	}

	if c.Dump {
		spew.Fdump(g.Stdout, res)
		return nil
	}

	out, err := json.Marshal(res, jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	fmt.Fprintln(g.Stdout, string(out))

	return nil
}

// CheckCmd reports every definition error reachable from a class.
type CheckCmd struct {
	Target string `arg:"" help:"Class to check."`
}

func (c *CheckCmd) Run(g *Globals) error {
	m, err := g.mapper()
	if err != nil {
		return err
	}

	diags := m.Check(c.Target)
	if !diags.HasErrors() {
		fmt.Fprintf(g.Stdout, "%s: no problems found\n", c.Target)
		return nil
	}

	p := g.printer()
	for _, e := range diags.Errors {
		p.diagnostic(e)
	}

	return fmt.Errorf("%s: %d problem(s) found", c.Target, len(diags.Errors))
}

// AnnotationsCmd collects directives into an annotation file.
type AnnotationsCmd struct {
	Patterns []string `arg:""                                         help:"Package patterns, e.g. ./examples/..."`
	Dir      string   `help:"Directory patterns are relative to."`
	Out      string   `help:"Output file. Defaults to stdout."       short:"o"`
}

func (c *AnnotationsCmd) Run(g *Globals) error {
	a := analyze.NewAnalyzer()
	a.Dir = c.Dir

	res, err := a.LoadPackages(c.Patterns...)
	if err != nil {
		return err
	}

	data, err := introspect.MarshalAnnotations(res.AnnotationFile())
	if err != nil {
		return err
	}

	if c.Out == "" {
		_, err = g.Stdout.Write(data)
		return err
	}

	return os.WriteFile(c.Out, data, 0o644)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path)
}
