// Package main provides the CLI entrypoint for json-mapper.
//
// json-mapper maps JSON documents to the classes of the example packages
// and inspects the type expressions that document their parameters:
//   - parse a type expression and print its canonical form
//   - resolve a type expression to a union descriptor
//   - map a JSON or YAML document to a class
//   - check a class graph for definition errors
//   - collect //jsonmap directives from Go packages into an annotation file
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"json-mapper/diagnostic"
)

// CLI is the command line grammar.
type CLI struct {
	Globals

	Parse       ParseCmd       `cmd:"" help:"Tokenize and parse a type expression."`
	Resolve     ResolveCmd     `cmd:"" help:"Resolve a type expression against the example registry."`
	Map         MapCmd         `cmd:"" help:"Map a JSON document to a class."`
	Check       CheckCmd       `cmd:"" help:"Report the definition errors of a class and of every class it reaches."`
	Annotations AnnotationsCmd `cmd:"" help:"Collect //jsonmap directives from Go packages."`
}

func main() {
	cli := &CLI{}
	cli.Stdout = os.Stdout
	cli.Stderr = os.Stderr

	ctx := kong.Parse(cli,
		kong.Name("json-mapper"),
		kong.Description("Map JSON documents to Go classes described by type expressions."),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli.Globals)

	var de *diagnostic.Error
	if errors.As(err, &de) {
		cli.printer().diagnostic(de)
		os.Exit(1)
	}

	ctx.FatalIfErrorf(err)
}

// run parses args and runs the selected command, for tests.
func run(args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	cli.Stdout = stdout
	cli.Stderr = stderr

	parser, err := kong.New(cli,
		kong.Name("json-mapper"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("build parser: %w", err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return ctx.Run(&cli.Globals)
}
