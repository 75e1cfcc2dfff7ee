package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"json-mapper/diagnostic"
	"json-mapper/examples/music"
	"json-mapper/examples/shop"
	"json-mapper/introspect"
	"json-mapper/mapper"
	"json-mapper/options"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config         string `help:"Mapper configuration file (YAML)."            short:"c" type:"existingfile"`
	AnnotationFile string `help:"Annotation file applied to the registry."     name:"annotations" short:"a" type:"existingfile"`
	Verbose        bool   `help:"Log debug records to stderr."                 short:"v"`
	Color          string `help:"Colorize diagnostics (auto, always, never)." default:"auto" enum:"auto,always,never"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

func (g *Globals) logger() *slog.Logger {
	if !g.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (g *Globals) config() (options.Config, error) {
	if g.Config == "" {
		return options.Default(), nil
	}

	return options.LoadFile(g.Config)
}

// registry returns the example classes, with the annotation file applied.
func (g *Globals) registry() (*introspect.Registry, error) {
	reg := introspect.NewRegistry()

	if err := music.Register(reg); err != nil {
		return nil, err
	}

	if err := shop.Register(reg); err != nil {
		return nil, err
	}

	if g.AnnotationFile != "" {
		af, err := introspect.LoadAnnotations(g.AnnotationFile)
		if err != nil {
			return nil, err
		}

		if err := reg.Apply(af); err != nil {
			return nil, fmt.Errorf("apply %s: %w", g.AnnotationFile, err)
		}
	}

	return reg, nil
}

func (g *Globals) mapper() (*mapper.Mapper, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}

	reg, err := g.registry()
	if err != nil {
		return nil, err
	}

	return mapper.New(reg, mapper.WithConfig(cfg), mapper.WithLogger(g.logger()))
}

func (g *Globals) printer() *printer {
	color := g.Color == "always"

	if g.Color == "auto" {
		if f, ok := g.Stderr.(*os.File); ok {
			color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}

	return &printer{w: g.Stderr, color: color}
}

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiDim   = "\x1b[2m"
)

// printer writes diagnostics, primary line first and hints indented.
type printer struct {
	w     io.Writer
	color bool
}

func (p *printer) paint(style, s string) string {
	if !p.color {
		return s
	}

	return style + s + ansiReset
}

func (p *printer) diagnostic(e *diagnostic.Error) {
	head := p.paint(ansiBold+ansiRed, "error["+e.Kind.String()+"]")

	// multi-line messages list candidate failures
	lines := strings.Split(e.Message, "\n")
	fmt.Fprintf(p.w, "%s: %s\n", head, lines[0])

	for _, l := range lines[1:] {
		fmt.Fprintf(p.w, "  %s\n", l)
	}

	if e.Path != "" {
		fmt.Fprintf(p.w, "  %s %s\n", p.paint(ansiDim, "at"), e.Path)
	}

	for _, h := range e.Hints {
		fmt.Fprintf(p.w, "  %s %s\n", p.paint(ansiDim, "hint:"), h)
	}
}
