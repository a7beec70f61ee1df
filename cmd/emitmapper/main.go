// Package main provides the CLI entrypoint for emitmapper.
//
// emitmapper is a small companion tool for the runtime mapper:
//   - check validates a field descriptor file against the known entity types
//   - demo maps a sample entity to a table and back and prints both
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/antonsamarsky/emitmapper-tools/domain"
	"github.com/antonsamarsky/emitmapper-tools/mapper"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/options"
	"github.com/antonsamarsky/emitmapper-tools/table"
)

const usage = `emitmapper - runtime object mapping tools

Usage:
  emitmapper check [-v] <descriptors.yaml>
  emitmapper demo [-v] [descriptors.yaml]
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	switch args[0] {
	case "check":
		return check(args[1:], stdout, stderr)
	case "demo":
		return demo(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

type common struct {
	verbose bool
	logger  *zap.Logger
}

func parse(name string, args []string, stderr io.Writer) (*common, *flag.FlagSet, error) {
	c := &common{logger: zap.NewNop()}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&c.verbose, "v", false, "verbose output")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if c.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, nil, err
		}

		c.logger = logger
	}

	return c, fs, nil
}

// registry returns a registry that knows the entity types, loaded with the
// descriptor file at path when one is given.
func (c *common) registry(path string) (*mapping.Registry, error) {
	reg := mapping.NewRegistry(options.WithLogger(c.logger))
	if err := reg.RegisterType(reflect.TypeFor[domain.Entity]()); err != nil {
		return nil, err
	}

	if path == "" {
		return reg, nil
	}

	return reg, reg.LoadFile(path)
}

func check(args []string, stdout, stderr io.Writer) int {
	c, fs, err := parse("check", args, stderr)
	if err != nil {
		return 2
	}
	defer func() { _ = c.logger.Sync() }()

	if fs.NArg() != 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	f, err := mapping.LoadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, "load descriptors:", err)
		return 1
	}

	reg, err := c.registry("")
	if err != nil {
		fmt.Fprintln(stderr, "register types:", err)
		return 1
	}

	diags := reg.Validate(f)
	for _, d := range diags.All() {
		fmt.Fprintf(stdout, "%s: %s\n", d.Severity, d)
	}

	if diags.HasErrors() {
		return 1
	}

	if c.verbose {
		if err := reg.Load(f); err != nil {
			fmt.Fprintln(stderr, "load descriptors:", err)
			return 1
		}

		for _, entry := range f.Types {
			t, _ := reg.TypeByName(entry.Type)

			descs, err := reg.Describe(t)
			if err != nil {
				fmt.Fprintln(stderr, "describe:", err)
				return 1
			}

			fmt.Fprintf(stdout, "%s:\n%s", entry.Type, spew.Sdump(descs))
		}
	}

	fmt.Fprintln(stdout, "ok")

	return 0
}

func demo(args []string, stdout, stderr io.Writer) int {
	c, fs, err := parse("demo", args, stderr)
	if err != nil {
		return 2
	}
	defer func() { _ = c.logger.Sync() }()

	reg, err := c.registry(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, "load descriptors:", err)
		return 1
	}

	core := mapper.New(options.WithLogger(c.logger))
	entity := domain.Entity{
		ID:     uuid.New(),
		Name:   "Order 1",
		Number: 134567,
		Price:  100.5,
	}

	tbl, err := mapper.MapWith[domain.Entity, table.Table](core, domain.EntityToTable{Descriptors: reg}, entity)
	if err != nil {
		fmt.Fprintln(stderr, "entity to table:", err)
		return 1
	}

	for _, key := range tbl.Keys() {
		v, _ := tbl.Get(key)
		fmt.Fprintf(stdout, "%-16s %-8s %s\n", key, v.Kind(), v)
	}

	back, err := mapper.MapWith[table.Table, domain.Entity](core, domain.TableToEntity{Descriptors: reg}, tbl)
	if err != nil {
		fmt.Fprintln(stderr, "table to entity:", err)
		return 1
	}

	if c.verbose {
		spew.Fdump(stdout, back)
	} else {
		fmt.Fprintf(stdout, "%+v\n", back)
	}

	return 0
}
