package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nihei9/srng/automaton"
	serr "github.com/nihei9/srng/error"
	"github.com/nihei9/srng/pattern"
	"github.com/nihei9/srng/schema"
	"github.com/nihei9/srng/spec"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	srng *string
	out  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a simple-syntax schema into validation tables",
		Example: `  srng compile --srng=schema.srng --out=schema.json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				fmt.Fprint(os.Stderr, cmd.UsageString())
				return fmt.Errorf("unexpected arguments: %v", strings.Join(args, " "))
			}
			return nil
		},
		RunE: runCompile,
	}
	compileFlags.srng = cmd.Flags().String("srng", "", "input schema path (simple syntax)")
	compileFlags.out = cmd.Flags().String("out", "", "output table path (JSON)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	if *compileFlags.srng == "" || *compileFlags.out == "" {
		fmt.Fprint(os.Stderr, cmd.UsageString())
		return fmt.Errorf("--srng and --out are required")
	}

	cs, err := compileSchema(*compileFlags.srng)
	if err != nil {
		return err
	}

	// The artifact is fully marshaled before the output file is touched
	// so that a failed compile never leaves partial output behind.
	b, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	err = os.WriteFile(*compileFlags.out, append(b, '\n'), 0644)
	if err != nil {
		return serr.Wrap(serr.KindIOError, err, "cannot write the output file %v", *compileFlags.out)
	}

	return nil
}

func compileSchema(path string) (*spec.CompiledSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, serr.Wrap(serr.KindIOError, err, "cannot open the schema file %v", path)
	}
	defer f.Close()

	ctx := pattern.NewContext()
	defs, err := schema.NewLoader(ctx).Load(f)
	if err != nil {
		return nil, err
	}
	return automaton.NewBuilder(ctx, defs).Build()
}
