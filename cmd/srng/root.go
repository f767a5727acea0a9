package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "srng",
	Short: "Compile a RELAX NG simple-syntax schema into validation tables",
	Long: `srng compiles a schema written in the RELAX NG simple syntax into a pair
of lookup tables that drive a fast, approximate validator: a name map
from qualified element names to start states, and a per-state table of
attribute and child-element transitions.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
