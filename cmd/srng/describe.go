package main

import (
	"encoding/json"
	"fmt"
	"os"

	serr "github.com/nihei9/srng/error"
	"github.com/nihei9/srng/spec"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print a compiled table in readable format",
		Example: `  srng describe schema.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cs, err := readCompiledSchema(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "# Name Map")
	fmt.Fprintln(os.Stdout, "")
	nameTab := tablewriter.NewWriter(os.Stdout)
	nameTab.SetHeader([]string{"Namespace", "Local Name", "Start State"})
	for _, ns := range sortedKeys(cs.NameMap) {
		byLocal := cs.NameMap[ns]
		for _, local := range sortedKeys(byLocal) {
			nameTab.Append([]string{ns, local, byLocal[local].String()})
		}
	}
	nameTab.Render()

	fmt.Fprintln(os.Stdout, "")
	fmt.Fprintln(os.Stdout, "# States")
	fmt.Fprintln(os.Stdout, "")
	stateTab := tablewriter.NewWriter(os.Stdout)
	stateTab.SetHeader([]string{"State", "Nullable", "On Attribute", "On Child State"})
	for id, st := range cs.States {
		if st == nil {
			continue
		}
		stateTab.Append([]string{
			fmt.Sprintf("%v", id),
			fmt.Sprintf("%v", st.IsNullable),
			formatTransitions(st.Attributes),
			formatTransitions(st.ChildElems),
		})
	}
	stateTab.Render()

	return nil
}

func readCompiledSchema(path string) (*spec.CompiledSchema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, serr.Wrap(serr.KindIOError, err, "cannot read the compiled table %v", path)
	}
	cs := &spec.CompiledSchema{}
	err = json.Unmarshal(b, cs)
	if err != nil {
		return nil, serr.Wrap(serr.KindIOError, err, "cannot decode the compiled table %v", path)
	}
	return cs, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func formatTransitions(m map[string]spec.StateID) string {
	if len(m) == 0 {
		return "-"
	}
	var s string
	for i, key := range sortedKeys(m) {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%v -> %v", key, m[key])
	}
	return s
}
