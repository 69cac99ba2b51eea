package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <model.yaml|dir>",
	Short: "Show which adapters apply to a variants model",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	model, err := loadModel(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	set, err := a.service.Resolve(model)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if set.Len() == 0 {
		fmt.Fprintln(out, "No adapters apply to this model.")
		return nil
	}
	for _, ad := range set.Adapters() {
		fmt.Fprintf(out, "%s\t%s\n", ad.ID(), a.registry.Name(ad))
	}
	return nil
}
