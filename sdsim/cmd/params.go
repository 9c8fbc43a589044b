package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/stockflow/mind"
)

func newParamsCmd() *cobra.Command {
	var path string

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "Print the model parameters as YAML.",
		Long: "Print the default model parameters, or the parameters of " +
			"a file merged over the defaults.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := mind.DefaultParameters()

			if path != "" {
				var err error

				p, err = mind.LoadParameters(path)
				if err != nil {
					return err
				}
			}

			data, err := p.YAML()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	paramsCmd.Flags().StringVar(&path, "params", "",
		"YAML file with model parameters")

	return paramsCmd
}
