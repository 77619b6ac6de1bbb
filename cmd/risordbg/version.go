package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newVersionCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			if strings.ToLower(format) != "json" {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}
			output, err := getOutputJSON(map[string]any{
				"version": version,
				"commit":  commit,
				"date":    date,
			}, v.GetBool("no-color"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "output format (json, text)")
	return cmd
}
