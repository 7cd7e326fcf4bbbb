package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/box-office/internal/utils"
)

func newHashPasswordCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <plain>",
		Short: "Print a bcrypt hash for OPERATOR_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			hash, err := utils.HashPassword(args[0], cfg.BcryptCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
