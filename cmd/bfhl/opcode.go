package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	bfhl "github.com/goliatone/go-bfhl"
)

func newOpcodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "opcode",
		Short: "Fetch and print the endpoint's operation code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ctrl, err := bfhl.NewController(c)
			if err != nil {
				return err
			}
			notice := ctrl.FetchOperationCode(cmd.Context())
			if notice.Failed {
				return errors.New(notice.Message)
			}
			_, err = fmt.Fprintln(a.out, notice.Message)
			return err
		},
	}
}
