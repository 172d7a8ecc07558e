package main

import (
	"github.com/spf13/cobra"

	bfhl "github.com/goliatone/go-bfhl"
	"github.com/goliatone/go-bfhl/pkg/controller"
	"github.com/goliatone/go-bfhl/pkg/renderers/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the form in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ctrl, err := bfhl.NewController(c, controller.WithLogger(a.logger))
			if err != nil {
				return err
			}
			session, err := tui.NewSession(ctrl,
				tui.WithPromptDriver(tui.NewSurveyDriver(a.out)),
				tui.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			return session.Run(cmd.Context())
		},
	}
}
