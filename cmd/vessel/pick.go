package main

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/evantbyrne/vessel/selectbox"
	"github.com/evantbyrne/vessel/selectbox/tui"
	"github.com/spf13/cobra"
)

func newPickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick value[=label]...",
		Short: "Choose one of the given values in a terminal select box",
		Args:  cobra.MinimumNArgs(1),
		// pick needs no config or database
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			final, err := tea.NewProgram(tui.New(parseOptions(args)), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			model, ok := final.(tui.Model)
			if !ok {
				return errors.New("unexpected model")
			}
			fmt.Fprintln(cmd.OutOrStdout(), model.Box.Selected())
			return nil
		},
	}
}

func parseOptions(args []string) []selectbox.Option {
	options := make([]selectbox.Option, 0, len(args))
	for _, arg := range args {
		value, label, ok := strings.Cut(arg, "=")
		if !ok {
			label = value
		}
		options = append(options, selectbox.Option{Value: value, Label: label})
	}
	return options
}
