package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"notemind/markdown"
	"notemind/models"
)

func newExtractCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract the markdown from pasted text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			md := markdown.Extract(text)
			if jsonOut {
				return writeJSON(cmd, models.ExtractResponse{Markdown: md, Success: true})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), md)
			return err
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output machine-readable JSON")
	return cmd
}

func newSectionsCommand() *cobra.Command {
	var (
		jsonOut bool
		extract bool
	)

	cmd := &cobra.Command{
		Use:   "sections [file]",
		Short: "Split markdown into sections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if extract {
				text = markdown.Extract(text)
			}
			sections := markdown.Sectionize(text)
			if jsonOut {
				return writeJSON(cmd, sections)
			}

			if len(sections) == 0 {
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), markdown.ToMarkdown(sections))
			return err
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output machine-readable JSON")
	cmd.Flags().BoolVar(&extract, "extract", false, "Run extraction before splitting")
	return cmd
}
