package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"roadmap_backend/internal/tui"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newStudyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "study [topic]",
		Short: "Open the interactive roadmap and study view",
		Long: `Opens the full-screen view. With a topic the roadmap is requested
immediately; otherwise the landing screen asks for one.`,
		RunE: c.runStudy,
	}
}

func (c *cli) runStudy(cmd *cobra.Command, args []string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		c.logger.Warn("Falling back to plain markdown", zap.Error(err))
		renderer = nil
	}

	return tui.Run(c.api, c.store, tui.Options{
		InitialTopic: strings.Join(args, " "),
		Renderer:     renderer,
		Logger:       c.logger,
	})
}

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newGenerateCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Print a roadmap as JSON or YAML",
		Long: `Requests one roadmap and prints it. JSON output is the server's
document, indented; YAML output is the decoded roadmap.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatYAML {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatJSON, formatYAML)
			}

			rm, err := c.api.Fetch(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == formatYAML {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(rm.Document); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
				return enc.Close()
			}

			var buf bytes.Buffer
			if err := json.Indent(&buf, rm.Raw, "", "  "); err != nil {
				return fmt.Errorf("indent json: %w", err)
			}
			buf.WriteByte('\n')
			_, err = buf.WriteTo(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or yaml")
	return cmd
}
