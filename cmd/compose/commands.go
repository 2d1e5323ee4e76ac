package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-compose/pkg/compose"
	"github.com/benjaminschreck/go-compose/pkg/compose/plan"
)

func newRenderCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <plan>",
		Short: "Render a content plan to a DOCX file",
		Long: `Render reads a YAML or TOML content plan and writes the document.
The output defaults to the plan path with a .docx extension. Nothing is
written when the plan fails to compose.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planPath := args[0]
			if output == "" {
				output = strings.TrimSuffix(planPath, filepath.Ext(planPath)) + ".docx"
			}

			p, err := plan.Load(planPath)
			if err != nil {
				return err
			}
			if err := compose.RenderFile(p, output, compose.WithConfig(a.config)); err != nil {
				return err
			}

			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s (%d blocks)", output, len(p.Blocks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output DOCX path")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var showTables bool

	cmd := &cobra.Command{
		Use:   "inspect <docx>",
		Short: "Print the block outline of a DOCX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := compose.ReadOutlineFile(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if err := pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(outlineTable(nodes)).Render(); err != nil {
				return err
			}
			if !showTables {
				return nil
			}
			for i, n := range nodes {
				if n.Kind != compose.NodeTable || len(n.Cells) == 0 {
					continue
				}
				fmt.Fprintf(w, "\nTable at block %d\n", i)
				if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithWriter(w).WithData(n.Cells).Render(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showTables, "tables", "t", false, "also print the cells of each table")
	return cmd
}

// outlineTable lays out one row per block, header first.
func outlineTable(nodes []compose.OutlineNode) pterm.TableData {
	data := pterm.TableData{{"#", "Kind", "Style", "Level", "Text"}}
	for i, n := range nodes {
		level := ""
		if n.Kind == compose.NodeHeading || n.Kind == compose.NodeListItem {
			level = strconv.Itoa(n.Level)
		}
		data = append(data, []string{strconv.Itoa(i), string(n.Kind), n.Style, level, summary(n)})
	}
	return data
}

// summaryWidth is the widest text cell of the inspect table, in runes.
const summaryWidth = 60

func summary(n compose.OutlineNode) string {
	switch n.Kind {
	case compose.NodeTable:
		cols := 0
		if len(n.Cells) > 0 {
			cols = len(n.Cells[0])
		}
		return fmt.Sprintf("%d x %d", len(n.Cells), cols)
	case compose.NodeRule:
		return n.BorderColor
	}
	text := strings.ReplaceAll(n.Text, "\n", " / ")
	if runes := []rune(text); len(runes) > summaryWidth {
		text = string(runes[:summaryWidth-3]) + "..."
	}
	return text
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "compose version %s\n", compose.Version)
		},
	}
}
