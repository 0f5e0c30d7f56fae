package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/TFMV/cigraph/graph"
	"github.com/TFMV/cigraph/models"
	"github.com/TFMV/cigraph/style"
)

const otherGroup = "Other"

func inspectCmd(root *rootOptions) *cobra.Command {
	var (
		dataFile string
		company  string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarise a payload: nodes by type, skipped records, components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.load(cmd)
			if err != nil {
				return err
			}
			payload, source, err := loadPayload(firstNonEmpty(dataFile, cfg.DataFile), company)
			if err != nil {
				return err
			}

			el := graph.Build(payload)
			resolver := style.NewResolver(cfg.BuildTheme(), cfg.Anchor)
			printInspection(cmd.OutOrStdout(), source, el, resolver)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "Payload file (json, yaml or csv); defaults to data_file or the demo graph")
	cmd.Flags().StringVar(&company, "company", "", "Keep only edges whose source or target name contains this (case-insensitive)")
	return cmd
}

func printInspection(w io.Writer, source string, el *graph.Elements, resolver *style.Resolver) {
	degree := el.Degree()
	comps := el.Components()

	dangling := 0
	for _, e := range el.Edges {
		if !el.Drawable(e) {
			dangling++
		}
	}

	fmt.Fprintf(w, "%s %s\n\n", brand.Sprint("cigraph"), subtle.Sprint(source))
	stat := func(name string, n int) {
		fmt.Fprintf(w, "  %s  %d\n", brand.Sprintf("%-12s", name), n)
	}
	stat("Nodes", len(el.Nodes))
	stat("Edges", len(el.Edges))
	stat("Dangling", dangling)
	stat("Skipped", len(el.Skipped))
	stat("Components", len(comps))
	fmt.Fprintln(w)

	theme := resolver.Theme()
	groups := make(map[string][]models.RenderNode)
	for _, n := range el.Nodes {
		key := n.Label
		if _, known := theme.Palette(n.Label); !known {
			key = otherGroup
		}
		groups[key] = append(groups[key], n)
	}

	order := append(append([]string{}, models.Labels...), otherGroup)
	for _, label := range order {
		nodes := groups[label]
		if len(nodes) == 0 {
			continue
		}
		sort.SliceStable(nodes, func(i, j int) bool { return degree[nodes[i].ID] > degree[nodes[j].ID] })

		c := labelColor(label)
		fmt.Fprintf(w, "  %s %s\n", c.Sprint("●"), c.Sprintf("%s (%d)", label, len(nodes)))
		for _, n := range nodes {
			marker := ""
			if resolver.IsAnchor(n.Name) {
				marker = " " + brand.Sprint("[anchor]")
			}
			if label == otherGroup {
				marker += " " + subtle.Sprintf("label %q", n.Label)
			}
			fmt.Fprintf(w, "      %-28s %s%s\n", n.Name, subtle.Sprintf("degree %d", degree[n.ID]), marker)
		}
	}

	if len(el.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, warn.Sprint("  Skipped nodes"))
		for _, s := range el.Skipped {
			fmt.Fprintf(w, "      #%d %s %s\n", s.Index, s.Reason, subtle.Sprint(s.ID))
		}
	}
	if dangling > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, warn.Sprint("  Dangling edges (kept, not drawn)"))
		for _, e := range el.Edges {
			if !el.Drawable(e) {
				fmt.Fprintf(w, "      %s %s -[%s]-> %s\n", e.ID, e.Source, e.Relationship, e.Target)
			}
		}
	}
}
