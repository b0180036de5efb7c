package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/agentic-research/jsxprops/api"
	"github.com/agentic-research/jsxprops/internal/query"
	"github.com/agentic-research/jsxprops/internal/store"
	"github.com/spf13/cobra"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		prop  string
		stats bool
	)

	cmd := &cobra.Command{
		Use:   "query [db]",
		Short: "Stream records from a database built with `jsxprops build`",
		Long: `query prints one JSON object per record. --prop restricts the output to
records carrying that prop (answered from the prop index), --select applies
a JSONPath to each record's props.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := a.cfg.DB
			if len(args) == 1 {
				dbPath = args[0]
			}

			r, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }() // safe to ignore

			out := cmd.OutOrStdout()
			if stats {
				return printStats(cmd, r, out)
			}

			var sel *query.Selector
			if a.cfg.Select != "" {
				if sel, err = query.Compile(a.cfg.Select); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(out)
			emit := func(rec *api.Record) error {
				line := map[string]any{"id": rec.ID}
				if rec.Element != "" {
					line["element"] = rec.Element
				}
				if !rec.OK() {
					line["error"] = rec.Error
					return enc.Encode(line)
				}
				if sel == nil {
					line["props"] = rec.Props
					return enc.Encode(line)
				}
				decoded, err := rec.Decode()
				if err != nil {
					return fmt.Errorf("decode %s: %w", rec.ID, err)
				}
				line["value"] = sel.Get(decoded)
				return enc.Encode(line)
			}

			if prop != "" {
				return r.StreamProp(cmd.Context(), prop, emit)
			}
			return r.Stream(cmd.Context(), emit)
		},
	}

	cmd.Flags().StringVar(&prop, "prop", "", "only records carrying this prop")
	cmd.Flags().String("select", "", "JSONPath applied to each record's props")
	cmd.Flags().BoolVar(&stats, "stats", false, "print prop names with record counts instead of records")
	return cmd
}

func printStats(cmd *cobra.Command, r *store.Reader, out io.Writer) error {
	counts, err := r.Props(cmd.Context())
	if err != nil {
		return err
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		fmt.Fprintf(out, "%d\t%s\n", counts[name], name)
	}
	return nil
}
