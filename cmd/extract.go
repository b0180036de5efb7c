package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/agentic-research/jsxprops/internal/gofixture"
	"github.com/agentic-research/jsxprops/internal/query"
	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		asGo    bool
		pkgName string
		varName string
	)

	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Extract the props of the first element in a JSX snippet",
		Example: `  jsxprops extract card.jsx
  echo '<div age={1} />' | jsxprops extract --select '$.age'
  jsxprops extract card.jsx --go --package testdata --var CardProps`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			src, err := readSource(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}

			el, err := a.extractor().ExtractElement(cmd.Context(), src)
			if err != nil {
				return fmt.Errorf("extract %s: %w", name, err)
			}
			a.logger.Debug("extracted", "element", el.Name, "props", el.Props.Len())

			out := cmd.OutOrStdout()
			if asGo {
				code, err := gofixture.Render(el.Props, gofixture.Options{Package: pkgName, Var: varName, Source: name})
				if err != nil {
					return err
				}
				_, err = out.Write(code)
				return err
			}

			if sel := a.cfg.Select; sel != "" {
				matches, err := query.Select(el.Props.Map(), sel)
				if err != nil {
					return err
				}
				return writeJSON(out, matches)
			}
			return writeJSON(out, el.Props)
		},
	}

	cmd.Flags().String("select", "", "JSONPath applied to the extracted props")
	cmd.Flags().BoolVar(&asGo, "go", false, "print a gofumpt-formatted Go fixture instead of JSON")
	cmd.Flags().StringVar(&pkgName, "package", "fixtures", "package name for --go")
	cmd.Flags().StringVar(&varName, "var", "Props", "variable name for --go")
	return cmd
}

func readSource(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return src, nil
	}
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return src, nil
}

// writeJSON writes v indented, followed by a newline.
func writeJSON(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}
