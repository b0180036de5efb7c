package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCallCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "call <file|-> <prop> [args...]",
		Short: "Extract a function prop and call it",
		Long: `call rebuilds the named function prop and invokes it. Each argument is
decoded as JSON when it parses (1, true, {"a":1}) and passed as a string
otherwise. The return value is printed as JSON; console output from the
function goes to the log.`,
		Example: `  jsxprops call button.jsx onClick null 1`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			el, err := a.extractor().ExtractElement(cmd.Context(), src)
			if err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}

			name := args[1]
			fn, ok := el.Props.Function(name)
			if !ok {
				if _, exists := el.Props.Get(name); exists {
					return fmt.Errorf("prop %s is not a function", name)
				}
				return fmt.Errorf("no prop %s on <%s>", name, el.Name)
			}

			callArgs := make([]any, len(args)-2)
			for i, raw := range args[2:] {
				callArgs[i] = decodeArg(raw)
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			result, err := fn.CallContext(ctx, callArgs...)
			if err != nil {
				return fmt.Errorf("call %s: %w", name, err)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "abort the call after this long (0 disables)")
	return cmd
}

func decodeArg(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
