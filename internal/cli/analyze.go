package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/agenthands/autoflow/internal/app"
	"github.com/agenthands/autoflow/internal/core"
	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(e *env) *cobra.Command {
	var modifyPath string

	cmd := &cobra.Command{
		Use:   "analyze <request>",
		Short: "Extract the intent of an automation request",
		Long: `Analyze prints the structured intent record for a request as JSON.

With --modify, the request is treated as a change to the intent record
stored in the given file, and the complete re-analysed record is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			var original *model.Intent
			if modifyPath != "" {
				data, err := os.ReadFile(modifyPath)
				if err != nil {
					return fmt.Errorf("failed to read intent file: %w", err)
				}
				original = &model.Intent{}
				if err := json.Unmarshal(data, original); err != nil {
					return fmt.Errorf("failed to decode intent file: %w", err)
				}
			}

			return e.withPipeline(cmd.Context(), func(a *app.App, p *core.Pipeline) error {
				var (
					in  *model.Intent
					err error
				)
				if original != nil {
					in, err = p.Modify(cmd.Context(), original, text)
				} else {
					in, err = p.Analyze(cmd.Context(), text)
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), in)
			})
		},
	}

	cmd.Flags().StringVar(&modifyPath, "modify", "", "Intent record file to modify instead of analysing from scratch")
	return cmd
}
