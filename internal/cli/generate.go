package cli

import (
	"fmt"
	"strings"

	"github.com/agenthands/autoflow/internal/app"
	"github.com/agenthands/autoflow/internal/core"
	"github.com/spf13/cobra"
)

func newGenerateCmd(e *env) *cobra.Command {
	var (
		deploy   bool
		activate bool
	)

	cmd := &cobra.Command{
		Use:   "generate <request>",
		Short: "Generate an n8n workflow for an automation request",
		Long: `Generate analyses the request, builds a workflow graph and prints the
intent and workflow as JSON.

With --deploy the workflow is created on the n8n instance from the
configuration ([n8n] base_url and api_key, or N8N_URL and N8N_API_KEY).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			return e.withPipeline(cmd.Context(), func(a *app.App, p *core.Pipeline) error {
				out, err := p.Synthesize(cmd.Context(), text)
				if err != nil {
					return err
				}
				if !deploy {
					return writeJSON(cmd.OutOrStdout(), out)
				}

				if a.N8n == nil {
					return fmt.Errorf("no n8n instance configured")
				}
				d, err := core.Deploy(cmd.Context(), a.N8n, out.Workflow, activate, a.Logger)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), struct {
					*core.Synthesis
					Deployment *core.Deployment `json:"deployment"`
				}{out, d})
			})
		},
	}

	cmd.Flags().BoolVar(&deploy, "deploy", false, "Create the workflow on the configured n8n instance")
	cmd.Flags().BoolVar(&activate, "activate", false, "Activate the workflow after deploying it")
	return cmd
}
