package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/autodev/autodev/internal/api"
	"github.com/autodev/autodev/internal/timeutil"
	"github.com/autodev/autodev/internal/ui"
	uiCommands "github.com/autodev/autodev/internal/ui/commands"
	"github.com/autodev/autodev/internal/ui/logging"
	"github.com/autodev/autodev/pkg/config"
)

type statusOptions struct {
	outputFormat string
	filter       string
	ignoreCase   bool
	since        string
}

// NewStatusCmd creates a status command
func NewStatusCmd() *cobra.Command {
	var opts statusOptions

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status and logs of the current job",
		Long: `Fetch the job status once and print it with the job's log.

--filter keeps only log lines matching a glob ('*', '?', '[abc]', '{a,b}').
A filter without glob characters matches lines containing it.
--since keeps only lines stamped at or after the given time.

Example:
  autodev status
  autodev status --output json          # Output as JSON for automation
  autodev status --filter '*🚨*'          # Only error lines
  autodev status --filter build -i      # Lines mentioning build, any case
  autodev status --since 5m             # Lines from the last five minutes
  autodev status --since 14:30:00       # Lines since a clock time`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputFormat, "output", "o", "table", "Output format: table, json")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Only show log lines matching this glob")
	cmd.Flags().BoolVarP(&opts.ignoreCase, "ignore-case", "i", false, "Match --filter case-insensitively")
	cmd.Flags().StringVar(&opts.since, "since", "", "Only show log lines stamped at or after this time (e.g. 5m, 1h, 14:30:00)")

	return cmd
}

func runStatus(cmd *cobra.Command, opts statusOptions) error {
	cmd.SilenceUsage = true

	if opts.outputFormat != "table" && opts.outputFormat != "json" {
		return ui.NewValidationError(fmt.Errorf("invalid output format: %s (supported: table, json)", opts.outputFormat))
	}

	var filter *logging.Filter
	if opts.filter != "" {
		f, err := logging.NewFilter(opts.filter, opts.ignoreCase)
		if err != nil {
			return ui.NewValidationError(err)
		}
		filter = f
	}

	var since time.Time
	if opts.since != "" {
		t, err := timeutil.ParseSince(opts.since, time.Now())
		if err != nil {
			return ui.NewValidationError(err)
		}
		since = t
	}

	cfg, err := config.GetConfigFromContext(cmd)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to get config: %w", err))
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return ui.NewConfigurationError(fmt.Errorf("failed to create API client: %w", err))
	}

	if opts.outputFormat == "json" {
		return runStatusJSON(cmd, client, cfg.GetAPIURL(), filter, since)
	}

	displayOpts, err := ui.GetDisplayConfigFromContext(cmd)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to get display options: %w", err))
	}

	model := uiCommands.NewStatusView(cmd.Context(), uiCommands.StatusConfig{
		DisplayConfig: displayOpts,
		Client:        client,
		Filter:        filter,
		Since:         since,
		Out:           cmd.OutOrStdout(),
	})

	finalModel, err := runProgram(model, displayOpts)
	if err != nil {
		return err
	}

	m, ok := finalModel.(*uiCommands.StatusView)
	if !ok {
		return ui.NewInternalError(fmt.Errorf("unexpected model type"))
	}

	if uiErr := m.GetError(); uiErr != nil {
		return uiErr
	}

	return nil
}

// JSONStatusOutput is the --output json document
type JSONStatusOutput struct {
	Timestamp time.Time `json:"timestamp"`
	APIURL    string    `json:"api_url"`
	Status    string    `json:"status"`
	RunID     string    `json:"run_id,omitempty"`
	Logs      []string  `json:"logs"`
	Filter    string    `json:"filter,omitempty"`
	Since     string    `json:"since,omitempty"`
}

func runStatusJSON(cmd *cobra.Command, client api.Client, apiURL string, filter *logging.Filter, since time.Time) error {
	status, err := client.GetStatus(cmd.Context())
	if err != nil {
		return ui.NewAPIError(fmt.Errorf("failed to fetch status: %w", err))
	}

	output := JSONStatusOutput{
		Timestamp: time.Now().UTC(),
		APIURL:    apiURL,
		Status:    status.Status,
		RunID:     status.RunID,
		Logs:      status.Logs,
	}
	if !since.IsZero() {
		output.Logs = logging.Since(output.Logs, since, time.Now())
		output.Since = since.Format(time.RFC3339)
	}
	if filter != nil {
		output.Logs = filter.Apply(output.Logs)
		output.Filter = filter.Pattern()
	}
	if output.Logs == nil {
		output.Logs = []string{}
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return ui.NewInternalError(fmt.Errorf("failed to marshal JSON: %w", err))
	}

	//nolint:errcheck // Writing to stdout, error not actionable
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}
