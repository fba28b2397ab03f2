package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/autodev/autodev/internal/api"
	"github.com/autodev/autodev/internal/deploy"
	"github.com/autodev/autodev/internal/ui"
	uiCommands "github.com/autodev/autodev/internal/ui/commands"
	"github.com/autodev/autodev/pkg/bugsnag"
	"github.com/autodev/autodev/pkg/config"
	"github.com/autodev/autodev/pkg/projectconfig"
)

// NewDeployCmd creates a deploy command
func NewDeployCmd() *cobra.Command {
	var opts deployOptions

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Open the deployment dashboard",
		Long: `Open the deployment control panel.

The dashboard submits the repository to the deployment engine, polls the job
status every second and shows its logs as they arrive. Press enter to deploy,
ctrl+s to stop the running job and ctrl+c to quit.

Inputs are prefilled from flags, then from autodev.toml, and the token from
the environment variable named by token_env (GITHUB_TOKEN by default).

When output is not a terminal (or with --no-color) the deploy starts
immediately, log lines are printed as they appear and the command exits once
the job finishes. The exit code is non-zero unless the job ends in SUCCESS or
STOPPED.

Example:
  autodev deploy
  autodev deploy --repo https://github.com/acme/app --yes
  autodev deploy --config-file ./services/api/autodev.toml
  autodev deploy --no-color | tee deploy.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configFileSet = cmd.Flags().Changed("config-file")
			return runDeploy(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.repoURL, "repo", "", "Repository URL to deploy. Overrides the value in the TOML file if provided.")
	cmd.Flags().StringVar(&opts.token, "token", "", "GitHub token passed to the engine. Defaults to the variable named by token_env.")
	cmd.Flags().StringVar(&opts.configFile, "config-file", "./"+projectconfig.DefaultFileName, "Path to the autodev project file")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", 0, "Time between status polls (default from config, 1s)")
	cmd.Flags().BoolVarP(&opts.autoDeploy, "yes", "y", false, "Deploy as soon as the dashboard opens")

	return cmd
}

type deployOptions struct {
	repoURL       string
	token         string
	configFile    string
	configFileSet bool
	pollInterval  time.Duration
	autoDeploy    bool
}

// deployInputs are the resolved dashboard inputs.
type deployInputs struct {
	repoURL      string
	token        string
	pollInterval time.Duration
}

// resolveDeployInputs merges flags, the project file and the user config.
func resolveDeployInputs(opts deployOptions, project *projectconfig.ProjectConfig, cfg *config.Config) deployInputs {
	in := deployInputs{
		repoURL:      opts.repoURL,
		token:        opts.token,
		pollInterval: opts.pollInterval,
	}

	if project != nil {
		if in.repoURL == "" {
			in.repoURL = project.Deployment.RepoURL
		}
		if in.token == "" {
			in.token = project.Token()
		}
		if in.pollInterval <= 0 {
			in.pollInterval = project.PollInterval()
		}
	}

	if in.token == "" {
		in.token = os.Getenv(projectconfig.DefaultTokenEnv)
	}
	if in.pollInterval <= 0 {
		in.pollInterval = cfg.GetPollInterval()
	}

	in.repoURL = strings.TrimSpace(in.repoURL)
	return in
}

// loadProjectFile reads the project file. A missing file is only an error
// when the user named it explicitly.
func loadProjectFile(path string, explicit bool) (*projectconfig.ProjectConfig, error) {
	project, err := projectconfig.Load(path)
	if err == nil {
		return project, nil
	}
	if errors.Is(err, projectconfig.ErrNotFound) && !explicit {
		return nil, nil
	}
	return nil, err
}

func runDeploy(cmd *cobra.Command, opts deployOptions) error {
	cmd.SilenceUsage = true

	// Get display options from context (loaded once in root command)
	displayOpts, err := ui.GetDisplayConfigFromContext(cmd)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to get display options: %w", err))
	}

	// Get config from context (loaded once in root command)
	cfg, err := config.GetConfigFromContext(cmd)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to get config: %w", err))
	}

	if opts.pollInterval < 0 {
		return ui.NewValidationError(fmt.Errorf("--poll-interval must be positive"))
	}

	project, err := loadProjectFile(opts.configFile, opts.configFileSet)
	if err != nil {
		return ui.NewValidationError(err)
	}

	inputs := resolveDeployInputs(opts, project, cfg)

	client, err := api.NewClient(cfg)
	if err != nil {
		return ui.NewConfigurationError(fmt.Errorf("failed to create API client: %w", err))
	}

	model := uiCommands.NewDashboardView(cmd.Context(), uiCommands.DashboardConfig{
		DisplayConfig: displayOpts,
		Client:        client,
		RepoURL:       inputs.repoURL,
		Token:         inputs.token,
		PollInterval:  inputs.pollInterval,
		AutoDeploy:    opts.autoDeploy,
		ErrorReporter: bugsnag.ReportDeployFailure,
		Out:           cmd.OutOrStdout(),
	})

	finalModel, err := runProgram(model, displayOpts, tea.WithAltScreen())
	if err != nil {
		return err
	}

	m, ok := finalModel.(*uiCommands.DashboardView)
	if !ok {
		return ui.NewInternalError(fmt.Errorf("unexpected model type"))
	}

	if err := m.Error(); err != nil {
		if uiErr, ok := ui.AsUIError(err); ok && uiErr.Type == ui.ErrorTypeDeployFailed {
			if status := m.State().Status; status != deploy.StatusIdle {
				bugsnag.ReportDeployStatus(cmd.Context(), status)
			}
		}
		return err
	}

	return nil
}

// runProgram runs model with the renderer and input matching displayOpts.
// interactiveOpts only apply when a terminal UI is shown.
func runProgram(model tea.Model, displayOpts ui.DisplayConfig, interactiveOpts ...tea.ProgramOption) (tea.Model, error) {
	var programOpts []tea.ProgramOption

	if displayOpts.SimpleOutput() {
		// Non-TTY mode or animation disabled: disable renderer and input
		programOpts = append(programOpts,
			tea.WithoutRenderer(),
			tea.WithInput(nil),
		)
	} else {
		programOpts = append(programOpts, interactiveOpts...)
	}

	p := tea.NewProgram(model, programOpts...)

	// Set up signal handling for graceful cancellation
	// This works for both TTY and non-TTY modes
	doneCh := ui.SetupSignalHandling(p, 5*time.Second)
	defer close(doneCh)

	finalModel, err := p.Run()
	if err != nil {
		return nil, ui.NewInternalError(fmt.Errorf("internal error: %w", err))
	}
	return finalModel, nil
}
