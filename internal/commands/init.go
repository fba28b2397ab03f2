package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/autodev/autodev/internal/ui"
	"github.com/autodev/autodev/pkg/projectconfig"
)

const projectFileHeader = `# autodev project file
# The GitHub token is read from the environment variable named by token_env.
# Run "autodev deploy" in this directory to open the dashboard.

`

type initOptions struct {
	dir          string
	repoURL      string
	tokenEnv     string
	pollInterval string
	force        bool
}

// NewInitCmd creates a new init command
func NewInitCmd() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an autodev.toml project file",
		Long: `Create an autodev.toml project file with the repository to deploy.

The file stores the repository URL and the name of the environment variable
holding the GitHub token. The token itself is never written to disk.

Example:
  autodev init --repo https://github.com/acme/app
  autodev init --repo https://github.com/acme/app --token-env ACME_TOKEN
  autodev init --dir ./services/api --poll-interval 500ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", ".", "Directory to write the project file to")
	cmd.Flags().StringVar(&opts.repoURL, "repo", "", "Repository URL to deploy")
	cmd.Flags().StringVar(&opts.tokenEnv, "token-env", projectconfig.DefaultTokenEnv, "Environment variable holding the GitHub token")
	cmd.Flags().StringVar(&opts.pollInterval, "poll-interval", "", "Poll interval for this project, e.g. 500ms")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing project file")

	return cmd
}

// validateInitDir rejects directories the project file cannot be written to.
func validateInitDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("directory cannot be empty")
	}
	if strings.Contains(dir, "\x00") {
		return fmt.Errorf("directory cannot contain null bytes")
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func runInit(cmd *cobra.Command, opts initOptions) error {
	cmd.SilenceUsage = true

	if err := validateInitDir(opts.dir); err != nil {
		return ui.NewValidationError(err)
	}

	project := projectconfig.ProjectConfig{
		Deployment: projectconfig.DeploymentConfig{
			RepoURL:  strings.TrimSpace(opts.repoURL),
			TokenEnv: opts.tokenEnv,
		},
		Polling: projectconfig.PollingConfig{
			Interval: opts.pollInterval,
		},
	}
	if err := projectconfig.Validate(&project); err != nil {
		return ui.NewValidationError(err)
	}

	path := filepath.Join(opts.dir, projectconfig.DefaultFileName)

	if _, err := os.Stat(path); err == nil && !opts.force {
		return ui.NewValidationError(fmt.Errorf("%s already exists. Use --force to overwrite it", path))
	} else if err != nil && !os.IsNotExist(err) {
		return ui.NewFileSystemError(fmt.Errorf("failed to check project file: %w", err))
	}

	if err := os.MkdirAll(opts.dir, 0755); err != nil { //nolint:gosec // Project directory needs standard permissions
		return ui.NewFileSystemError(fmt.Errorf("failed to create directory: %w", err))
	}

	if err := writeProjectFile(path, project); err != nil {
		return ui.NewFileSystemError(fmt.Errorf("failed to create %s: %w", projectconfig.DefaultFileName, err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created %s\n", path) //nolint:errcheck // Terminal output
	if project.Deployment.RepoURL == "" {
		fmt.Fprintln(out, "Set deployment.repo_url or pass --repo to autodev deploy") //nolint:errcheck // Terminal output
	}
	if opts.dir != "." {
		fmt.Fprintf(out, "cd %s && autodev deploy to get started\n", opts.dir) //nolint:errcheck // Terminal output
	} else {
		fmt.Fprintln(out, "Run autodev deploy to get started") //nolint:errcheck // Terminal output
	}

	return nil
}

// writeProjectFile encodes project as TOML below a short header comment
func writeProjectFile(path string, project projectconfig.ProjectConfig) error {
	body, err := toml.Marshal(project)
	if err != nil {
		return fmt.Errorf("failed to encode project file: %w", err)
	}

	content := append([]byte(projectFileHeader), body...)
	if err := os.WriteFile(path, content, 0644); err != nil { //nolint:gosec // Config file needs to be readable by tools
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
