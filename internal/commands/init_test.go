package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodev/autodev/pkg/projectconfig"
)

func TestRunInit(t *testing.T) {
	tcs := []struct {
		name          string
		args          []string
		setupFunc     func(t *testing.T, dir string)
		expectedError string
		validate      func(t *testing.T, dir string, output string)
	}{
		{
			name: "writes project file with repo",
			args: []string{"--repo", "https://github.com/acme/app"},
			validate: func(t *testing.T, dir string, output string) {
				path := filepath.Join(dir, projectconfig.DefaultFileName)
				assert.Contains(t, output, "✓ Created "+projectconfig.DefaultFileName)
				assert.Contains(t, output, "autodev deploy to get started")
				assert.NotContains(t, output, "Set deployment.repo_url")

				project, err := projectconfig.Load(path)
				require.NoError(t, err)
				assert.Equal(t, "https://github.com/acme/app", project.Deployment.RepoURL)
				assert.Equal(t, projectconfig.DefaultTokenEnv, project.Deployment.TokenEnv)
				assert.Zero(t, project.PollInterval())
			},
		},
		{
			name: "token itself is never written",
			args: []string{"--repo", "https://github.com/acme/app", "--token-env", "ACME_TOKEN"},
			setupFunc: func(t *testing.T, dir string) {
				t.Setenv("ACME_TOKEN", "ghp_secret")
			},
			validate: func(t *testing.T, dir string, output string) {
				content, err := os.ReadFile(filepath.Join(dir, projectconfig.DefaultFileName))
				require.NoError(t, err)
				assert.NotContains(t, string(content), "ghp_secret")

				var raw map[string]any
				require.NoError(t, toml.Unmarshal(content, &raw))
				deployment, ok := raw["deployment"].(map[string]any)
				require.True(t, ok, "deployment section should exist")
				assert.Equal(t, "ACME_TOKEN", deployment["token_env"])

				project, err := projectconfig.Load(filepath.Join(dir, projectconfig.DefaultFileName))
				require.NoError(t, err)
				assert.Equal(t, "ghp_secret", project.Token())
			},
		},
		{
			name: "poll interval is stored",
			args: []string{"--poll-interval", "500ms"},
			validate: func(t *testing.T, dir string, output string) {
				assert.Contains(t, output, "Set deployment.repo_url")

				project, err := projectconfig.Load(filepath.Join(dir, projectconfig.DefaultFileName))
				require.NoError(t, err)
				assert.Empty(t, project.Deployment.RepoURL)
				assert.Equal(t, 500*time.Millisecond, project.PollInterval())
			},
		},
		{
			name: "creates missing directory",
			args: []string{"--repo", "https://github.com/acme/app", "--dir", "services/api"},
			validate: func(t *testing.T, dir string, output string) {
				_, err := os.Stat(filepath.Join(dir, "services", "api", projectconfig.DefaultFileName))
				require.NoError(t, err)
				assert.Contains(t, output, "cd ")
			},
		},
		{
			name: "existing file is kept",
			args: []string{"--repo", "https://github.com/acme/app"},
			setupFunc: func(t *testing.T, dir string) {
				writeFile(t, filepath.Join(dir, projectconfig.DefaultFileName), "[deployment]\nrepo_url = \"https://github.com/acme/old\"\n")
			},
			expectedError: "already exists",
			validate: func(t *testing.T, dir string, output string) {
				project, err := projectconfig.Load(filepath.Join(dir, projectconfig.DefaultFileName))
				require.NoError(t, err)
				assert.Equal(t, "https://github.com/acme/old", project.Deployment.RepoURL)
			},
		},
		{
			name: "force overwrites existing file",
			args: []string{"--repo", "https://github.com/acme/new", "--force"},
			setupFunc: func(t *testing.T, dir string) {
				writeFile(t, filepath.Join(dir, projectconfig.DefaultFileName), "[deployment]\nrepo_url = \"https://github.com/acme/old\"\n")
			},
			validate: func(t *testing.T, dir string, output string) {
				project, err := projectconfig.Load(filepath.Join(dir, projectconfig.DefaultFileName))
				require.NoError(t, err)
				assert.Equal(t, "https://github.com/acme/new", project.Deployment.RepoURL)
			},
		},
		{
			name:          "invalid repo url",
			args:          []string{"--repo", "not a url"},
			expectedError: "must be a URL",
		},
		{
			name:          "invalid token env",
			args:          []string{"--token-env", "1BAD"},
			expectedError: "not a valid environment variable name",
		},
		{
			name:          "invalid poll interval",
			args:          []string{"--poll-interval", "soon"},
			expectedError: "not a duration",
		},
		{
			name: "dir is a file",
			args: []string{"--dir", "taken"},
			setupFunc: func(t *testing.T, dir string) {
				writeFile(t, filepath.Join(dir, "taken"), "")
			},
			expectedError: "is not a directory",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)

			if tc.setupFunc != nil {
				tc.setupFunc(t, dir)
			}

			var out bytes.Buffer
			cmd := NewInitCmd()
			cmd.SetOut(&out)
			cmd.SetArgs(tc.args)

			err := cmd.Execute()

			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
			} else {
				require.NoError(t, err)
			}

			if tc.validate != nil {
				tc.validate(t, dir, out.String())
			}
		})
	}
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}
