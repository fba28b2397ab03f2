package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodev/autodev/pkg/config"
	"github.com/autodev/autodev/pkg/projectconfig"
)

func TestResolveDeployInputs(t *testing.T) {
	project := &projectconfig.ProjectConfig{
		Deployment: projectconfig.DeploymentConfig{
			RepoURL:  "https://github.com/acme/from-file",
			TokenEnv: "ACME_TOKEN",
		},
		Polling: projectconfig.PollingConfig{Interval: "250ms"},
	}

	tcs := []struct {
		name    string
		opts    deployOptions
		project *projectconfig.ProjectConfig
		cfg     *config.Config
		env     map[string]string
		want    deployInputs
	}{
		{
			name: "flags win over everything",
			opts: deployOptions{repoURL: "https://github.com/acme/flag", token: "flag-token", pollInterval: 2 * time.Second},
			project: project,
			cfg:     &config.Config{PollInterval: 3 * time.Second},
			env:     map[string]string{"ACME_TOKEN": "file-token", "GITHUB_TOKEN": "env-token"},
			want:    deployInputs{repoURL: "https://github.com/acme/flag", token: "flag-token", pollInterval: 2 * time.Second},
		},
		{
			name:    "project file fills the gaps",
			project: project,
			cfg:     &config.Config{PollInterval: 3 * time.Second},
			env:     map[string]string{"ACME_TOKEN": "file-token", "GITHUB_TOKEN": "env-token"},
			want:    deployInputs{repoURL: "https://github.com/acme/from-file", token: "file-token", pollInterval: 250 * time.Millisecond},
		},
		{
			name:    "falls back to GITHUB_TOKEN when the named variable is empty",
			project: project,
			cfg:     &config.Config{},
			env:     map[string]string{"ACME_TOKEN": "", "GITHUB_TOKEN": "env-token"},
			want:    deployInputs{repoURL: "https://github.com/acme/from-file", token: "env-token", pollInterval: 250 * time.Millisecond},
		},
		{
			name: "no project file uses user config",
			opts: deployOptions{repoURL: "  https://github.com/acme/spaced  "},
			cfg:  &config.Config{PollInterval: 3 * time.Second},
			env:  map[string]string{"GITHUB_TOKEN": ""},
			want: deployInputs{repoURL: "https://github.com/acme/spaced", pollInterval: 3 * time.Second},
		},
		{
			name: "defaults",
			cfg:  &config.Config{},
			env:  map[string]string{"GITHUB_TOKEN": ""},
			want: deployInputs{pollInterval: config.DefaultPollInterval},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			got := resolveDeployInputs(tc.opts, tc.project, tc.cfg)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadProjectFile(t *testing.T) {
	t.Run("missing default file is ignored", func(t *testing.T) {
		project, err := loadProjectFile(filepath.Join(t.TempDir(), projectconfig.DefaultFileName), false)
		require.NoError(t, err)
		assert.Nil(t, project)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := loadProjectFile(filepath.Join(t.TempDir(), "other.toml"), true)
		require.Error(t, err)
		assert.ErrorIs(t, err, projectconfig.ErrNotFound)
	})

	t.Run("invalid file is an error even when implicit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), projectconfig.DefaultFileName)
		writeFile(t, path, "[deployment]\nrepo_url = \"not a url\"\n")

		_, err := loadProjectFile(path, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a URL")
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), projectconfig.DefaultFileName)
		writeFile(t, path, "[deployment]\nrepo_url = \"https://github.com/acme/app\"\n")

		project, err := loadProjectFile(path, true)
		require.NoError(t, err)
		require.NotNil(t, project)
		assert.Equal(t, "https://github.com/acme/app", project.Deployment.RepoURL)
	})
}
