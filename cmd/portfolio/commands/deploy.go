// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"portfolio/internal/deploy"
)

// deployCmd triggers the publishing workflow
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Trigger the GitHub workflow that publishes the static site",
	Long: `Send a repository_dispatch event of type deploy_static to the
repository named by GITHUB_OWNER and GITHUB_REPO, authenticated with
GITHUB_TOKEN. The workflow builds the export and publishes it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := deploy.New(deployConfig())
		if d == nil {
			return errors.New("missing GitHub configuration (GITHUB_TOKEN, GITHUB_OWNER, GITHUB_REPO)")
		}
		if err := d.Dispatch(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deploy dispatched to %s (%s)\n", d.Repository(), deploy.EventType)
		return nil
	},
}

func deployConfig() deploy.Config {
	return deploy.Config{
		Token:   cfg.GitHubToken,
		Owner:   cfg.GitHubOwner,
		Repo:    cfg.GitHubRepo,
		BaseURL: cfg.GitHubAPIURL,
	}
}
