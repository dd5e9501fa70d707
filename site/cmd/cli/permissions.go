package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Keenwby/polaris-youth-platform/site/internal/permissions"
)

func newPermissionsCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Enable public read access to the site's content types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cms := newCMS()
			switch {
			case email != "" || password != "":
				session, err := cms.AdminLogin(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				log.Info("admin login succeeded", "expires_at", session.ExpiresAt)
				cms = cms.WithToken(session.Token)
			case cfg.CMS.Token == "":
				return errNoToken
			}

			res, err := permissions.Setup(cmd.Context(), cms, permissions.DefaultGrants, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Enabled) == 0 {
				fmt.Fprintf(out, "role %q already allows public reads\n", res.Role.Name)
				return nil
			}
			ok := color.New(color.FgGreen)
			for _, p := range res.Enabled {
				ok.Fprintf(out, "enabled %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "admin-email", "", "Log in with admin credentials instead of an API token")
	cmd.Flags().StringVar(&password, "admin-password", "", "Admin password")
	return cmd
}

func init() {
	rootCmd.AddCommand(newPermissionsCmd())
}
