package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nightswinger/sigfox-cli/pkg/sigfox"
)

func newAPIUsersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api-users",
		Short: "Manage Sigfox API users",
	}
	cmd.AddCommand(
		newAPIUsersListCmd(e),
		newAPIUsersGetCmd(e),
		newAPIUsersCreateCmd(e),
		newAPIUsersUpdateCmd(e),
		newAPIUsersDeleteCmd(e),
		newAPIUsersAddProfilesCmd(e),
		newAPIUsersRemoveProfileCmd(e),
		newAPIUsersRenewCredentialCmd(e),
	)
	return cmd
}

func profileNames(profiles []sigfox.ProfileRef) string {
	if len(profiles) == 0 {
		return "-"
	}
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	return strings.Join(names, ",")
}

func newAPIUsersListCmd(e *env) *cobra.Command {
	var (
		q         sigfox.ListQuery
		profileID string
		groupIDs  string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List API users",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Filters = map[string]string{
				sigfox.FilterProfileID: profileID,
				sigfox.FilterGroupIDs:  groupIDs,
			}
			users, err := e.client().APIUsers.List(cmd.Context(), q)
			if err != nil {
				return err
			}

			rows := make([][]string, len(users))
			for i, u := range users {
				groupName := "-"
				if u.Group != nil {
					groupName = orDash(u.Group.Name)
				}
				rows[i] = []string{u.ID, orDash(u.Name), groupName, profileNames(u.Profiles), formatTime(u.CreationTime)}
			}
			e.output(format).List([]string{"ID", "NAME", "GROUP", "PROFILES", "CREATED"}, rows, users)
			return nil
		},
	}
	addListFlags(cmd, &q)
	addOutputFlag(cmd, &format)
	cmd.Flags().StringVar(&profileID, "profile-id", "", "filter by profile ID")
	cmd.Flags().StringVar(&groupIDs, "group-ids", "", "filter by group IDs (comma-separated)")
	return cmd
}

func newAPIUsersGetCmd(e *env) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get <api-user-id>",
		Short: "Show API user details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := e.client().APIUsers.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			groupName := "-"
			if u.Group != nil {
				groupName = orDash(u.Group.Name)
			}
			e.output(format).Detail([][2]string{
				{"ID", u.ID},
				{"Name", orDash(u.Name)},
				{"Group", groupName},
				{"Timezone", orDash(u.Timezone)},
				{"Profiles", profileNames(u.Profiles)},
				{"Created", formatTime(u.CreationTime)},
			}, u)
			return nil
		},
	}
	addOutputFlag(cmd, &format)
	return cmd
}

func newAPIUsersCreateCmd(e *env) *cobra.Command {
	var (
		payload  sigfox.APIUserCreate
		profiles string
		format   string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new API user",
		Long: `Create a new API user. The response includes the generated access
token — the credential's password. It is shown once; store it securely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if profiles != "" {
				payload.ProfileIDs = strings.Split(profiles, ",")
			}
			u, err := e.client().APIUsers.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			out := e.output(format)
			out.Success(fmt.Sprintf("API user created: %s", u.ID))
			out.Detail([][2]string{
				{"ID", u.ID},
				{"Name", orDash(u.Name)},
				{"Access Token", orDash(u.AccessToken)},
			}, u)
			return nil
		},
	}
	cmd.Flags().StringVar(&payload.GroupID, "group-id", "", "owning group ID (required)")
	cmd.Flags().StringVar(&payload.Name, "name", "", "API user name (required)")
	cmd.Flags().StringVar(&payload.Timezone, "timezone", "", "timezone, e.g. Europe/Paris (required)")
	cmd.Flags().StringVar(&profiles, "profile-ids", "", "profile IDs to associate (comma-separated, required)")
	addOutputFlag(cmd, &format)
	_ = cmd.MarkFlagRequired("group-id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("timezone")
	_ = cmd.MarkFlagRequired("profile-ids")
	return cmd
}

func newAPIUsersUpdateCmd(e *env) *cobra.Command {
	var (
		name     string
		timezone string
		profiles string
	)
	cmd := &cobra.Command{
		Use:   "update <api-user-id>",
		Short: "Update an API user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload sigfox.APIUserUpdate
			if cmd.Flags().Changed("name") {
				payload.Name = sigfox.String(name)
			}
			if cmd.Flags().Changed("timezone") {
				payload.Timezone = sigfox.String(timezone)
			}
			if cmd.Flags().Changed("profile-ids") {
				payload.ProfileIDs = strings.Split(profiles, ",")
			}
			if err := e.client().APIUsers.Update(cmd.Context(), args[0], payload); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("API user updated: %s", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "API user name")
	cmd.Flags().StringVar(&timezone, "timezone", "", "timezone")
	cmd.Flags().StringVar(&profiles, "profile-ids", "", "replacement profile IDs (comma-separated)")
	return cmd
}

func newAPIUsersDeleteCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <api-user-id>",
		Short: "Delete an API user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("Delete API user %s?", args[0])) {
				e.output("").Info("Aborted.")
				return nil
			}
			if err := e.client().APIUsers.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("API user deleted: %s", args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func newAPIUsersAddProfilesCmd(e *env) *cobra.Command {
	var profiles string
	cmd := &cobra.Command{
		Use:   "add-profiles <api-user-id>",
		Short: "Associate additional profiles with an API user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := strings.Split(profiles, ",")
			if err := e.client().APIUsers.AddProfiles(cmd.Context(), args[0], ids); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("Profiles added to API user %s", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&profiles, "profile-ids", "", "profile IDs to add (comma-separated, required)")
	_ = cmd.MarkFlagRequired("profile-ids")
	return cmd
}

func newAPIUsersRemoveProfileCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-profile <api-user-id> <profile-id>",
		Short: "Remove a profile association from an API user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.client().APIUsers.RemoveProfile(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("Profile %s removed from API user %s", args[1], args[0]))
			return nil
		},
	}
}

func newAPIUsersRenewCredentialCmd(e *env) *cobra.Command {
	var (
		yes    bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "renew-credential <api-user-id>",
		Short: "Generate a new password for an API user",
		Long: `Generate a new password for an API user. The old credential stops
working immediately; the replacement is shown once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("Renew credential for API user %s? The current password stops working", args[0])) {
				e.output("").Info("Aborted.")
				return nil
			}
			cred, err := e.client().APIUsers.RenewCredential(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := e.output(format)
			out.Success("Credential renewed")
			out.Detail([][2]string{{"Access Token", cred.AccessToken}}, cred)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	addOutputFlag(cmd, &format)
	return cmd
}
