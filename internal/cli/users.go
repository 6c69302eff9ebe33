package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nightswinger/sigfox-cli/pkg/sigfox"
)

func newUsersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage portal users",
	}
	cmd.AddCommand(
		newUsersListCmd(e),
		newUsersGetCmd(e),
		newUsersCreateCmd(e),
		newUsersUpdateCmd(e),
		newUsersDeleteCmd(e),
		newUsersAddRolesCmd(e),
		newUsersRemoveRoleCmd(e),
	)
	return cmd
}

func roleNames(roles []sigfox.RoleRef) string {
	if len(roles) == 0 {
		return "-"
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return strings.Join(names, ",")
}

func newUsersListCmd(e *env) *cobra.Command {
	var (
		q        sigfox.ListQuery
		groupIDs string
		format   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List portal users",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Filters = map[string]string{sigfox.FilterGroupIDs: groupIDs}
			users, err := e.client().Users.List(cmd.Context(), q)
			if err != nil {
				return err
			}

			rows := make([][]string, len(users))
			for i, u := range users {
				name := strings.TrimSpace(u.FirstName + " " + u.LastName)
				rows[i] = []string{u.ID, orDash(name), orDash(u.Email), roleNames(u.UserRoles), formatTime(u.LastLoginTime)}
			}
			e.output(format).List([]string{"ID", "NAME", "EMAIL", "ROLES", "LAST LOGIN"}, rows, users)
			return nil
		},
	}
	addListFlags(cmd, &q)
	addOutputFlag(cmd, &format)
	cmd.Flags().StringVar(&groupIDs, "group-ids", "", "filter by group IDs (comma-separated)")
	return cmd
}

func newUsersGetCmd(e *env) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get <user-id>",
		Short: "Show portal user details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := e.client().Users.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			groupName := "-"
			if u.Group != nil {
				groupName = orDash(u.Group.Name)
			}
			e.output(format).Detail([][2]string{
				{"ID", u.ID},
				{"Name", orDash(strings.TrimSpace(u.FirstName + " " + u.LastName))},
				{"Email", orDash(u.Email)},
				{"Timezone", orDash(u.Timezone)},
				{"Group", groupName},
				{"Roles", roleNames(u.UserRoles)},
				{"Created", formatTime(u.CreationTime)},
				{"Last Login", formatTime(u.LastLoginTime)},
			}, u)
			return nil
		},
	}
	addOutputFlag(cmd, &format)
	return cmd
}

func newUsersCreateCmd(e *env) *cobra.Command {
	var (
		payload sigfox.UserCreate
		roles   string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new portal user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if roles != "" {
				payload.RoleIDs = strings.Split(roles, ",")
			}
			u, err := e.client().Users.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			out := e.output(format)
			out.Success(fmt.Sprintf("User created: %s", u.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&payload.GroupID, "group-id", "", "owning group ID (required)")
	cmd.Flags().StringVar(&payload.FirstName, "first-name", "", "first name (required)")
	cmd.Flags().StringVar(&payload.LastName, "last-name", "", "last name (required)")
	cmd.Flags().StringVar(&payload.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&payload.Timezone, "timezone", "", "timezone, e.g. Europe/Paris (required)")
	cmd.Flags().StringVar(&roles, "role-ids", "", "role IDs to assign (comma-separated, required)")
	addOutputFlag(cmd, &format)
	_ = cmd.MarkFlagRequired("group-id")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("timezone")
	_ = cmd.MarkFlagRequired("role-ids")
	return cmd
}

func newUsersUpdateCmd(e *env) *cobra.Command {
	var (
		firstName string
		lastName  string
		email     string
		timezone  string
		roles     string
	)
	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update a portal user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload sigfox.UserUpdate
			if cmd.Flags().Changed("first-name") {
				payload.FirstName = sigfox.String(firstName)
			}
			if cmd.Flags().Changed("last-name") {
				payload.LastName = sigfox.String(lastName)
			}
			if cmd.Flags().Changed("email") {
				payload.Email = sigfox.String(email)
			}
			if cmd.Flags().Changed("timezone") {
				payload.Timezone = sigfox.String(timezone)
			}
			if cmd.Flags().Changed("role-ids") {
				payload.RoleIDs = strings.Split(roles, ",")
			}
			if err := e.client().Users.Update(cmd.Context(), args[0], payload); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("User updated: %s", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&timezone, "timezone", "", "timezone")
	cmd.Flags().StringVar(&roles, "role-ids", "", "replacement role IDs (comma-separated)")
	return cmd
}

func newUsersDeleteCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a portal user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("Delete user %s?", args[0])) {
				e.output("").Info("Aborted.")
				return nil
			}
			if err := e.client().Users.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("User deleted: %s", args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func newUsersAddRolesCmd(e *env) *cobra.Command {
	var roles string
	cmd := &cobra.Command{
		Use:   "add-roles <user-id>",
		Short: "Assign additional roles to a portal user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := strings.Split(roles, ",")
			if err := e.client().Users.AddRoles(cmd.Context(), args[0], ids); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("Roles added to user %s", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&roles, "role-ids", "", "role IDs to add (comma-separated, required)")
	_ = cmd.MarkFlagRequired("role-ids")
	return cmd
}

func newUsersRemoveRoleCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-role <user-id> <role-id>",
		Short: "Remove a role assignment from a portal user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.client().Users.RemoveRole(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("Role %s removed from user %s", args[1], args[0]))
			return nil
		},
	}
}
