package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nightswinger/sigfox-cli/pkg/sigfox"
)

func newDeviceTypesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device-types",
		Short: "Manage Sigfox device types",
	}
	cmd.AddCommand(
		newDeviceTypesListCmd(e),
		newDeviceTypesGetCmd(e),
		newDeviceTypesCreateCmd(e),
		newDeviceTypesUpdateCmd(e),
		newDeviceTypesDeleteCmd(e),
	)
	return cmd
}

func newDeviceTypesListCmd(e *env) *cobra.Command {
	var (
		q        sigfox.ListQuery
		name     string
		groupIDs string
		format   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List device types",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Filters = map[string]string{
				sigfox.FilterName:     name,
				sigfox.FilterGroupIDs: groupIDs,
			}
			types, err := e.client().DeviceTypes.List(cmd.Context(), q)
			if err != nil {
				return err
			}

			rows := make([][]string, len(types))
			for i, dt := range types {
				groupName := "-"
				if dt.Group != nil {
					groupName = orDash(dt.Group.Name)
				}
				rows[i] = []string{dt.ID, orDash(dt.Name), groupName, formatTime(dt.CreationTime)}
			}
			e.output(format).List([]string{"ID", "NAME", "GROUP", "CREATED"}, rows, types)
			return nil
		},
	}
	addListFlags(cmd, &q)
	addOutputFlag(cmd, &format)
	cmd.Flags().StringVar(&name, "name", "", "filter by name (contains match)")
	cmd.Flags().StringVar(&groupIDs, "group-ids", "", "filter by group IDs (comma-separated)")
	return cmd
}

func newDeviceTypesGetCmd(e *env) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get <device-type-id>",
		Short: "Show device type details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := e.client().DeviceTypes.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			groupName := "-"
			if dt.Group != nil {
				groupName = orDash(dt.Group.Name)
			}
			e.output(format).Detail([][2]string{
				{"ID", dt.ID},
				{"Name", orDash(dt.Name)},
				{"Description", orDash(dt.Description)},
				{"Group", groupName},
				{"Keep Alive", fmt.Sprintf("%d", dt.KeepAlive)},
				{"Created", formatTime(dt.CreationTime)},
				{"Last Edited", formatTime(dt.LastEditedTime)},
			}, dt)
			return nil
		},
	}
	addOutputFlag(cmd, &format)
	return cmd
}

func newDeviceTypesCreateCmd(e *env) *cobra.Command {
	var (
		payload   sigfox.DeviceTypeCreate
		keepAlive int
		format    string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new device type",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("keep-alive") {
				payload.KeepAlive = sigfox.Int(keepAlive)
			}
			dt, err := e.client().DeviceTypes.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			out := e.output(format)
			out.Success(fmt.Sprintf("Device type created: %s", dt.ID))
			out.Detail([][2]string{{"ID", dt.ID}, {"Name", orDash(dt.Name)}}, dt)
			return nil
		},
	}
	cmd.Flags().StringVar(&payload.Name, "name", "", "device type name (required)")
	cmd.Flags().StringVar(&payload.GroupID, "group-id", "", "owning group ID (required)")
	cmd.Flags().StringVar(&payload.Description, "description", "", "description")
	cmd.Flags().IntVar(&keepAlive, "keep-alive", 0, "keep-alive period in seconds (0 disables)")
	cmd.Flags().StringVar(&payload.AlertEmail, "alert-email", "", "alert email address")
	addOutputFlag(cmd, &format)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("group-id")
	return cmd
}

func newDeviceTypesUpdateCmd(e *env) *cobra.Command {
	var (
		name        string
		description string
		keepAlive   int
		alertEmail  string
	)
	cmd := &cobra.Command{
		Use:   "update <device-type-id>",
		Short: "Update a device type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload sigfox.DeviceTypeUpdate
			if cmd.Flags().Changed("name") {
				payload.Name = sigfox.String(name)
			}
			if cmd.Flags().Changed("description") {
				payload.Description = sigfox.String(description)
			}
			if cmd.Flags().Changed("keep-alive") {
				payload.KeepAlive = sigfox.Int(keepAlive)
			}
			if cmd.Flags().Changed("alert-email") {
				payload.AlertEmail = sigfox.String(alertEmail)
			}
			if err := e.client().DeviceTypes.Update(cmd.Context(), args[0], payload); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("Device type updated: %s", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "device type name")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().IntVar(&keepAlive, "keep-alive", 0, "keep-alive period in seconds")
	cmd.Flags().StringVar(&alertEmail, "alert-email", "", "alert email address")
	return cmd
}

func newDeviceTypesDeleteCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <device-type-id>",
		Short: "Delete a device type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("Delete device type %s?", args[0])) {
				e.output("").Info("Aborted.")
				return nil
			}
			if err := e.client().DeviceTypes.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("Device type deleted: %s", args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}
