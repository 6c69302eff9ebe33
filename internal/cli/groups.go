package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nightswinger/sigfox-cli/pkg/sigfox"
)

func newGroupsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage Sigfox groups",
	}
	cmd.AddCommand(
		newGroupsListCmd(e),
		newGroupsGetCmd(e),
		newGroupsCreateCmd(e),
		newGroupsUpdateCmd(e),
		newGroupsDeleteCmd(e),
		newGroupsCallbackErrorsCmd(e),
		newGroupsGeolocPayloadsCmd(e),
	)
	return cmd
}

func newGroupsListCmd(e *env) *cobra.Command {
	var (
		q         sigfox.ListQuery
		parentIDs string
		name      string
		types     string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Filters = map[string]string{
				sigfox.FilterParentIDs: parentIDs,
				sigfox.FilterName:      name,
				sigfox.FilterTypes:     types,
			}
			groups, err := e.client().Groups.List(cmd.Context(), q)
			if err != nil {
				return err
			}

			rows := make([][]string, len(groups))
			for i, g := range groups {
				rows[i] = []string{g.ID, orDash(g.Name), strconv.Itoa(g.Type), orDash(g.Timezone), strconv.FormatBool(g.Leaf)}
			}
			e.output(format).List([]string{"ID", "NAME", "TYPE", "TIMEZONE", "LEAF"}, rows, groups)
			return nil
		},
	}
	addListFlags(cmd, &q)
	addOutputFlag(cmd, &format)
	cmd.Flags().StringVar(&parentIDs, "parent-ids", "", "filter by parent group IDs (comma-separated)")
	cmd.Flags().StringVar(&name, "name", "", "filter by name (contains match)")
	cmd.Flags().StringVar(&types, "types", "", "filter by group types (comma-separated numbers)")
	return cmd
}

func newGroupsGetCmd(e *env) *cobra.Command {
	var (
		fields string
		format string
	)
	cmd := &cobra.Command{
		Use:   "get <group-id>",
		Short: "Show group details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := e.client().Groups.Get(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}

			e.output(format).Detail([][2]string{
				{"ID", g.ID},
				{"Name", orDash(g.Name)},
				{"Description", orDash(g.Description)},
				{"Type", strconv.Itoa(g.Type)},
				{"Timezone", orDash(g.Timezone)},
				{"Created By", orDash(g.CreatedBy)},
				{"Created", formatTime(g.CreationTime)},
				{"Leaf", strconv.FormatBool(g.Leaf)},
			}, g)
			return nil
		},
	}
	cmd.Flags().StringVar(&fields, "fields", "", "extra fields to return (e.g. 'path(name,type,level)')")
	addOutputFlag(cmd, &format)
	return cmd
}

func newGroupsCreateCmd(e *env) *cobra.Command {
	var (
		payload sigfox.GroupCreate
		format  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new group",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := e.client().Groups.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			out := e.output(format)
			out.Success(fmt.Sprintf("Group created: %s", g.ID))
			out.Detail([][2]string{{"ID", g.ID}, {"Name", orDash(g.Name)}}, g)
			return nil
		},
	}
	cmd.Flags().StringVar(&payload.Name, "name", "", "group name (required)")
	cmd.Flags().StringVar(&payload.Description, "description", "", "description (required)")
	cmd.Flags().IntVar(&payload.Type, "type", 0, "group type (default 2, Basic)")
	cmd.Flags().StringVar(&payload.Timezone, "timezone", "", "timezone, e.g. Europe/Paris (required)")
	cmd.Flags().StringVar(&payload.ParentID, "parent-id", "", "parent group ID (required)")
	cmd.Flags().StringVar(&payload.TechnicalEmail, "technical-email", "", "technical contact email")
	addOutputFlag(cmd, &format)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("timezone")
	_ = cmd.MarkFlagRequired("parent-id")
	return cmd
}

func newGroupsUpdateCmd(e *env) *cobra.Command {
	var (
		name        string
		description string
		timezone    string
	)
	cmd := &cobra.Command{
		Use:   "update <group-id>",
		Short: "Update a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload sigfox.GroupUpdate
			if cmd.Flags().Changed("name") {
				payload.Name = sigfox.String(name)
			}
			if cmd.Flags().Changed("description") {
				payload.Description = sigfox.String(description)
			}
			if cmd.Flags().Changed("timezone") {
				payload.Timezone = sigfox.String(timezone)
			}
			if err := e.client().Groups.Update(cmd.Context(), args[0], payload); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("Group updated: %s", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "group name")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&timezone, "timezone", "", "timezone")
	return cmd
}

func newGroupsDeleteCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <group-id>",
		Short: "Delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("Delete group %s?", args[0])) {
				e.output("").Info("Aborted.")
				return nil
			}
			if err := e.client().Groups.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("Group deleted: %s", args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func newGroupsCallbackErrorsCmd(e *env) *cobra.Command {
	var (
		q             sigfox.ListQuery
		since, before int64
		format        string
	)
	cmd := &cobra.Command{
		Use:   "callback-errors <group-id>",
		Short: "List undelivered callbacks for a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Filters = map[string]string{}
			if since > 0 {
				q.Filters[sigfox.FilterSince] = strconv.FormatInt(since, 10)
			}
			if before > 0 {
				q.Filters[sigfox.FilterBefore] = strconv.FormatInt(before, 10)
			}
			errorsList, err := e.client().Groups.CallbacksNotDelivered(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}

			rows := make([][]string, len(errorsList))
			for i, ce := range errorsList {
				rows[i] = []string{formatTime(ce.Time), orDash(ce.Device), orDash(ce.DeviceType), orDash(ce.Status), orDash(ce.Message)}
			}
			e.output(format).List([]string{"TIME", "DEVICE", "DEVICE TYPE", "STATUS", "MESSAGE"}, rows, errorsList)
			return nil
		},
	}
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "maximum items to return")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "number of items to skip")
	cmd.Flags().Int64Var(&since, "since", 0, "starting timestamp (ms since epoch)")
	cmd.Flags().Int64Var(&before, "before", 0, "ending timestamp (ms since epoch)")
	addOutputFlag(cmd, &format)
	return cmd
}

func newGroupsGeolocPayloadsCmd(e *env) *cobra.Command {
	var (
		q      sigfox.ListQuery
		pageID string
		format string
	)
	cmd := &cobra.Command{
		Use:   "geoloc-payloads <group-id>",
		Short: "List geolocation payloads visible to a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Filters = map[string]string{sigfox.FilterPageID: pageID}
			payloads, err := e.client().Groups.GeolocPayloads(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}

			rows := make([][]string, len(payloads))
			for i, p := range payloads {
				rows[i] = []string{orDash(p.ID), orDash(p.Name)}
			}
			e.output(format).List([]string{"ID", "NAME"}, rows, payloads)
			return nil
		},
	}
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "maximum items to return")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "number of items to skip")
	cmd.Flags().StringVar(&pageID, "page-id", "", "pagination token")
	addOutputFlag(cmd, &format)
	return cmd
}
