package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nightswinger/sigfox-cli/pkg/sigfox"
)

func newDevicesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Manage Sigfox devices",
	}
	cmd.AddCommand(
		newDevicesListCmd(e),
		newDevicesGetCmd(e),
		newDevicesCreateCmd(e),
		newDevicesUpdateCmd(e),
		newDevicesDeleteCmd(e),
		newDevicesMessagesCmd(e),
	)
	return cmd
}

func newDevicesListCmd(e *env) *cobra.Command {
	var (
		q            sigfox.ListQuery
		deviceTypeID string
		groupIDs     string
		format       string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List devices",
		Example: `  sigfox devices list
  sigfox devices list --limit 50 --offset 10
  sigfox devices list --device-type-id 5d8cdc8fea06bb6e41234567
  sigfox devices list --group-ids abc123,def456 --deep -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Filters = map[string]string{
				sigfox.FilterDeviceTypeID: deviceTypeID,
				sigfox.FilterGroupIDs:     groupIDs,
			}
			devices, err := e.client().Devices.List(cmd.Context(), q)
			if err != nil {
				return err
			}

			rows := make([][]string, len(devices))
			for i, d := range devices {
				typeName := "-"
				if d.DeviceType != nil {
					typeName = orDash(d.DeviceType.Name)
				}
				rows[i] = []string{d.ID, orDash(d.Name), typeName, strconv.Itoa(d.State), formatTime(d.LastCom)}
			}
			e.output(format).List([]string{"ID", "NAME", "TYPE", "STATE", "LAST COM"}, rows, devices)
			return nil
		},
	}
	addListFlags(cmd, &q)
	addOutputFlag(cmd, &format)
	cmd.Flags().StringVar(&deviceTypeID, "device-type-id", "", "filter by device type ID")
	cmd.Flags().StringVar(&groupIDs, "group-ids", "", "filter by group IDs (comma-separated)")
	return cmd
}

func newDevicesGetCmd(e *env) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get <device-id>",
		Short: "Show device details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := e.client().Devices.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			typeName := "-"
			if d.DeviceType != nil {
				typeName = orDash(d.DeviceType.Name)
			}
			e.output(format).Detail([][2]string{
				{"ID", d.ID},
				{"Name", orDash(d.Name)},
				{"Device Type", typeName},
				{"PAC", orDash(d.PAC)},
				{"State", strconv.Itoa(d.State)},
				{"Sequence Number", strconv.Itoa(d.SequenceNumber)},
				{"Last Com", formatTime(d.LastCom)},
				{"Created", formatTime(d.CreationTime)},
				{"Activated", formatTime(d.ActivationTime)},
			}, d)
			return nil
		},
	}
	addOutputFlag(cmd, &format)
	return cmd
}

func newDevicesCreateCmd(e *env) *cobra.Command {
	var (
		payload   sigfox.DeviceCreate
		lat, lng  float64
		prototype bool
		format    string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("lat") {
				payload.Lat = sigfox.Float64(lat)
			}
			if cmd.Flags().Changed("lng") {
				payload.Lng = sigfox.Float64(lng)
			}
			if cmd.Flags().Changed("prototype") {
				payload.Prototype = sigfox.Bool(prototype)
			}
			d, err := e.client().Devices.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			out := e.output(format)
			out.Success(fmt.Sprintf("Device created: %s", d.ID))
			out.Detail([][2]string{{"ID", d.ID}, {"Name", orDash(d.Name)}}, d)
			return nil
		},
	}
	cmd.Flags().StringVar(&payload.ID, "id", "", "device ID, hexadecimal (required)")
	cmd.Flags().StringVar(&payload.Name, "name", "", "device name (required)")
	cmd.Flags().StringVar(&payload.DeviceTypeID, "device-type-id", "", "device type ID (required)")
	cmd.Flags().StringVar(&payload.PAC, "pac", "", "porting authorization code (required)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude in degrees")
	cmd.Flags().BoolVar(&prototype, "prototype", false, "register as prototype")
	addOutputFlag(cmd, &format)
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("device-type-id")
	_ = cmd.MarkFlagRequired("pac")
	return cmd
}

func newDevicesUpdateCmd(e *env) *cobra.Command {
	var (
		name      string
		lat, lng  float64
		prototype bool
	)
	cmd := &cobra.Command{
		Use:   "update <device-id>",
		Short: "Update a device",
		Long: `Update a device. Only the flags you pass are sent to the service;
everything else is left untouched. Passing a flag with its zero value
("--prototype=false") explicitly clears that field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload sigfox.DeviceUpdate
			if cmd.Flags().Changed("name") {
				payload.Name = sigfox.String(name)
			}
			if cmd.Flags().Changed("lat") {
				payload.Lat = sigfox.Float64(lat)
			}
			if cmd.Flags().Changed("lng") {
				payload.Lng = sigfox.Float64(lng)
			}
			if cmd.Flags().Changed("prototype") {
				payload.Prototype = sigfox.Bool(prototype)
			}
			if err := e.client().Devices.Update(cmd.Context(), args[0], payload); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("Device updated: %s", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "device name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude in degrees")
	cmd.Flags().BoolVar(&prototype, "prototype", false, "prototype flag")
	return cmd
}

func newDevicesDeleteCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <device-id>",
		Short: "Delete a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(fmt.Sprintf("Delete device %s?", args[0])) {
				e.output("").Info("Aborted.")
				return nil
			}
			if err := e.client().Devices.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.output("").Success(fmt.Sprintf("Device deleted: %s", args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func newDevicesMessagesCmd(e *env) *cobra.Command {
	var (
		q             sigfox.ListQuery
		since, before int64
		format        string
	)
	cmd := &cobra.Command{
		Use:   "messages <device-id>",
		Short: "List messages sent by a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Filters = map[string]string{}
			if since > 0 {
				q.Filters[sigfox.FilterSince] = strconv.FormatInt(since, 10)
			}
			if before > 0 {
				q.Filters[sigfox.FilterBefore] = strconv.FormatInt(before, 10)
			}
			messages, err := e.client().Devices.Messages(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}

			rows := make([][]string, len(messages))
			for i, m := range messages {
				rows[i] = []string{formatTime(m.Time), orDash(m.Data), strconv.Itoa(m.SeqNumber), strconv.Itoa(m.NbFrames), orDash(m.Country)}
			}
			e.output(format).List([]string{"TIME", "DATA", "SEQ", "FRAMES", "COUNTRY"}, rows, messages)
			return nil
		},
	}
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "maximum messages to return")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "number of messages to skip")
	cmd.Flags().Int64Var(&since, "since", 0, "only messages after this time (ms since epoch)")
	cmd.Flags().Int64Var(&before, "before", 0, "only messages before this time (ms since epoch)")
	addOutputFlag(cmd, &format)
	return cmd
}
