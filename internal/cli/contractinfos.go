package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nightswinger/sigfox-cli/pkg/sigfox"
)

func newContractsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contracts",
		Short: "Inspect connectivity contracts",
	}
	cmd.AddCommand(
		newContractsListCmd(e),
		newContractsGetCmd(e),
		newContractsDevicesCmd(e),
	)
	return cmd
}

func newContractsListCmd(e *env) *cobra.Command {
	var (
		q       sigfox.ListQuery
		name    string
		groupID string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contracts",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Filters = map[string]string{
				sigfox.FilterName:    name,
				sigfox.FilterGroupID: groupID,
			}
			contracts, err := e.client().ContractInfos.List(cmd.Context(), q)
			if err != nil {
				return err
			}

			rows := make([][]string, len(contracts))
			for i, c := range contracts {
				rows[i] = []string{c.ID, orDash(c.Name), strconv.Itoa(c.MaxTokens), strconv.Itoa(c.TokensInUse), formatTime(c.CommunicationEndTime)}
			}
			e.output(format).List([]string{"ID", "NAME", "MAX TOKENS", "IN USE", "COMM END"}, rows, contracts)
			return nil
		},
	}
	addListFlags(cmd, &q)
	addOutputFlag(cmd, &format)
	cmd.Flags().StringVar(&name, "name", "", "filter by contract name")
	cmd.Flags().StringVar(&groupID, "group-id", "", "filter by group ID")
	return cmd
}

func newContractsGetCmd(e *env) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get <contract-id>",
		Short: "Show contract details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.client().ContractInfos.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			groupName := "-"
			if c.Group != nil {
				groupName = orDash(c.Group.Name)
			}
			e.output(format).Detail([][2]string{
				{"ID", c.ID},
				{"Name", orDash(c.Name)},
				{"Contract ID", orDash(c.ContractID)},
				{"Group", groupName},
				{"Bidirectional", strconv.FormatBool(c.Bidir)},
				{"Max Uplink Frames", strconv.Itoa(c.MaxUplinkFrames)},
				{"Max Downlink Frames", strconv.Itoa(c.MaxDownlinkFrames)},
				{"Max Tokens", strconv.Itoa(c.MaxTokens)},
				{"Tokens In Use", strconv.Itoa(c.TokensInUse)},
				{"Tokens Used", strconv.Itoa(c.TokensUsed)},
				{"Start", formatTime(c.StartTime)},
				{"Activation End", formatTime(c.ActivationEndTime)},
				{"Communication End", formatTime(c.CommunicationEndTime)},
			}, c)
			return nil
		},
	}
	addOutputFlag(cmd, &format)
	return cmd
}

func newContractsDevicesCmd(e *env) *cobra.Command {
	var (
		q            sigfox.ListQuery
		deviceTypeID string
		format       string
	)
	cmd := &cobra.Command{
		Use:   "devices <contract-id>",
		Short: "List devices attached to a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Filters = map[string]string{sigfox.FilterDeviceTypeID: deviceTypeID}
			devices, err := e.client().ContractInfos.Devices(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}

			rows := make([][]string, len(devices))
			for i, d := range devices {
				typeName := "-"
				if d.DeviceType != nil {
					typeName = orDash(d.DeviceType.Name)
				}
				rows[i] = []string{d.ID, orDash(d.Name), typeName, formatTime(d.LastCom)}
			}
			e.output(format).List([]string{"ID", "NAME", "TYPE", "LAST SEEN"}, rows, devices)
			return nil
		},
	}
	addListFlags(cmd, &q)
	addOutputFlag(cmd, &format)
	cmd.Flags().StringVar(&deviceTypeID, "device-type-id", "", "filter by device type ID")
	return cmd
}
