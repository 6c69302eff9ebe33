package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nightswinger/sigfox-cli/pkg/sigfox"
)

func newBaseStationsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "base-stations",
		Short: "Inspect base station data",
	}
	cmd.AddCommand(newBaseStationsMessagesCmd(e))
	return cmd
}

func newBaseStationsMessagesCmd(e *env) *cobra.Command {
	var (
		q             sigfox.ListQuery
		since, before int64
		format        string
	)
	cmd := &cobra.Command{
		Use:   "messages <station-id>",
		Short: "List messages received by a base station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Filters = map[string]string{}
			if since > 0 {
				q.Filters[sigfox.FilterSince] = strconv.FormatInt(since, 10)
			}
			if before > 0 {
				q.Filters[sigfox.FilterBefore] = strconv.FormatInt(before, 10)
			}
			messages, err := e.client().BaseStations.Messages(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}

			rows := make([][]string, len(messages))
			for i, m := range messages {
				deviceID := "-"
				if m.Device != nil {
					deviceID = orDash(m.Device.ID)
				}
				rows[i] = []string{formatTime(m.Time), deviceID, orDash(m.Data), strconv.Itoa(m.SeqNumber), orDash(m.Country)}
			}
			e.output(format).List([]string{"TIME", "DEVICE", "DATA", "SEQ", "COUNTRY"}, rows, messages)
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
