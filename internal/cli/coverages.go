package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nightswinger/sigfox-cli/pkg/sigfox"
)

func newCoveragesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverages",
		Short: "Predict network coverage",
	}
	cmd.AddCommand(
		newCoveragesPredictCmd(e),
		newCoveragesBulkStartCmd(e),
		newCoveragesBulkGetCmd(e),
		newCoveragesRedundancyCmd(e),
	)
	return cmd
}

func newCoveragesPredictCmd(e *env) *cobra.Command {
	var (
		q      sigfox.PredictionQuery
		format string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict coverage for a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			pred, err := e.client().Coverages.GlobalPrediction(cmd.Context(), q)
			if err != nil {
				return err
			}

			covered := "no"
			if pred.LocationCovered {
				covered = "yes"
			}
			e.output(format).Detail([][2]string{
				{"Location", fmt.Sprintf("%g, %g", q.Lat, q.Lng)},
				{"Covered", covered},
				{"Margins (dB)", formatMargins(pred.Margins)},
			}, pred)
			return nil
		},
	}
	cmd.Flags().Float64Var(&q.Lat, "lat", 0, "latitude in degrees (required)")
	cmd.Flags().Float64Var(&q.Lng, "lng", 0, "longitude in degrees (required)")
	cmd.Flags().IntVar(&q.Radius, "radius", 0, "radius in meters")
	cmd.Flags().StringVar(&q.GroupID, "group-id", "", "operator group ID")
	addOutputFlag(cmd, &format)
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}

func newCoveragesBulkStartCmd(e *env) *cobra.Command {
	var (
		locations string
		radius    int
		groupID   string
	)
	cmd := &cobra.Command{
		Use:   "bulk-start",
		Short: "Start a bulk coverage prediction job",
		Example: `  sigfox coverages bulk-start --locations '[{"lat": 48.86, "lng": 2.35}]'
  sigfox coverages bulk-start --locations '[{"lat": 48.86, "lng": 2.35}, {"lat": 51.51, "lng": -0.13}]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var locs []sigfox.CoverageLocation
			if err := json.Unmarshal([]byte(locations), &locs); err != nil {
				return fmt.Errorf("invalid --locations JSON: %w", err)
			}

			job, err := e.client().Coverages.StartBulkPrediction(cmd.Context(), sigfox.CoverageBulkRequest{
				Locations: locs,
				Radius:    radius,
				GroupID:   groupID,
			})
			if err != nil {
				return err
			}
			out := e.output("")
			out.Success(fmt.Sprintf("Bulk job started: %s", job.JobID))
			out.Info(fmt.Sprintf("Run: sigfox coverages bulk-get %s", job.JobID))
			return nil
		},
	}
	cmd.Flags().StringVar(&locations, "locations", "", `JSON array of locations, e.g. '[{"lat": 48.86, "lng": 2.35}]' (required)`)
	cmd.Flags().IntVar(&radius, "radius", 0, "estimated device location radius in meters")
	cmd.Flags().StringVar(&groupID, "group-id", "", "operator group ID")
	_ = cmd.MarkFlagRequired("locations")
	return cmd
}

func newCoveragesBulkGetCmd(e *env) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "bulk-get <job-id>",
		Short: "Fetch results of a bulk coverage prediction job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := e.client().Coverages.BulkPrediction(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !resp.JobDone {
				e.output("").Info("Job is still processing. Try again later.")
				return nil
			}
			rows := make([][]string, len(resp.Results))
			for i, r := range resp.Results {
				covered := "no"
				if r.LocationCovered {
					covered = "yes"
				}
				rows[i] = []string{
					strconv.FormatFloat(r.Lat, 'f', 4, 64),
					strconv.FormatFloat(r.Lng, 'f', 4, 64),
					covered,
					formatMargins(r.Margins),
				}
			}
			e.output(format).List([]string{"LAT", "LNG", "COVERED", "MARGINS (DB)"}, rows, resp)
			return nil
		},
	}
	addOutputFlag(cmd, &format)
	return cmd
}

func newCoveragesRedundancyCmd(e *env) *cobra.Command {
	var (
		q             sigfox.RedundancyQuery
		deviceClassID int
		format        string
	)
	cmd := &cobra.Command{
		Use:   "operator-redundancy",
		Short: "Show base-station redundancy for a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("device-class-id") {
				q.DeviceClassID = sigfox.Int(deviceClassID)
			}
			red, err := e.client().Coverages.OperatorRedundancy(cmd.Context(), q)
			if err != nil {
				return err
			}

			e.output(format).Detail([][2]string{
				{"Location", fmt.Sprintf("%g, %g", q.Lat, q.Lng)},
				{"Redundancy", strconv.Itoa(red.Redundancy)},
			}, red)
			return nil
		},
	}
	cmd.Flags().Float64Var(&q.Lat, "lat", 0, "latitude in degrees (required)")
	cmd.Flags().Float64Var(&q.Lng, "lng", 0, "longitude in degrees (required)")
	cmd.Flags().StringVar(&q.OperatorID, "operator-id", "", "operator group ID (required for root users)")
	cmd.Flags().StringVar(&q.DeviceSituation, "device-situation", "", "installation context: OUTDOOR, INDOOR or UNDERGROUND")
	cmd.Flags().IntVar(&deviceClassID, "device-class-id", 0, "Sigfox device class (0-3)")
	addOutputFlag(cmd, &format)
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}

func formatMargins(margins []float64) string {
	if len(margins) == 0 {
		return "-"
	}
	parts := make([]string, len(margins))
	for i, m := range margins {
		parts[i] = strconv.FormatFloat(m, 'f', 1, 64)
	}
	return strings.Join(parts, " / ")
}
