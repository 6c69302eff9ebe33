package sigfox

import (
	"context"
	"net/url"
	"strconv"
)

// CoveragesService predicts Sigfox network coverage for locations.
type CoveragesService struct {
	c *Client
}

// CoveragePrediction is the coverage estimate for a single location.
// Margins holds link margins in dB for 1, 2, and 3+ base-station
// redundancy, in that order.
type CoveragePrediction struct {
	LocationCovered bool      `json:"locationCovered"`
	Margins         []float64 `json:"margins,omitempty"`
}

// PredictionQuery locates a coverage prediction request. Lat and Lng are
// WGS 84 degrees; Radius (meters) and GroupID are optional.
type PredictionQuery struct {
	Lat     float64
	Lng     float64
	Radius  int
	GroupID string
}

// CoverageLocation is one lat/lng coordinate in a bulk prediction request.
type CoverageLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CoverageBulkRequest starts an asynchronous bulk prediction job over a
// list of locations.
type CoverageBulkRequest struct {
	Locations []CoverageLocation `json:"locations"`
	Radius    int                `json:"radius,omitempty"`
	GroupID   string             `json:"groupId,omitempty"`
}

// CoverageBulkJob identifies a started bulk prediction job.
type CoverageBulkJob struct {
	JobID string `json:"jobId"`
}

// CoverageBulkResult is the prediction for one location in a bulk response.
type CoverageBulkResult struct {
	Lat             float64   `json:"lat,omitempty"`
	Lng             float64   `json:"lng,omitempty"`
	LocationCovered bool      `json:"locationCovered,omitempty"`
	Margins         []float64 `json:"margins,omitempty"`
}

// CoverageBulkResponse is the state of a bulk prediction job. Results is
// only meaningful once JobDone is true.
type CoverageBulkResponse struct {
	JobDone bool                 `json:"jobDone"`
	Time    int64                `json:"time,omitempty"`
	Results []CoverageBulkResult `json:"results,omitempty"`
}

// RedundancyQuery locates an operator redundancy request. OperatorID is
// required for root Sigfox users; DeviceSituation is OUTDOOR, INDOOR or
// UNDERGROUND; DeviceClassID is the Sigfox device class (0 is valid, so
// the field is a pointer).
type RedundancyQuery struct {
	Lat             float64
	Lng             float64
	OperatorID      string
	DeviceSituation string
	DeviceClassID   *int
}

// CoverageRedundancy reports base-station redundancy for a location:
// 0 means no coverage, 3 means three or more base stations.
type CoverageRedundancy struct {
	Redundancy int `json:"redundancy"`
}

// GlobalPrediction returns the coverage prediction for one location.
func (s *CoveragesService) GlobalPrediction(ctx context.Context, q PredictionQuery) (*CoveragePrediction, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(q.Lng, 'f', -1, 64))
	if q.Radius > 0 {
		params.Set("radius", strconv.Itoa(q.Radius))
	}
	if q.GroupID != "" {
		params.Set("groupId", q.GroupID)
	}
	return getResource[CoveragePrediction](ctx, s.c, "/coverages/global/predictions", params)
}

// StartBulkPrediction starts an asynchronous prediction job covering many
// locations and returns its job ID. Poll BulkPrediction for the results.
func (s *CoveragesService) StartBulkPrediction(ctx context.Context, req CoverageBulkRequest) (*CoverageBulkJob, error) {
	if len(req.Locations) == 0 {
		return nil, &APIError{Kind: KindValidation, Message: "locations is required"}
	}
	return createResource[CoverageBulkJob](ctx, s.c, "/coverages/global/predictions/bulk", req)
}

// BulkPrediction fetches the state and results of a bulk prediction job.
func (s *CoveragesService) BulkPrediction(ctx context.Context, jobID string) (*CoverageBulkResponse, error) {
	if jobID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "job id is required"}
	}
	return getResource[CoverageBulkResponse](ctx, s.c, "/coverages/global/predictions/bulk/"+url.PathEscape(jobID), nil)
}

// OperatorRedundancy returns the base-station redundancy for one location.
func (s *CoveragesService) OperatorRedundancy(ctx context.Context, q RedundancyQuery) (*CoverageRedundancy, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(q.Lng, 'f', -1, 64))
	if q.OperatorID != "" {
		params.Set("operatorId", q.OperatorID)
	}
	if q.DeviceSituation != "" {
		params.Set("deviceSituation", q.DeviceSituation)
	}
	if q.DeviceClassID != nil {
		params.Set("deviceClassId", strconv.Itoa(*q.DeviceClassID))
	}
	return getResource[CoverageRedundancy](ctx, s.c, "/coverages/operators/redundancy", params)
}
