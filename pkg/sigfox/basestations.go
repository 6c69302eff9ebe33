package sigfox

import (
	"context"
	"net/url"
)

// BaseStationsService exposes data recorded by Sigfox base stations.
type BaseStationsService struct {
	c *Client
}

// Messages returns one page of the messages received by a base station.
// Station IDs are hexadecimal. FilterSince and FilterBefore bound the
// window in millisecond Unix timestamps; FilterFields requests nested
// detail fields (e.g. "rinfos(cbStatus,rep)").
func (s *BaseStationsService) Messages(ctx context.Context, stationID string, q ListQuery) ([]Message, error) {
	if stationID == "" {
		return nil, &APIError{Kind: KindValidation, Message: "base station id is required"}
	}
	return listResources[Message](ctx, s.c, "/base-stations/"+url.PathEscape(stationID)+"/messages", q)
}
