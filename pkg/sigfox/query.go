package sigfox

import (
	"net/url"
	"strconv"
)

// ServicePageLimit is the documented per-page maximum enforced by the
// Sigfox v2 API. The SDK passes the caller's limit through unmodified;
// this constant exists for callers that want to size their pages against
// the service ceiling.
const ServicePageLimit = 100

// Filter parameter keys accepted by the list endpoints. Values are passed
// through verbatim; multi-value filters (group IDs, parent IDs) take a
// comma-separated list as the service expects.
const (
	FilterDeviceTypeID = "deviceTypeId"
	FilterGroupIDs     = "groupIds"
	FilterParentIDs    = "parentIds"
	FilterName         = "name"
	FilterTypes        = "types"
	FilterFields       = "fields"
	FilterProfileID    = "profileId"
	FilterSince        = "since"
	FilterBefore       = "before"
	FilterPageID       = "pageId"
	FilterGroupID      = "groupId"
)

// ListQuery carries pagination and filtering for a single list call.
// The zero value requests the service defaults. One ListQuery maps to
// exactly one page — the SDK never paginates on its own.
type ListQuery struct {
	Limit   int
	Offset  int
	Deep    bool
	Sort    string
	Filters map[string]string
}

// Values encodes the query as URL parameters. Limit and offset are
// emitted only when positive, deep only when set, and filter entries
// only when non-empty.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Deep {
		v.Set("deep", "true")
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	for key, val := range q.Filters {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}
