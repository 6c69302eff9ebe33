// Package sigfox is a Go client for the Sigfox v2 device-management API.
//
// It covers devices, device types, groups, API users, portal users, base
// stations, contracts, and coverage predictions, with one typed method per
// operation and a uniform error taxonomy.
//
// # Connecting
//
//	c := sigfox.New(sigfox.DefaultBaseURL, apiLogin, apiPassword,
//	    sigfox.WithTimeout(30*time.Second),
//	)
//
// Every request carries HTTP Basic Authentication built from the API
// credentials. Credentials may be left empty at construction time;
// operations then fail with an Authentication error before any network
// call is made.
//
// # Listing and filtering
//
// List operations fetch exactly one page. Pagination and filtering travel
// in a ListQuery; filter keys are the Filter* constants:
//
//	devices, err := c.Devices.List(ctx, sigfox.ListQuery{
//	    Limit:  50,
//	    Offset: 10,
//	    Filters: map[string]string{
//	        sigfox.FilterDeviceTypeID: "5d8cdc8fea06bb6e41234567",
//	    },
//	})
//
// A query with Deep set searches the group hierarchy recursively. Zero
// matches yield an empty slice, not an error.
//
// # Partial updates
//
// Update payloads use pointer fields, so a field set to its zero value is
// still sent while an unset field is omitted entirely:
//
//	err := c.Devices.Update(ctx, "1A2B3C", sigfox.DeviceUpdate{
//	    Name:      sigfox.String("sensor-42"),
//	    Prototype: sigfox.Bool(false), // explicitly clears the flag
//	})
//
// # Errors
//
// Every failure is an *APIError with a Kind from the closed taxonomy
// (Authentication, NotFound, Validation, RateLimited, Network, Timeout,
// ServerError, Unknown). Retriable is advisory; the SDK never retries.
//
//	_, err := c.Devices.Get(ctx, id)
//	if sigfox.IsNotFound(err) {
//	    // device does not exist
//	}
package sigfox
