package sigfox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQueryValuesZeroValue(t *testing.T) {
	assert.Empty(t, ListQuery{}.Values())
}

func TestListQueryValues(t *testing.T) {
	q := ListQuery{
		Limit:  25,
		Offset: 50,
		Deep:   true,
		Sort:   "-creationTime",
		Filters: map[string]string{
			FilterDeviceTypeID: "5d3befc2f4b9d148b3f4b8a1",
			FilterGroupIDs:     "",
		},
	}
	v := q.Values()
	assert.Equal(t, "25", v.Get("limit"))
	assert.Equal(t, "50", v.Get("offset"))
	assert.Equal(t, "true", v.Get("deep"))
	assert.Equal(t, "-creationTime", v.Get("sort"))
	assert.Equal(t, "5d3befc2f4b9d148b3f4b8a1", v.Get("deviceTypeId"))

	// Empty filter values contribute nothing.
	_, present := v["groupIds"]
	assert.False(t, present)
}

func TestListQueryValuesOmitsNonPositivePagination(t *testing.T) {
	v := ListQuery{Limit: -1, Offset: -5}.Values()
	assert.Empty(t, v)
}
