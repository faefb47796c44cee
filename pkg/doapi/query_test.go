package doapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

func TestListOptionsToValues(t *testing.T) {
	t.Parallel()

	opts := &doapi.ListOptions{
		Page:    2,
		PerPage: 50,
		Name:    "web-1",
		Tag:     "frontend",
		Region:  "nyc1",
	}

	values := opts.ToValues()
	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "50", values.Get("per_page"))
	assert.Equal(t, "web-1", values.Get("name"))
	assert.Equal(t, "frontend", values.Get("tag_name"))
	assert.Equal(t, "nyc1", values.Get("region"))
}

func TestListOptionsZeroValuesOmitted(t *testing.T) {
	t.Parallel()

	values := (&doapi.ListOptions{}).ToValues()
	assert.Empty(t, values)
}

func TestListOptionsNilSafe(t *testing.T) {
	t.Parallel()

	var opts *doapi.ListOptions

	assert.Empty(t, opts.ToValues())
}
