package doapi

import (
	"net/url"
	"strconv"
)

// ListOptions hold the query parameters accepted by list endpoints.
type ListOptions struct {
	// Page is the 1-based page to request. Zero means the server default.
	Page int
	// PerPage is the page size. Zero means the server default.
	PerPage int
	// Name filters by exact resource name where the endpoint supports it.
	Name string
	// Tag filters by tag where the endpoint supports it.
	Tag string
	// Region filters by region slug where the endpoint supports it.
	Region string
}

// ToValues converts the options to URL query values.
func (o *ListOptions) ToValues() url.Values {
	values := url.Values{}

	if o == nil {
		return values
	}

	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}

	if o.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(o.PerPage))
	}

	if o.Name != "" {
		values.Set("name", o.Name)
	}

	if o.Tag != "" {
		values.Set("tag_name", o.Tag)
	}

	if o.Region != "" {
		values.Set("region", o.Region)
	}

	return values
}
