package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

func TestUnmarshalKey(t *testing.T) {
	t.Parallel()

	body := []byte(`{"droplet":{"id":42,"name":"web-1","status":"active"}}`)

	droplet, err := unmarshalKey[doapi.Droplet](body, "droplet")
	require.NoError(t, err)
	assert.Equal(t, int64(42), droplet.ID)
	assert.Equal(t, "web-1", droplet.Name)
}

func TestUnmarshalKeyMissingField(t *testing.T) {
	t.Parallel()

	_, err := unmarshalKey[doapi.Droplet]([]byte(`{"links":{}}`), "droplet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"droplet"`)
}

func TestUnmarshalKeyInvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := unmarshalKey[doapi.Droplet]([]byte(`not json`), "droplet")
	assert.Error(t, err)
}

func TestDecodePage(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"droplets": [{"id":1,"name":"web-1"},{"id":2,"name":"web-2"}],
		"links": {"pages": {"next": "https://api.digitalocean.com/v2/droplets?page=2"}},
		"meta": {"total": 23}
	}`)

	page, err := decodePage[doapi.Droplet](body, "droplets")
	require.NoError(t, err)
	require.Len(t, page.items, 2)
	assert.Equal(t, "web-1", page.items[0].Name)
	assert.Equal(t, "https://api.digitalocean.com/v2/droplets?page=2", page.next)
}

func TestDecodePageLastPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "no links", body: `{"droplets": []}`},
		{name: "empty pages", body: `{"droplets": [], "links": {"pages": {}}}`},
		{name: "only prev", body: `{"droplets": [], "links": {"pages": {"prev": "https://example.test?page=1"}}}`},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			page, err := decodePage[doapi.Droplet]([]byte(testCase.body), "droplets")
			require.NoError(t, err)
			assert.Empty(t, page.next)
		})
	}
}

func TestNextPagePath(t *testing.T) {
	t.Parallel()

	path, err := nextPagePath("https://api.digitalocean.com/v2/droplets?page=2&per_page=50")
	require.NoError(t, err)
	assert.Equal(t, "/v2/droplets?page=2&per_page=50", path)
}
