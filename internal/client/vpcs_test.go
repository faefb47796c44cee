package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

func vpcList(vpcs []doapi.VPC) string {
	encoded, _ := json.Marshal(map[string]interface{}{"vpcs": vpcs})

	return string(encoded)
}

func TestVPCsCreate(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/vpcs", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var request doapi.VPCCreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "10.10.0.0/16", request.IPRange)

		writeJSON(t, w, http.StatusCreated,
			`{"vpc":{"id":"v-1","name":"prod-net","region":"nyc1","ip_range":"10.10.0.0/16"}}`)
	})

	c := newDropletServer(t, mux)

	result, err := c.VPCs().Create(context.Background(), &doapi.VPCCreateRequest{
		Name:       "prod-net",
		RegionSlug: "nyc1",
		IPRange:    "10.10.0.0/16",
	})
	require.NoError(t, err)
	assert.False(t, result.Conflicted())
	assert.Equal(t, "v-1", result.Resource().ID)
}

func TestVPCsGetByName(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/vpcs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, vpcList([]doapi.VPC{
			{ID: "v-1", Name: "default-nyc1", Default: true},
			{ID: "v-2", Name: "prod-net"},
		}))
	})

	c := newDropletServer(t, mux)

	vpc, err := c.VPCs().GetByName(context.Background(), "prod-net")
	require.NoError(t, err)
	assert.Equal(t, "v-2", vpc.ID)
}

func TestVPCsDelete(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/vpcs/v-2", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	c := newDropletServer(t, mux)

	assert.NoError(t, c.VPCs().Delete(context.Background(), "v-2"))
}
