package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

func databaseList(clusters []doapi.DatabaseCluster) string {
	encoded, _ := json.Marshal(map[string]interface{}{"databases": clusters})

	return string(encoded)
}

func TestDatabasesCreateAndWaitOnline(t *testing.T) {
	t.Parallel()

	var polls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/databases", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		writeJSON(t, w, http.StatusCreated,
			`{"database":{"id":"db-1","name":"orders","engine":"pg","status":"creating"}}`)
	})
	mux.HandleFunc("/v2/databases/db-1", func(w http.ResponseWriter, _ *http.Request) {
		status := doapi.DatabaseStatusCreating
		if polls.Add(1) >= 3 {
			status = doapi.DatabaseStatusOnline
		}

		writeJSON(t, w, http.StatusOK,
			fmt.Sprintf(`{"database":{"id":"db-1","name":"orders","engine":"pg","status":"%s"}}`, status))
	})

	c := newDropletServer(t, mux)
	ctx := context.Background()

	result, err := c.Databases().Create(ctx, &doapi.DatabaseClusterCreateRequest{
		Name:       "orders",
		EngineSlug: "pg",
		RegionSlug: "nyc1",
		SizeSlug:   "db-s-1vcpu-1gb",
		NumNodes:   1,
	})
	require.NoError(t, err)
	require.False(t, result.Conflicted())
	assert.Equal(t, doapi.DatabaseStatusCreating, result.Resource().Status)

	cluster, err := c.Databases().WaitForStatus(ctx, result.Resource().ID, doapi.DatabaseStatusOnline, 0)
	require.NoError(t, err)
	assert.Equal(t, doapi.DatabaseStatusOnline, cluster.Status)
}

func TestDatabasesGetByName(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/databases", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, databaseList([]doapi.DatabaseCluster{
			{ID: "db-1", Name: "orders", EngineSlug: "pg"},
			{ID: "db-2", Name: "sessions", EngineSlug: "redis"},
		}))
	})

	c := newDropletServer(t, mux)

	cluster, err := c.Databases().GetByName(context.Background(), "sessions")
	require.NoError(t, err)
	assert.Equal(t, "db-2", cluster.ID)

	_, err = c.Databases().GetByName(context.Background(), "missing")
	assert.True(t, doapi.IsNotFound(err))
}

func TestDatabasesDelete(t *testing.T) {
	t.Parallel()

	var deleted atomic.Bool

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/databases/db-1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted.Store(true)
		w.WriteHeader(http.StatusNoContent)
	})

	c := newDropletServer(t, mux)

	require.NoError(t, c.Databases().Delete(context.Background(), "db-1"))
	assert.True(t, deleted.Load())
}
