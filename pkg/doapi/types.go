package doapi

import (
	"time"
)

// Links holds the pagination links returned inside every list response.
type Links struct {
	Pages *Pages `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Pages contains the page URLs of a list response. Absent fields mean the
// current page is the first and/or last one.
type Pages struct {
	First string `json:"first,omitempty" yaml:"first,omitempty"`
	Prev  string `json:"prev,omitempty"  yaml:"prev,omitempty"`
	Next  string `json:"next,omitempty"  yaml:"next,omitempty"`
	Last  string `json:"last,omitempty"  yaml:"last,omitempty"`
}

// Meta carries list-level metadata.
type Meta struct {
	Total int `json:"total" yaml:"total"`
}

// Region identifies a datacenter region.
type Region struct {
	Slug      string   `json:"slug"      yaml:"slug"`
	Name      string   `json:"name"      yaml:"name"`
	Available bool     `json:"available" yaml:"available"`
	Sizes     []string `json:"sizes"     yaml:"sizes"`
}

// Droplet statuses reported by the provider.
const (
	DropletStatusNew     = "new"
	DropletStatusActive  = "active"
	DropletStatusOff     = "off"
	DropletStatusArchive = "archive"
)

// Droplet represents a compute instance.
type Droplet struct {
	ID        int64           `json:"id"         yaml:"id"`
	Name      string          `json:"name"       yaml:"name"`
	Status    string          `json:"status"     yaml:"status"`
	Region    Region          `json:"region"     yaml:"region"`
	SizeSlug  string          `json:"size_slug"  yaml:"size_slug"`
	Tags      []string        `json:"tags"       yaml:"tags"`
	Networks  DropletNetworks `json:"networks"   yaml:"networks"`
	VPCID     string          `json:"vpc_uuid"   yaml:"vpc_uuid"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}

// DropletNetworks groups the network interfaces attached to a droplet.
type DropletNetworks struct {
	V4 []NetworkV4 `json:"v4" yaml:"v4"`
}

// NetworkV4 is one IPv4 interface of a droplet.
type NetworkV4 struct {
	IPAddress string `json:"ip_address" yaml:"ip_address"`
	Type      string `json:"type"       yaml:"type"` // "public" or "private"
}

// PublicIPv4 returns the droplet's public IPv4 address, or "" if the
// interface has not been initialized yet.
func (d *Droplet) PublicIPv4() string {
	for _, network := range d.Networks.V4 {
		if network.Type == "public" {
			return network.IPAddress
		}
	}

	return ""
}

// DropletCreateRequest is the body of a droplet creation call.
type DropletCreateRequest struct {
	Name       string   `json:"name"`
	RegionSlug string   `json:"region"`
	SizeSlug   string   `json:"size"`
	ImageSlug  string   `json:"image"`
	SSHKeys    []string `json:"ssh_keys,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	VPCID      string   `json:"vpc_uuid,omitempty"`
}

// Database cluster statuses reported by the provider.
const (
	DatabaseStatusCreating  = "creating"
	DatabaseStatusOnline    = "online"
	DatabaseStatusResizing  = "resizing"
	DatabaseStatusMigrating = "migrating"
)

// DatabaseCluster represents a managed database cluster.
type DatabaseCluster struct {
	ID         string    `json:"id"          yaml:"id"`
	Name       string    `json:"name"        yaml:"name"`
	EngineSlug string    `json:"engine"      yaml:"engine"`
	Version    string    `json:"version"     yaml:"version"`
	Status     string    `json:"status"      yaml:"status"`
	RegionSlug string    `json:"region"      yaml:"region"`
	SizeSlug   string    `json:"size"        yaml:"size"`
	NumNodes   int       `json:"num_nodes"   yaml:"num_nodes"`
	CreatedAt  time.Time `json:"created_at"  yaml:"created_at"`
}

// DatabaseClusterCreateRequest is the body of a database cluster creation call.
type DatabaseClusterCreateRequest struct {
	Name       string   `json:"name"`
	EngineSlug string   `json:"engine"`
	Version    string   `json:"version,omitempty"`
	RegionSlug string   `json:"region"`
	SizeSlug   string   `json:"size"`
	NumNodes   int      `json:"num_nodes"`
	Tags       []string `json:"tags,omitempty"`
}

// Kubernetes cluster states reported by the provider.
const (
	KubernetesStateProvisioning = "provisioning"
	KubernetesStateRunning      = "running"
	KubernetesStateDegraded     = "degraded"
	KubernetesStateDeleting     = "deleting"
	KubernetesStateDeleted      = "deleted"
	KubernetesStateError        = "error"
)

// KubernetesCluster represents a managed Kubernetes cluster.
type KubernetesCluster struct {
	ID          string               `json:"id"          yaml:"id"`
	Name        string               `json:"name"        yaml:"name"`
	RegionSlug  string               `json:"region"      yaml:"region"`
	VersionSlug string               `json:"version"     yaml:"version"`
	Endpoint    string               `json:"endpoint"    yaml:"endpoint"`
	Status      KubernetesStatus     `json:"status"      yaml:"status"`
	NodePools   []KubernetesNodePool `json:"node_pools"  yaml:"node_pools"`
	Tags        []string             `json:"tags"        yaml:"tags"`
	VPCID       string               `json:"vpc_uuid"    yaml:"vpc_uuid"`
	CreatedAt   time.Time            `json:"created_at"  yaml:"created_at"`
}

// KubernetesStatus is the state block of a Kubernetes cluster.
type KubernetesStatus struct {
	State   string `json:"state"             yaml:"state"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// KubernetesNodePool is one node pool of a cluster.
type KubernetesNodePool struct {
	ID       string `json:"id"    yaml:"id"`
	Name     string `json:"name"  yaml:"name"`
	SizeSlug string `json:"size"  yaml:"size"`
	Count    int    `json:"count" yaml:"count"`
}

// KubernetesClusterCreateRequest is the body of a cluster creation call.
type KubernetesClusterCreateRequest struct {
	Name        string                            `json:"name"`
	RegionSlug  string                            `json:"region"`
	VersionSlug string                            `json:"version"`
	NodePools   []KubernetesNodePoolCreateRequest `json:"node_pools"`
	Tags        []string                          `json:"tags,omitempty"`
	VPCID       string                            `json:"vpc_uuid,omitempty"`
}

// KubernetesNodePoolCreateRequest describes one node pool to create.
type KubernetesNodePoolCreateRequest struct {
	Name     string `json:"name"`
	SizeSlug string `json:"size"`
	Count    int    `json:"count"`
}

// Registry represents the account's container registry. The provider allows
// at most one registry per account, addressed by name.
type Registry struct {
	Name       string    `json:"name"                   yaml:"name"`
	RegionSlug string    `json:"region,omitempty"       yaml:"region,omitempty"`
	Tier       string    `json:"subscription_tier_slug" yaml:"subscription_tier_slug"`
	CreatedAt  time.Time `json:"created_at"             yaml:"created_at"`
}

// RegistryCreateRequest is the body of a registry creation call.
type RegistryCreateRequest struct {
	Name       string `json:"name"`
	RegionSlug string `json:"region,omitempty"`
	Tier       string `json:"subscription_tier_slug"`
}

// VPC represents a virtual private network.
type VPC struct {
	ID         string    `json:"id"          yaml:"id"`
	Name       string    `json:"name"        yaml:"name"`
	RegionSlug string    `json:"region"      yaml:"region"`
	IPRange    string    `json:"ip_range"    yaml:"ip_range"`
	Default    bool      `json:"default"     yaml:"default"`
	CreatedAt  time.Time `json:"created_at"  yaml:"created_at"`
}

// VPCCreateRequest is the body of a VPC creation call.
type VPCCreateRequest struct {
	Name       string `json:"name"`
	RegionSlug string `json:"region"`
	IPRange    string `json:"ip_range,omitempty"`
}

// Project represents a project grouping resources.
type Project struct {
	ID          string    `json:"id"          yaml:"id"`
	Name        string    `json:"name"        yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Purpose     string    `json:"purpose"     yaml:"purpose"`
	Environment string    `json:"environment" yaml:"environment"`
	IsDefault   bool      `json:"is_default"  yaml:"is_default"`
	CreatedAt   time.Time `json:"created_at"  yaml:"created_at"`
}

// RateLimit reflects the provider's rate-limit headers as observed on the
// most recent response. The provider enforces an hourly quota and a
// per-minute burst quota.
type RateLimit struct {
	// LimitPerHour is the hourly request quota (RateLimit-Limit).
	LimitPerHour int
	// LimitPerMinute is the burst quota (RateLimit-Burst-Limit).
	LimitPerMinute int
	// Remaining is the number of requests left in the current window.
	Remaining int
	// Reset is the instant the current window ends.
	Reset time.Time
	// RetryAfter is the server's explicit wait instruction, when present.
	RetryAfter time.Duration
}

// SleepDuration returns how long a caller must wait before issuing another
// request. An explicit Retry-After takes precedence over the reset instant
// because it reflects the provider's immediate instruction. The result is
// never negative.
func (r RateLimit) SleepDuration(now time.Time) time.Duration {
	if r.RetryAfter > 0 {
		return r.RetryAfter
	}

	if r.Reset.IsZero() {
		return 0
	}

	remaining := r.Reset.Sub(now)
	if remaining < 0 {
		return 0
	}

	return remaining
}
