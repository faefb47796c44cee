// Package doclient is the entry point for creating DigitalOcean API
// clients. It validates and normalizes the configuration, then hands off to
// the internal implementation.
package doclient
