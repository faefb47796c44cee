package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	inthttp "github.com/cowwoc/digitalocean-sub002/internal/http"
	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
)

// The provider wraps every payload in an envelope keyed by resource kind:
// {"droplet": {...}}, {"droplets": [...], "links": {...}}. The helpers below
// are the only JSON plumbing the resource clients need.

// unmarshalKey extracts the value under key from a response envelope.
func unmarshalKey[T any](body []byte, key string) (*T, error) {
	var envelope map[string]json.RawMessage

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing response envelope: %w", err)
	}

	raw, ok := envelope[key]
	if !ok {
		return nil, fmt.Errorf("response envelope missing %q field", key)
	}

	var value T

	err = json.Unmarshal(raw, &value)
	if err != nil {
		return nil, fmt.Errorf("parsing %q field: %w", key, err)
	}

	return &value, nil
}

// listPage is one decoded page of a list response.
type listPage[T any] struct {
	items []T
	next  string
}

// decodePage extracts the element array under key plus the next-page link.
func decodePage[T any](body []byte, key string) (listPage[T], error) {
	var envelope struct {
		Links *doapi.Links `json:"links"`
	}

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return listPage[T]{}, fmt.Errorf("parsing list envelope: %w", err)
	}

	items, err := unmarshalKey[[]T](body, key)
	if err != nil {
		return listPage[T]{}, err
	}

	page := listPage[T]{items: *items}
	if envelope.Links != nil && envelope.Links.Pages != nil {
		page.next = envelope.Links.Pages.Next
	}

	return page, nil
}

// nextPagePath converts an absolute next-page URL into a request path. The
// provider hands back fully qualified links; the executor wants paths.
func nextPagePath(next string) (string, error) {
	parsed, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("parsing next page link %q: %w", next, err)
	}

	return parsed.RequestURI(), nil
}

// getResource fetches a single resource; 404 surfaces as a typed not-found.
func getResource[T any](ctx context.Context, httpClient *inthttp.Client, path, key string) (*T, error) {
	resp, err := httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	return unmarshalKey[T](resp.Body, key)
}

// listElements follows the provider's next-page links strictly in sequence,
// accumulating every element matching the predicate in page order. A nil
// predicate matches everything. Any page failure aborts the whole operation;
// partial accumulation is discarded.
func listElements[T any](
	ctx context.Context,
	httpClient *inthttp.Client,
	path string,
	query url.Values,
	key string,
	match func(*T) bool,
) ([]T, error) {
	var collected []T

	err := walkPages(ctx, httpClient, path, query, key, func(item *T) (bool, error) {
		if match == nil || match(item) {
			collected = append(collected, *item)
		}

		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return collected, nil
}

// firstElement returns the first element matching the predicate, fetching
// subsequent pages only while no match has been found. It returns (nil, nil)
// when no element matches.
func firstElement[T any](
	ctx context.Context,
	httpClient *inthttp.Client,
	path string,
	query url.Values,
	key string,
	match func(*T) bool,
) (*T, error) {
	var found *T

	err := walkPages(ctx, httpClient, path, query, key, func(item *T) (bool, error) {
		if match(item) {
			found = item

			return true, nil
		}

		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// walkPages drives the pagination: pages are fetched one at a time because
// the next-page link is only known after the previous page is parsed. The
// visit callback returns true to stop early.
func walkPages[T any](
	ctx context.Context,
	httpClient *inthttp.Client,
	path string,
	query url.Values,
	key string,
	visit func(*T) (bool, error),
) error {
	for {
		resp, err := httpClient.Get(ctx, path, query)
		if err != nil {
			return err
		}

		page, err := decodePage[T](resp.Body, key)
		if err != nil {
			return err
		}

		for i := range page.items {
			stop, err := visit(&page.items[i])
			if err != nil {
				return err
			}

			if stop {
				return nil
			}
		}

		if page.next == "" {
			return nil
		}

		path, err = nextPagePath(page.next)
		if err != nil {
			return err
		}

		// The next link embeds the full query.
		query = nil
	}
}

// createResource implements the create-or-return-existing protocol. On a
// naming conflict the existing resource is re-fetched by predicate; if it
// cannot be located its name is reserved by a pending deletion, and the
// caller gets that condition instead of a fabricated placeholder.
func createResource[T any](
	ctx context.Context,
	httpClient *inthttp.Client,
	path, key, name string,
	body interface{},
	refetch func(context.Context) (*T, error),
) (*doapi.CreateResult[T], error) {
	resp, err := httpClient.Post(ctx, path, body)
	if err != nil {
		var conflict *doapi.ConflictError
		if !errors.As(err, &conflict) {
			return nil, err
		}

		existing, err := refetch(ctx)
		if err != nil {
			if doapi.IsNotFound(err) {
				return nil, &doapi.PendingDeletionError{Name: name}
			}

			return nil, err
		}

		if existing == nil {
			return nil, &doapi.PendingDeletionError{Name: name}
		}

		return doapi.ConflictedWith(existing), nil
	}

	created, err := unmarshalKey[T](resp.Body, key)
	if err != nil {
		return nil, err
	}

	return doapi.Created(created), nil
}

// destroyResource deletes a resource, treating 404 as success: the goal is
// absence, and absence is what 404 reports.
func destroyResource(ctx context.Context, httpClient *inthttp.Client, path string) error {
	_, err := httpClient.Delete(ctx, path)
	if err != nil && !doapi.IsNotFound(err) {
		return err
	}

	return nil
}
