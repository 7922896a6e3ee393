package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

// Collection is the CRUD surface of one resource, decoding items as T.
type Collection[T any] struct {
	client   *Client
	resource Resource
}

// NewCollection binds a resource to a client.
func NewCollection[T any](c *Client, r Resource) *Collection[T] {
	return &Collection[T]{client: c, resource: r}
}

// Resource returns the bound resource.
func (c *Collection[T]) Resource() Resource {
	return c.resource
}

// List fetches the whole collection: GET /{resource}.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	body, err := c.client.doRequest(ctx, http.MethodGet, "/"+string(c.resource), nil, "")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.resource, err)
	}
	return decodeList[T](body, c.resource)
}

// BySlug fetches one item: GET /{resource}/slug/{slug}. A 404 matches
// ErrNotFound.
func (c *Collection[T]) BySlug(ctx context.Context, slug string) (*T, error) {
	path := fmt.Sprintf("/%s/slug/%s", c.resource, url.PathEscape(slug))
	body, err := c.client.doRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, fmt.Errorf("get %s %q: %w", c.resource, slug, err)
	}
	return decodeOne[T](body, c.resource)
}

// Create posts a multipart form: POST /{resource}/create.
func (c *Collection[T]) Create(ctx context.Context, f *Form) (*T, error) {
	return c.send(ctx, http.MethodPost, fmt.Sprintf("/%s/create", c.resource), f)
}

// Update replaces an item with a multipart form: PUT /{resource}/{id}.
func (c *Collection[T]) Update(ctx context.Context, id string, f *Form) (*T, error) {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/%s/%s", c.resource, url.PathEscape(id)), f)
}

// Delete removes an item: DELETE /{resource}/{id}.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("/%s/%s", c.resource, url.PathEscape(id))
	if _, err := c.client.doRequest(ctx, http.MethodDelete, path, nil, ""); err != nil {
		return fmt.Errorf("delete %s %s: %w", c.resource, id, err)
	}
	return nil
}

func (c *Collection[T]) send(ctx context.Context, method, path string, f *Form) (*T, error) {
	body, contentType, err := f.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode %s form: %w", c.resource, err)
	}
	resp, err := c.client.doRequest(ctx, method, path, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, c.resource, err)
	}
	if len(resp) == 0 {
		return nil, nil
	}
	return decodeOne[T](resp, c.resource)
}

// envelopeKeys are the wrapper fields the API is known to use around
// payloads, checked in order.
func envelopeKeys(r Resource) []string {
	return []string{"data", string(r), "items", "result"}
}

// decodeList accepts a bare array or an object wrapping one. A null or
// absent array is an empty collection.
func decodeList[T any](body []byte, r Resource) ([]T, error) {
	raw := gjson.ParseBytes(body)
	switch {
	case raw.IsArray():
	case raw.Type == gjson.Null:
		return []T{}, nil
	case raw.IsObject():
		var found, present bool
		for _, k := range envelopeKeys(r) {
			v := raw.Get(k)
			if v.IsArray() {
				raw, found = v, true
				break
			}
			if v.Exists() && v.Type != gjson.Null {
				present = true
			}
		}
		if !found {
			if present {
				return nil, fmt.Errorf("decode %s: expected a JSON array", r)
			}
			return []T{}, nil
		}
	default:
		return nil, fmt.Errorf("decode %s: expected a JSON array", r)
	}
	out := []T{}
	if err := json.Unmarshal([]byte(raw.Raw), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r, err)
	}
	return out, nil
}

// decodeOne accepts a bare object or an object wrapping one.
func decodeOne[T any](body []byte, r Resource) (*T, error) {
	raw := gjson.ParseBytes(body)
	for _, k := range envelopeKeys(r) {
		if v := raw.Get(k); v.IsObject() {
			raw = v
			break
		}
	}
	if !raw.IsObject() {
		return nil, fmt.Errorf("decode %s: expected a JSON object", r)
	}
	var out T
	if err := json.Unmarshal([]byte(raw.Raw), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r, err)
	}
	return &out, nil
}
