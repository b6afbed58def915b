package researchapi

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// Page is the single boundary adapter for listing responses. The backend
// answers some listings with a bare JSON array and others with a paginated
// envelope; both end up here.
type Page[T any] struct {
	Count    int
	Next     string
	Previous string
	Results  []T
	// Skipped holds decode errors for items that were dropped.
	Skipped []error
}

// NewPage builds a page from a decoded JSON value. A bare array becomes the
// results, an object contributes its `results` array and pagination fields.
// Anything else yields an empty page.
func NewPage[T any](raw any) *Page[T] {
	page := &Page[T]{Results: []T{}}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
		page.Count = len(v)
	case map[string]any:
		results, ok := v["results"].([]any)
		if !ok {
			return page
		}
		items = results
		page.Count = len(results)
		if count, ok := v["count"].(float64); ok {
			page.Count = int(count)
		}
		page.Next, _ = v["next"].(string)
		page.Previous, _ = v["previous"].(string)
	default:
		return page
	}

	for idx, item := range items {
		var out T
		if err := decodeItem(item, &out); err != nil {
			page.Skipped = append(page.Skipped, fmt.Errorf("item %d: %w", idx, err))
			continue
		}
		page.Results = append(page.Results, out)
	}

	return page
}

func (p *Page[T]) Len() int {
	return len(p.Results)
}

func decodeItem(item any, out any) error {
	if _, ok := item.(map[string]any); !ok {
		return fmt.Errorf("expected object, got %T", item)
	}

	cfg := &mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			liftReferenceHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(item)
}

var referenceTypes = map[reflect.Type]bool{
	reflect.TypeOf(Professor{}):  true,
	reflect.TypeOf(StudentRef{}): true,
}

// liftReferenceHook turns a bare id ("professor": "p1") into {"id": "p1"} so
// non-nested serializations decode into the same reference structs.
func liftReferenceHook(from, to reflect.Type, data any) (any, error) {
	if !referenceTypes[to] {
		return data, nil
	}

	switch from.Kind() {
	case reflect.String, reflect.Float64, reflect.Int:
		return map[string]any{"id": data}, nil
	default:
		return data, nil
	}
}

// getPaged fetches a listing and follows `next` links until the last page.
func getPaged[T any](ctx context.Context, c *Client, endpoint, path string, q url.Values) ([]T, error) {
	results := []T{}

	next, query := path, q
	for pages := 0; next != "" && pages < maxPages; pages++ {
		var raw any
		if err := c.getJSON(ctx, endpoint, next, query, &raw); err != nil {
			return nil, err
		}

		page := NewPage[T](raw)
		for _, err := range page.Skipped {
			c.logger.Warn("skipping malformed item", zap.String("endpoint", endpoint), zap.Error(err))
		}

		results = append(results, page.Results...)

		// Pagination links already carry the query string.
		next, query = page.Next, nil
	}

	return results, nil
}
