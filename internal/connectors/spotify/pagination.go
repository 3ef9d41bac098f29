package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/logger"
)

// FetchAll walks a paginated collection starting at startURL and returns
// every item in page order. Any failing page aborts the walk and nothing is
// returned.
func FetchAll[T any](ctx context.Context, c *Client, startURL string) ([]T, error) {
	var all []T
	pages := 0

	for current := startURL; current != ""; {
		body, err := c.Do(ctx, Request{Method: http.MethodGet, URL: current}, domain.ErrPaginationHTTP)
		if err != nil {
			return nil, err
		}
		pages++

		items, next, err := decodePage[T](body)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d (%s): %v", domain.ErrPaginationDecode, pages, current, err)
		}
		all = append(all, items...)

		if next != "" {
			next, err = resolveNext(current, next)
			if err != nil {
				return nil, fmt.Errorf("%w: page %d: %v", domain.ErrPaginationDecode, pages, err)
			}
			if next == current {
				return nil, fmt.Errorf("%w: page %d: next cursor does not advance", domain.ErrPaginationDecode, pages)
			}
		}
		current = next
	}

	logger.Debug("pagination complete", "url", startURL, "pages", pages, "items", len(all))
	if all == nil {
		all = []T{}
	}
	return all, nil
}

// decodePage extracts the items and the next cursor from a page body.
func decodePage[T any](body []byte) ([]T, string, error) {
	if !gjson.ValidBytes(body) {
		return nil, "", errors.New("invalid JSON")
	}
	raw := gjson.GetBytes(body, "items")
	if !raw.IsArray() {
		return nil, "", errors.New("missing items array")
	}
	var items []T
	if err := json.Unmarshal([]byte(raw.Raw), &items); err != nil {
		return nil, "", err
	}

	next := gjson.GetBytes(body, "next")
	switch next.Type {
	case gjson.Null:
		return items, "", nil
	case gjson.String:
		return items, next.Str, nil
	default:
		return nil, "", errors.New("next is neither a string nor null")
	}
}

// resolveNext resolves a possibly relative next URL against the current one.
func resolveNext(current, next string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(next)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
