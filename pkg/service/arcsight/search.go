package arcsight

import (
	"context"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
)

// Search runs a ManagerSearchService query returning at most pageSize hits from startPosition
func (c *client) Search(ctx context.Context, query string, startPosition, pageSize int) (*SearchResult, error) {
	resp, err := c.callWithToken(ctx, MethodPost, managerSearchServiceEndpoint+"/search", func(token string) (url.Values, any) {
		return nil, map[string]any{
			"mss.search": map[string]any{
				"mss.authToken":     token,
				"mss.queryStr":      query,
				"mss.startPosition": startPosition,
				"mss.pageSize":      pageSize,
			},
		}
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to run search", goerr.V("query", query))
	}

	result, found, err := decodeReturn[SearchResult](resp, "mss", "search")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode search result")
	}
	if !found {
		return &SearchResult{
			SearchHits: []any{},
			Raw:        map[string]any{"searchHits": []any{}},
		}, nil
	}

	return &result, nil
}
