package arcsight

import (
	"context"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
)

// eventRangeUnbounded disables the time window of getSecurityEvents
const eventRangeUnbounded = "-1"

// GetSecurityEvents fetches the details of events in a single request
func (c *client) GetSecurityEvents(ctx context.Context, ids []Long) ([]*Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := c.callWithToken(ctx, MethodPost, securityEventServiceEndpoint+"/getSecurityEvents", func(token string) (url.Values, any) {
		return nil, map[string]any{
			"sev.getSecurityEvents": map[string]any{
				"sev.authToken":   token,
				"sev.ids":         ids,
				"sev.startMillis": eventRangeUnbounded,
				"sev.endMillis":   eventRangeUnbounded,
			},
		}
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get security events", goerr.V("count", len(ids)))
	}

	events, _, err := decodeReturn[oneOrMany[*Event]](resp, "sev", "getSecurityEvents")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode security events")
	}

	result := make([]*Event, 0, len(events))
	for _, ev := range events {
		if ev != nil {
			result = append(result, ev)
		}
	}
	return result, nil
}
