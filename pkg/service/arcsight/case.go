package arcsight

import (
	"context"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
)

// GetCase retrieves a case by resource ID
func (c *client) GetCase(ctx context.Context, caseID string) (*Case, error) {
	resp, err := c.callWithToken(ctx, MethodGet, caseServiceEndpoint+"/getResourceById", func(token string) (url.Values, any) {
		return url.Values{
			"authToken":  {token},
			"resourceId": {caseID},
		}, nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("case_id", caseID))
	}

	cs, found, err := decodeReturn[Case](resp, "cas", "getResourceById")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V("case_id", caseID))
	}
	if !found {
		return nil, goerr.Wrap(ErrMissingField, "case details are empty", goerr.V("case_id", caseID))
	}

	return &cs, nil
}

// FindAllCaseIDs lists the resource IDs of every case
func (c *client) FindAllCaseIDs(ctx context.Context) ([]string, error) {
	resp, err := c.callWithToken(ctx, MethodGet, caseServiceEndpoint+"/findAllIds", func(token string) (url.Values, any) {
		return url.Values{"authToken": {token}}, nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list case IDs")
	}

	ids, _, err := decodeReturn[oneOrMany[string]](resp, "cas", "findAllIds")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode case IDs")
	}

	return ids, nil
}

// InsertCase creates a case named name under group parentID
func (c *client) InsertCase(ctx context.Context, parentID, name string) (*Case, error) {
	resp, err := c.callWithToken(ctx, MethodPost, caseServiceEndpoint+"/insertResource", func(token string) (url.Values, any) {
		return nil, map[string]any{
			"cas.insertResource": map[string]any{
				"cas.authToken": token,
				"cas.resource":  map[string]any{"name": name},
				"cas.parentId":  parentID,
			},
		}
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case",
			goerr.V("parent_id", parentID),
			goerr.V("name", name))
	}

	cs, found, err := decodeReturn[Case](resp, "cas", "insertResource")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode created case")
	}
	if !found {
		return nil, goerr.Wrap(ErrMissingField, "create case response is empty",
			goerr.V("parent_id", parentID),
			goerr.V("name", name))
	}

	return &cs, nil
}

// UpdateCase pushes resource as the new state of the case
func (c *client) UpdateCase(ctx context.Context, resource map[string]any) (*Case, error) {
	resp, err := c.callWithToken(ctx, MethodPost, caseServiceEndpoint+"/update", func(token string) (url.Values, any) {
		return nil, map[string]any{
			"cas.update": map[string]any{
				"cas.authToken": token,
				"cas.resource":  resource,
			},
		}
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V("case_id", resource["resourceid"]))
	}

	cs, found, err := decodeReturn[Case](resp, "cas", "update")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode updated case")
	}
	if !found {
		return nil, goerr.Wrap(ErrMissingField, "update case response is empty",
			goerr.V("case_id", resource["resourceid"]))
	}

	return &cs, nil
}
