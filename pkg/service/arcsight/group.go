package arcsight

import (
	"context"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
)

// GetGroupByURI resolves a group URI. It returns nil, nil when the group does not exist.
func (c *client) GetGroupByURI(ctx context.Context, uri string) (*Group, error) {
	resp, err := c.callWithToken(ctx, MethodPost, groupServiceEndpoint+"/getGroupByURI", func(token string) (url.Values, any) {
		return nil, map[string]any{
			"gro.getGroupByURI": map[string]any{
				"gro.authToken": token,
				"gro.uri":       uri,
			},
		}
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get group", goerr.V("uri", uri))
	}

	group, found, err := decodeReturn[Group](resp, "gro", "getGroupByURI")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode group", goerr.V("uri", uri))
	}
	if !found {
		return nil, nil
	}

	return &group, nil
}

// GetChildIDByName returns the resource ID of the child named name, or "" if there is none
func (c *client) GetChildIDByName(ctx context.Context, groupID, name string) (string, error) {
	resp, err := c.callWithToken(ctx, MethodPost, groupServiceEndpoint+"/getChildIDByChildNameOrAlias", func(token string) (url.Values, any) {
		return nil, map[string]any{
			"gro.getChildIDByChildNameOrAlias": map[string]any{
				"gro.authToken": token,
				"gro.groupId":   groupID,
				"gro.name":      name,
			},
		}
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to look up group child",
			goerr.V("group_id", groupID),
			goerr.V("name", name))
	}

	id, _, err := decodeReturn[string](resp, "gro", "getChildIDByChildNameOrAlias")
	if err != nil {
		return "", goerr.Wrap(err, "failed to decode group child")
	}

	return id, nil
}
