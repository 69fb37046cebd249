package usecase

import (
	"fmt"

	"github.com/secmon-lab/arcsight-connector/pkg/domain/model"
	"github.com/secmon-lab/arcsight-connector/pkg/service/arcsight"
)

// containerFromCase maps a case to a container keyed by the case resource ID
func containerFromCase(caseID string, c *arcsight.Case) *model.Container {
	return &model.Container{
		SourceDataIdentifier: caseID,
		Name:                 c.Name,
		Description:          c.Description,
		StartTime:            arcsight.ToTimestamp(c.CreatedTimestamp),
		Data: map[string]any{
			"case_detail": c.Raw,
		},
	}
}

// artifactFromEvent maps the i-th event of a case to an artifact. It returns nil when
// the event carries no usable source or destination field.
func artifactFromEvent(i int, ev *arcsight.Event) *model.Artifact {
	cef := eventCEF(ev)
	if len(cef) == 0 {
		return nil
	}

	name := ev.Name
	if name == "" {
		name = fmt.Sprintf("Artifact # %d", i)
	}

	return &model.Artifact{
		SourceDataIdentifier: ev.EventID.String(),
		Name:                 name,
		StartTime:            arcsight.ToTimestamp(ev.StartTime),
		EndTime:              arcsight.ToTimestamp(ev.EndTime),
		CEF:                  cef,
		Data:                 ev.Raw,
	}
}

func eventCEF(ev *arcsight.Event) map[string]string {
	cef := map[string]string{}

	set := func(key, value string) {
		if value != "" {
			cef[key] = value
		}
	}

	if src := ev.Source; src != nil {
		set(model.CEFSourceUserName, src.UserName)
		set(model.CEFSourceAddress, arcsight.ToIP(src.Address))
		set(model.CEFSourceMacAddress, arcsight.ToMAC(src.MacAddress))
		set(model.CEFSourcePort, arcsight.ToPort(src.Port))
		set(model.CEFSourceHostName, src.HostName)
	}

	if dst := ev.Destination; dst != nil {
		set(model.CEFDestinationUserName, dst.UserName)
		set(model.CEFDestinationAddress, arcsight.ToIP(dst.Address))
		set(model.CEFDestinationMacAddress, arcsight.ToMAC(dst.MacAddress))
		set(model.CEFDestinationPort, arcsight.ToPort(dst.Port))
		set(model.CEFDestinationHostName, dst.HostName)
	}

	return cef
}
