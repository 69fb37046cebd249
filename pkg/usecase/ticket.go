package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/service/arcsight"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
)

// DefaultParentGroup is the group new cases are created under
const DefaultParentGroup = "/All Cases/All Cases"

type TicketUseCase struct {
	arcsight arcsight.Service
}

func NewTicketUseCase(svc arcsight.Service) *TicketUseCase {
	return &TicketUseCase{arcsight: svc}
}

// CreateTicketResult is the outcome of CreateTicket
type CreateTicketResult struct {
	Case *arcsight.Case
	// Created is false when a case with the same name already existed in the group
	Created bool
}

// NormalizeGroupPath ensures a leading slash and strips trailing slashes
func NormalizeGroupPath(group string) string {
	group = strings.TrimSpace(group)
	if group == "" {
		group = DefaultParentGroup
	}
	if !strings.HasPrefix(group, "/") {
		group = "/" + group
	}
	return strings.TrimRight(group, "/")
}

// CreateTicket creates a case named name under parentGroup. An existing case with the
// same name in that group is returned instead of creating a duplicate.
func (uc *TicketUseCase) CreateTicket(ctx context.Context, parentGroup, name string) (*CreateTicketResult, error) {
	if name == "" {
		return nil, goerr.Wrap(ErrMissingParameter, "case name is required", goerr.V(ParameterKey, "name"))
	}

	if err := uc.arcsight.Login(ctx); err != nil {
		return nil, goerr.Wrap(err, "unable to login")
	}

	group := NormalizeGroupPath(parentGroup)

	details, err := uc.arcsight.GetGroupByURI(ctx, group)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get parent group", goerr.V(GroupKey, group))
	}
	if details == nil || details.ResourceID == "" {
		return nil, goerr.Wrap(ErrGroupNotFound, "unable to get the group id of group", goerr.V(GroupKey, group))
	}

	logger := logging.From(ctx)
	logger.Info("Got parent group ID", slog.String("group", group), slog.String("group_id", details.ResourceID))

	existingID, err := uc.arcsight.GetChildIDByName(ctx, details.ResourceID, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up existing case", goerr.V(GroupKey, group))
	}

	if existingID != "" {
		c, err := uc.arcsight.GetCase(ctx, existingID)
		if err != nil {
			return nil, goerr.Wrap(err, "unable to get case information", goerr.V(CaseIDKey, existingID))
		}
		logger.Info("Case already existed", slog.String("case_id", existingID))
		return &CreateTicketResult{Case: c, Created: false}, nil
	}

	c, err := uc.arcsight.InsertCase(ctx, details.ResourceID, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case", goerr.V(GroupKey, group))
	}

	logger.Info("New case created", slog.String("case_id", c.ResourceID))
	return &CreateTicketResult{Case: c, Created: true}, nil
}

// ParseUpdateFields decodes the update_fields parameter. It must be a JSON object.
func ParseUpdateFields(raw string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, goerr.Wrap(ErrInvalidUpdateFields, "unable to load the input 'update_fields' json",
			goerr.V("error", err.Error()))
	}
	if fields == nil {
		return nil, goerr.Wrap(ErrInvalidUpdateFields, "'update_fields' must be a JSON object")
	}
	return fields, nil
}

// UpdateTicket merges fields into the case resource and pushes the result back
func (uc *TicketUseCase) UpdateTicket(ctx context.Context, caseID string, fields map[string]any) (*arcsight.Case, error) {
	if caseID == "" {
		return nil, goerr.Wrap(ErrMissingParameter, "case id is required", goerr.V(ParameterKey, "id"))
	}
	if fields == nil {
		return nil, goerr.Wrap(ErrInvalidUpdateFields, "'update_fields' must be a JSON object")
	}

	if err := uc.arcsight.Login(ctx); err != nil {
		return nil, goerr.Wrap(err, "unable to login")
	}

	current, err := uc.arcsight.GetCase(ctx, caseID)
	if err != nil {
		return nil, goerr.Wrap(err, "unable to get case information", goerr.V(CaseIDKey, caseID))
	}

	resource := make(map[string]any, len(current.Raw)+len(fields))
	for k, v := range current.Raw {
		resource[k] = v
	}
	for k, v := range fields {
		resource[k] = v
	}

	updated, err := uc.arcsight.UpdateCase(ctx, resource)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V(CaseIDKey, caseID))
	}

	return updated, nil
}

// GetTicket retrieves a case by ID
func (uc *TicketUseCase) GetTicket(ctx context.Context, caseID string) (*arcsight.Case, error) {
	if caseID == "" {
		return nil, goerr.Wrap(ErrMissingParameter, "case id is required", goerr.V(ParameterKey, "id"))
	}

	if err := uc.arcsight.Login(ctx); err != nil {
		return nil, goerr.Wrap(err, "unable to login")
	}

	c, err := uc.arcsight.GetCase(ctx, caseID)
	if err != nil {
		return nil, goerr.Wrap(err, "unable to get case information", goerr.V(CaseIDKey, caseID))
	}

	return c, nil
}
