package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/arcsight-connector/pkg/service/arcsight"
	"github.com/secmon-lab/arcsight-connector/pkg/usecase"
)

func TestNormalizeGroupPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: "/All Cases/All Cases"},
		{input: "All Cases/Incidents", want: "/All Cases/Incidents"},
		{input: "/All Cases/Incidents/", want: "/All Cases/Incidents"},
		{input: "/All Cases/Incidents//", want: "/All Cases/Incidents"},
		{input: "/All Cases", want: "/All Cases"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			gt.Value(t, usecase.NormalizeGroupPath(tt.input)).Equal(tt.want)
		})
	}
}

func TestTicketUseCase_CreateTicket(t *testing.T) {
	t.Run("creates new case under default group", func(t *testing.T) {
		var gotURI, gotParent, gotName string
		svc := &mockArcSight{
			getGroupByURIFn: func(ctx context.Context, uri string) (*arcsight.Group, error) {
				gotURI = uri
				return &arcsight.Group{ResourceID: "group-1"}, nil
			},
			insertCaseFn: func(ctx context.Context, parentID, name string) (*arcsight.Case, error) {
				gotParent, gotName = parentID, name
				return &arcsight.Case{ResourceID: "case-1", Name: name, HasName: true}, nil
			},
		}
		uc := usecase.NewTicketUseCase(svc)

		result, err := uc.CreateTicket(context.Background(), "", "Incident 42")
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Created).True()
		gt.Value(t, result.Case.ResourceID).Equal("case-1")
		gt.Value(t, gotURI).Equal("/All Cases/All Cases")
		gt.Value(t, gotParent).Equal("group-1")
		gt.Value(t, gotName).Equal("Incident 42")
	})

	t.Run("returns existing case without creating", func(t *testing.T) {
		svc := &mockArcSight{
			getChildIDByNameFn: func(ctx context.Context, groupID, name string) (string, error) {
				return "existing", nil
			},
		}
		uc := usecase.NewTicketUseCase(svc)

		result, err := uc.CreateTicket(context.Background(), "All Cases/Mine/", "dup")
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Created).False()
		gt.Value(t, result.Case.ResourceID).Equal("existing")
		gt.Value(t, svc.called("InsertCase")).Equal(0)
	})

	t.Run("unknown group fails", func(t *testing.T) {
		svc := &mockArcSight{
			getGroupByURIFn: func(ctx context.Context, uri string) (*arcsight.Group, error) {
				return nil, nil
			},
		}
		uc := usecase.NewTicketUseCase(svc)

		_, err := uc.CreateTicket(context.Background(), "/nope", "x")
		gt.Error(t, err).Is(usecase.ErrGroupNotFound)
	})

	t.Run("missing name fails before login", func(t *testing.T) {
		svc := &mockArcSight{}
		uc := usecase.NewTicketUseCase(svc)

		_, err := uc.CreateTicket(context.Background(), "", "")
		gt.Error(t, err).Is(usecase.ErrMissingParameter)
		gt.Value(t, svc.called("Login")).Equal(0)
	})

	t.Run("login failure is returned", func(t *testing.T) {
		loginErr := errors.New("denied")
		svc := &mockArcSight{
			loginFn: func(ctx context.Context) error { return loginErr },
		}
		uc := usecase.NewTicketUseCase(svc)

		_, err := uc.CreateTicket(context.Background(), "", "x")
		gt.Error(t, err).Is(loginErr)
	})
}

func TestParseUpdateFields(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		fields, err := usecase.ParseUpdateFields(`{"stage":"CLOSED","consequenceSeverity":"HIGH"}`)
		gt.NoError(t, err).Required()
		gt.Value(t, fields["stage"]).Equal(any("CLOSED"))
	})

	tests := []string{``, `not json`, `[1,2]`, `"text"`, `null`}
	for _, in := range tests {
		t.Run("rejects "+in, func(t *testing.T) {
			_, err := usecase.ParseUpdateFields(in)
			gt.Error(t, err).Is(usecase.ErrInvalidUpdateFields)
		})
	}
}

func TestTicketUseCase_UpdateTicket(t *testing.T) {
	t.Run("merges fields into the current resource", func(t *testing.T) {
		var pushed map[string]any
		svc := &mockArcSight{
			getCaseFn: func(ctx context.Context, caseID string) (*arcsight.Case, error) {
				return &arcsight.Case{
					ResourceID: caseID,
					Name:       "old",
					HasName:    true,
					Raw:        map[string]any{"resourceid": caseID, "name": "old", "stage": "QUEUED"},
				}, nil
			},
			updateCaseFn: func(ctx context.Context, resource map[string]any) (*arcsight.Case, error) {
				pushed = resource
				return &arcsight.Case{ResourceID: "case-1", Name: "new", HasName: true, Raw: resource}, nil
			},
		}
		uc := usecase.NewTicketUseCase(svc)

		updated, err := uc.UpdateTicket(context.Background(), "case-1", map[string]any{"name": "new"})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Name).Equal("new")
		gt.Value(t, pushed["stage"]).Equal(any("QUEUED"))
		gt.Value(t, pushed["name"]).Equal(any("new"))
		gt.Value(t, pushed["resourceid"]).Equal(any("case-1"))
	})

	t.Run("missing id fails", func(t *testing.T) {
		uc := usecase.NewTicketUseCase(&mockArcSight{})
		_, err := uc.UpdateTicket(context.Background(), "", map[string]any{})
		gt.Error(t, err).Is(usecase.ErrMissingParameter)
	})

	t.Run("nil fields fail", func(t *testing.T) {
		uc := usecase.NewTicketUseCase(&mockArcSight{})
		_, err := uc.UpdateTicket(context.Background(), "case-1", nil)
		gt.Error(t, err).Is(usecase.ErrInvalidUpdateFields)
	})

	t.Run("case lookup failure is returned", func(t *testing.T) {
		svc := &mockArcSight{
			getCaseFn: func(ctx context.Context, caseID string) (*arcsight.Case, error) {
				return nil, arcsight.ErrMissingField
			},
		}
		uc := usecase.NewTicketUseCase(svc)
		_, err := uc.UpdateTicket(context.Background(), "case-1", map[string]any{"a": 1})
		gt.Error(t, err).Is(arcsight.ErrMissingField)
		gt.Value(t, svc.called("UpdateCase")).Equal(0)
	})
}

func TestTicketUseCase_GetTicket(t *testing.T) {
	svc := &mockArcSight{}
	uc := usecase.NewTicketUseCase(svc)

	c, err := uc.GetTicket(context.Background(), "case-7")
	gt.NoError(t, err).Required()
	gt.Value(t, c.ResourceID).Equal("case-7")
	gt.Value(t, svc.called("Login")).Equal(1)

	_, err = uc.GetTicket(context.Background(), "")
	gt.Error(t, err).Is(usecase.ErrMissingParameter)
}
