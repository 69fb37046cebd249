package usecase_test

import (
	"context"
	"sync"

	"github.com/secmon-lab/arcsight-connector/pkg/service/arcsight"
)

// mockArcSight is a mock implementation of arcsight.Service for testing
type mockArcSight struct {
	loginFn             func(ctx context.Context) error
	getCaseFn           func(ctx context.Context, caseID string) (*arcsight.Case, error)
	findAllCaseIDsFn    func(ctx context.Context) ([]string, error)
	insertCaseFn        func(ctx context.Context, parentID, name string) (*arcsight.Case, error)
	updateCaseFn        func(ctx context.Context, resource map[string]any) (*arcsight.Case, error)
	getSecurityEventsFn func(ctx context.Context, ids []arcsight.Long) ([]*arcsight.Event, error)
	getGroupByURIFn     func(ctx context.Context, uri string) (*arcsight.Group, error)
	getChildIDByNameFn  func(ctx context.Context, groupID, name string) (string, error)
	searchFn            func(ctx context.Context, query string, startPosition, pageSize int) (*arcsight.SearchResult, error)

	mu    sync.Mutex
	calls []string
}

var _ arcsight.Service = &mockArcSight{}

func (m *mockArcSight) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockArcSight) called(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockArcSight) Login(ctx context.Context) error {
	m.record("Login")
	if m.loginFn != nil {
		return m.loginFn(ctx)
	}
	return nil
}

func (m *mockArcSight) GetCase(ctx context.Context, caseID string) (*arcsight.Case, error) {
	m.record("GetCase")
	if m.getCaseFn != nil {
		return m.getCaseFn(ctx, caseID)
	}
	return &arcsight.Case{
		ResourceID: caseID,
		Name:       "case " + caseID,
		HasName:    true,
		Raw:        map[string]any{"resourceid": caseID, "name": "case " + caseID},
	}, nil
}

func (m *mockArcSight) FindAllCaseIDs(ctx context.Context) ([]string, error) {
	m.record("FindAllCaseIDs")
	if m.findAllCaseIDsFn != nil {
		return m.findAllCaseIDsFn(ctx)
	}
	return nil, nil
}

func (m *mockArcSight) InsertCase(ctx context.Context, parentID, name string) (*arcsight.Case, error) {
	m.record("InsertCase")
	if m.insertCaseFn != nil {
		return m.insertCaseFn(ctx, parentID, name)
	}
	return &arcsight.Case{ResourceID: "new-case", Name: name, HasName: true}, nil
}

func (m *mockArcSight) UpdateCase(ctx context.Context, resource map[string]any) (*arcsight.Case, error) {
	m.record("UpdateCase")
	if m.updateCaseFn != nil {
		return m.updateCaseFn(ctx, resource)
	}
	id, _ := resource["resourceid"].(string)
	name, _ := resource["name"].(string)
	return &arcsight.Case{ResourceID: id, Name: name, HasName: true, Raw: resource}, nil
}

func (m *mockArcSight) GetSecurityEvents(ctx context.Context, ids []arcsight.Long) ([]*arcsight.Event, error) {
	m.record("GetSecurityEvents")
	if m.getSecurityEventsFn != nil {
		return m.getSecurityEventsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockArcSight) GetGroupByURI(ctx context.Context, uri string) (*arcsight.Group, error) {
	m.record("GetGroupByURI")
	if m.getGroupByURIFn != nil {
		return m.getGroupByURIFn(ctx, uri)
	}
	return &arcsight.Group{ResourceID: "group-1", URI: uri}, nil
}

func (m *mockArcSight) GetChildIDByName(ctx context.Context, groupID, name string) (string, error) {
	m.record("GetChildIDByName")
	if m.getChildIDByNameFn != nil {
		return m.getChildIDByNameFn(ctx, groupID, name)
	}
	return "", nil
}

func (m *mockArcSight) Search(ctx context.Context, query string, startPosition, pageSize int) (*arcsight.SearchResult, error) {
	m.record("Search")
	if m.searchFn != nil {
		return m.searchFn(ctx, query, startPosition, pageSize)
	}
	return &arcsight.SearchResult{SearchHits: []any{}, Raw: map[string]any{"searchHits": []any{}}}, nil
}
