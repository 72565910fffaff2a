// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"context"
	"sync"
	"testing"
	"time"

	"modgraph/cli/internal/bridge/model"
	"modgraph/cli/internal/catalog"
	apperrors "modgraph/cli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI answers from canned rows. A relation listed in gates blocks until
// its channel is closed, ignoring cancellation, so late responses can be
// delivered on purpose.
type fakeAPI struct {
	mu       sync.Mutex
	ranges   map[string][]model.Row
	gates    map[string]chan struct{}
	domain   []model.Row
	program  []model.Row
	filter   []model.Row
	property []model.Row
	err      error
	calls    []string
	canceled int
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeAPI) GetVersion(context.Context) (string, error) { return "test", nil }

func (f *fakeAPI) ModulesForProgram(_ context.Context, program string) ([]model.Row, error) {
	if err := f.record("program:" + program); err != nil {
		return nil, err
	}
	return f.program, nil
}

func (f *fakeAPI) ModulesByRelation(_ context.Context, relation, object string) ([]model.Row, error) {
	if err := f.record("filter:" + relation + "=" + object); err != nil {
		return nil, err
	}
	return f.filter, nil
}

func (f *fakeAPI) ModuleProperty(_ context.Context, module, relation string) ([]model.Row, error) {
	if err := f.record("property:" + module + "/" + relation); err != nil {
		return nil, err
	}
	return f.property, nil
}

func (f *fakeAPI) RelationRange(ctx context.Context, relation string) ([]model.Row, error) {
	_ = f.record("range:" + relation)
	f.mu.Lock()
	gate := f.gates[relation]
	rows := f.ranges[relation]
	f.mu.Unlock()
	if gate != nil {
		<-gate
		if ctx.Err() != nil {
			f.mu.Lock()
			f.canceled++
			f.mu.Unlock()
		}
	}
	return rows, nil
}

func (f *fakeAPI) ModuleDomain(context.Context) ([]model.Row, error) {
	if err := f.record("domain"); err != nil {
		return nil, err
	}
	return f.domain, nil
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func wait(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestSessionProgramsQuery(t *testing.T) {
	api := &fakeAPI{program: []model.Row{{ModuleName: "Machine Learning"}}}
	s := NewSession(api)
	defer s.Close()

	require.NoError(t, s.Dispatch(SelectSubject{Subject: "MMDS"}))
	require.NoError(t, s.Dispatch(Run{}))
	wait(t, s)

	st := s.State()
	assert.False(t, st.Running)
	assert.Equal(t, []Row{{ColModuleName: "Machine Learning"}}, st.Results)
	assert.Equal(t, []string{"program:M.Sc.[WS]Mannheim[WS]Master[WS]in[WS]Data[WS]Science"}, api.Calls())
}

func TestSessionProgramsSendOneRequestEach(t *testing.T) {
	for _, p := range catalog.Programs() {
		t.Run(p.Label, func(t *testing.T) {
			api := &fakeAPI{}
			s := NewSession(api)
			defer s.Close()

			require.NoError(t, s.Dispatch(SelectSubject{Subject: p.Label}))
			require.NoError(t, s.Dispatch(Run{}))
			wait(t, s)

			assert.Equal(t, []string{"program:" + p.ID}, api.Calls())
			assert.Contains(t, p.ID, "[WS]")
		})
	}
}

func TestSessionWithState(t *testing.T) {
	st := NewState()
	st.Subject = "B.Sc.[WS]Wirtschaftsmathematik"
	api := &fakeAPI{program: []model.Row{{ModuleName: "Operations Research"}}}
	s := NewSession(api, WithState(st))
	defer s.Close()

	require.NoError(t, s.Dispatch(Run{}))
	wait(t, s)

	assert.Equal(t, []string{"program:B.Sc.[WS]Wirtschaftsmathematik"}, api.Calls())
	assert.Equal(t, []Row{{ColModuleName: "Operations Research"}}, s.State().Results)
}

func TestSessionRejectedActionKeepsState(t *testing.T) {
	s := NewSession(&fakeAPI{})
	defer s.Close()

	before := s.State()
	err := s.Dispatch(Run{})
	assert.True(t, apperrors.Is(err, apperrors.NotReady))
	assert.Equal(t, before, s.State())

	err = s.Dispatch(Done{})
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput), "completions cannot be injected")
}

func TestSessionDropsStaleRange(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAPI{
		ranges: map[string][]model.Row{
			"hasECTS":  {{ModuleName: "6"}, {ModuleName: "8"}},
			"taughtBy": {{ModuleName: "Prof AI"}},
		},
		gates: map[string]chan struct{}{"hasECTS": gate},
	}
	s := NewSession(api)
	defer s.Close()

	require.NoError(t, s.Dispatch(SwitchMode{Mode: catalog.ModeModules}))
	require.NoError(t, s.Dispatch(SelectRelation{Relation: "hasECTS"}))
	require.NoError(t, s.Dispatch(SelectRelation{Relation: "taughtBy"}))

	require.Eventually(t, func() bool {
		return !s.State().ObjectsLoading
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"Prof AI"}, s.State().ObjectOptions)

	// the superseded response arrives late and must not win
	close(gate)
	wait(t, s)
	st := s.State()
	assert.Equal(t, []string{"Prof AI"}, st.ObjectOptions)
	assert.Equal(t, "taughtBy", st.Relation)
	assert.False(t, st.ObjectsLoading)

	api.mu.Lock()
	assert.Equal(t, 1, api.canceled, "superseded request sees a canceled context")
	api.mu.Unlock()
}

func TestSessionFailureKeepsResults(t *testing.T) {
	api := &fakeAPI{program: []model.Row{{ModuleName: "A"}}}
	s := NewSession(api)
	defer s.Close()

	require.NoError(t, s.Dispatch(SelectSubject{Subject: "MMDS"}))
	require.NoError(t, s.Dispatch(Run{}))
	wait(t, s)

	api.mu.Lock()
	api.err = apperrors.New(apperrors.Transport, "connection refused")
	api.mu.Unlock()

	require.NoError(t, s.Dispatch(Run{}))
	wait(t, s)

	st := s.State()
	assert.Equal(t, []Row{{ColModuleName: "A"}}, st.Results)
	assert.True(t, apperrors.Is(st.Err, apperrors.Transport))
	assert.False(t, st.Running)
}

func TestSessionPropertyFlow(t *testing.T) {
	api := &fakeAPI{
		domain:   []model.Row{{ModuleName: "Machine Learning"}, {ModuleName: "Statistics"}},
		property: []model.Row{{ModuleProperty: "8"}},
	}
	s := NewSession(api)
	defer s.Close()

	require.NoError(t, s.Dispatch(SwitchMode{Mode: catalog.ModeProperty}))
	wait(t, s)
	assert.Equal(t, []string{"Machine Learning", "Statistics"}, s.State().ModuleOptions)

	require.NoError(t, s.Dispatch(SelectSubject{Subject: "Machine Learning"}))
	require.NoError(t, s.Dispatch(SelectRelation{Relation: "ECTS"}))
	require.NoError(t, s.Dispatch(Run{}))
	wait(t, s)

	assert.Equal(t, []Row{{ColModuleName: "Machine Learning", ColModuleProperty: "8"}}, s.State().Results)
	assert.Contains(t, api.Calls(), "property:Machine Learning/hasECTS")
}

func TestSessionChangedSignals(t *testing.T) {
	s := NewSession(&fakeAPI{})
	defer s.Close()

	ch := s.Changed()
	require.NoError(t, s.Dispatch(SelectSubject{Subject: "MMDS"}))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal")
	}
}

func TestSessionClose(t *testing.T) {
	s := NewSession(&fakeAPI{})
	s.Close()
	err := s.Dispatch(SelectSubject{Subject: "MMDS"})
	assert.True(t, apperrors.Is(err, apperrors.NotReady))
}
