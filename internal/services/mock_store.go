package services

import (
	"context"

	"github.com/jwebster45206/logos-engine/pkg/capability"
	"github.com/jwebster45206/logos-engine/pkg/turn"
)

// MockStore is a mock implementation of Store for testing
type MockStore struct {
	PingFunc              func(ctx context.Context) error
	ReadSnapshotFunc      func(ctx context.Context, playerID string) (*turn.Snapshot, error)
	RecordFunc            func(ctx context.Context, link capability.Link) error
	CloseFunc             func() error
	WaitForConnectionFunc func(ctx context.Context) error

	// Track calls for testing
	PingCalls         int
	ReadSnapshotCalls []string
	RecordCalls       []capability.Link
	CloseCalls        int
}

var _ Store = (*MockStore)(nil)

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		ReadSnapshotCalls: make([]string, 0),
		RecordCalls:       make([]capability.Link, 0),
	}
}

func (m *MockStore) Ping(ctx context.Context) error {
	m.PingCalls++
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// ReadSnapshot defaults to turn.ErrSnapshotNotFound.
func (m *MockStore) ReadSnapshot(ctx context.Context, playerID string) (*turn.Snapshot, error) {
	m.ReadSnapshotCalls = append(m.ReadSnapshotCalls, playerID)
	if m.ReadSnapshotFunc != nil {
		return m.ReadSnapshotFunc(ctx, playerID)
	}
	return nil, turn.ErrSnapshotNotFound
}

func (m *MockStore) Record(ctx context.Context, link capability.Link) error {
	m.RecordCalls = append(m.RecordCalls, link)
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, link)
	}
	return nil
}

func (m *MockStore) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockStore) WaitForConnection(ctx context.Context) error {
	if m.WaitForConnectionFunc != nil {
		return m.WaitForConnectionFunc(ctx)
	}
	return nil
}

// SetPingError makes Ping fail with err
func (m *MockStore) SetPingError(err error) {
	m.PingFunc = func(ctx context.Context) error {
		return err
	}
}

// SetSnapshot makes ReadSnapshot return s for every player
func (m *MockStore) SetSnapshot(s *turn.Snapshot) {
	m.ReadSnapshotFunc = func(ctx context.Context, playerID string) (*turn.Snapshot, error) {
		return s, nil
	}
}

// MockBackend is a mock capability.Backend with call tracking
type MockBackend struct {
	InvokeFunc  func(ctx context.Context, call capability.Call) (capability.Result, error)
	InvokeCalls []capability.Call
}

var _ capability.Backend = (*MockBackend)(nil)

// Invoke defaults to a successful result.
func (m *MockBackend) Invoke(ctx context.Context, call capability.Call) (capability.Result, error) {
	m.InvokeCalls = append(m.InvokeCalls, call)
	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, call)
	}
	return capability.Result{Success: true, EntityID: "entity-1"}, nil
}
