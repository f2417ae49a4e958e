package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/logos-engine/pkg/capability"
	"github.com/jwebster45206/logos-engine/pkg/director"
	"github.com/jwebster45206/logos-engine/pkg/turn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupTestRedis(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	svc, err := NewRedisService("redis://"+mr.Addr(), testLogger())
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis service: %v", err)
	}

	t.Cleanup(func() {
		_ = svc.Close()
		mr.Close()
	})
	return svc, mr
}

func TestRedisService_Ping(t *testing.T) {
	svc, _ := setupTestRedis(t)
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestRedisService_BareAddress(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	svc, err := NewRedisService(mr.Addr(), testLogger())
	require.NoError(t, err)
	defer svc.Close()
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestRedisService_InvalidURL(t *testing.T) {
	_, err := NewRedisService("redis://localhost:6379/notanumber", testLogger())
	assert.Error(t, err)
}

func TestRedisService_ReadSnapshot(t *testing.T) {
	svc, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(SnapshotKey("p-1"), `{
		"trust": 0.62,
		"available_tools": ["query_player", "dossier_read"],
		"director": {"phase": "train", "success_rate": 0.5},
		"access_tier": 1,
		"full_access": false
	}`))

	snap, err := svc.ReadSnapshot(ctx, "p-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.62, snap.Trust.Float64(), 1e-9)
	assert.Equal(t, []string{"query_player", "dossier_read"}, snap.AvailableTools)
	require.NotNil(t, snap.Director)
	assert.Equal(t, director.PhaseTrain, snap.Director.Phase)
	assert.Equal(t, 1, snap.AccessTier)
	assert.Nil(t, snap.Identity)
}

func TestRedisService_ReadSnapshot_LenientTrust(t *testing.T) {
	svc, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(SnapshotKey("p-2"), `{"trust": "0.3"}`))

	snap, err := svc.ReadSnapshot(context.Background(), "p-2")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, snap.Trust.Float64(), 1e-9)
	assert.Nil(t, snap.AvailableTools)
}

func TestRedisService_ReadSnapshot_Errors(t *testing.T) {
	svc, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := svc.ReadSnapshot(ctx, "missing")
	assert.True(t, errors.Is(err, turn.ErrSnapshotNotFound))

	_, err = svc.ReadSnapshot(ctx, " ")
	assert.Error(t, err)

	require.NoError(t, mr.Set(SnapshotKey("bad"), "{nope"))
	_, err = svc.ReadSnapshot(ctx, "bad")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, turn.ErrSnapshotNotFound))
}

func TestRedisService_ReadOnly(t *testing.T) {
	svc, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(SnapshotKey("p-3"), `{"trust": 0.9}`))

	_, err := svc.ReadSnapshot(context.Background(), "p-3")
	require.NoError(t, err)

	got, err := mr.Get(SnapshotKey("p-3"))
	require.NoError(t, err)
	assert.Equal(t, `{"trust": 0.9}`, got)
	assert.Equal(t, []string{SnapshotKey("p-3")}, mr.Keys())
}

func TestRedisService_RecordLinks(t *testing.T) {
	svc, mr := setupTestRedis(t)
	ctx := context.Background()
	at := time.Date(2026, 10, 15, 2, 30, 0, 0, time.UTC)

	require.NoError(t, svc.Record(ctx, capability.Link{ID: "l1", ExperimentID: "exp-1", EntityID: "room-1", Tool: capability.ToolWorldCreateRoom, Layer: 1, At: at}))
	require.NoError(t, svc.Record(ctx, capability.Link{ID: "l2", ExperimentID: "exp-1", EntityID: "obj-9", Tool: capability.ToolWorldCreateObject, Layer: 1, At: at}))

	items, err := mr.List(LinksKey("exp-1"))
	require.NoError(t, err)
	assert.Len(t, items, 2)

	links, err := svc.Links(ctx, "exp-1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "room-1", links[0].EntityID)
	assert.Equal(t, "obj-9", links[1].EntityID)
	assert.True(t, links[0].At.Equal(at))

	empty, err := svc.Links(ctx, "exp-none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRedisService_WaitForConnection(t *testing.T) {
	svc, _ := setupTestRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, svc.WaitForConnection(ctx))
}

func TestRedisService_WaitForConnection_Cancelled(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	svc, err := NewRedisService(mr.Addr(), testLogger())
	require.NoError(t, err)
	defer svc.Close()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.Error(t, svc.WaitForConnection(ctx))
}
