package services

import (
	"context"

	"github.com/jwebster45206/logos-engine/pkg/capability"
	"github.com/jwebster45206/logos-engine/pkg/turn"
)

// Store is the read side of the trust store plus the experiment link
// side channel.
type Store interface {
	turn.SnapshotReader
	capability.LinkRecorder

	// Ping tests the store connection
	Ping(ctx context.Context) error

	// Close closes the store connection
	Close() error

	// WaitForConnection waits for the store to be available with retries
	WaitForConnection(ctx context.Context) error
}

// SnapshotKey is the Redis key holding a player's snapshot.
func SnapshotKey(playerID string) string {
	return "player:" + playerID
}

// LinksKey is the Redis list holding an experiment's entity links.
func LinksKey(experimentID string) string {
	return "experiment:" + experimentID + ":links"
}
