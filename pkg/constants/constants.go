// Package constants holds values shared across carmap packages.
package constants

import "time"

// Storage.
const (
	// FavoritesKey is the durable storage key holding the favorite id set.
	FavoritesKey = "favorites"

	// BoltBucket is the bbolt bucket used by the bolt favorites backend.
	BoltBucket = "storage"

	// DefaultFavoritesFile is the favorites file name under the user config dir.
	DefaultFavoritesFile = "favorites.json"

	// DefaultBoltFile is the bbolt database name under the user config dir.
	DefaultBoltFile = "favorites.db"

	// ConfigDirName is the directory under os.UserConfigDir for carmap state.
	ConfigDirName = "carmap"
)

// File permissions.
const (
	DirPermissions  = 0o755
	FilePermissions = 0o644
)

// Timeouts.
const (
	// DefaultFetchTimeout bounds the initial catalog fetch.
	DefaultFetchTimeout = 30 * time.Second

	// BoltOpenTimeout bounds waiting for the bbolt file lock.
	BoltOpenTimeout = 1 * time.Second

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout = 30 * time.Second
)

// Presentation.
const (
	// PlaceholderImage is shown for vehicles without an image reference.
	PlaceholderImage = "/assets/images/placeholder.svg"

	// LoadFailedMessage is the user-visible message for a failed catalog load.
	LoadFailedMessage = "Failed to load data."

	// NoResultsMessage is shown when filtering leaves nothing.
	NoResultsMessage = "No vehicles match your filters."

	// FavoritedLabel and FavoriteLabel are the favorite toggle labels.
	FavoritedLabel = "★ Favorited"
	FavoriteLabel  = "☆ Favorite"
)

// Server.
const (
	// ChannelBufferSize is the default buffer for event channels.
	ChannelBufferSize = 100

	// CacheTTL is the default response cache lifetime.
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often expired cache entries are purged.
	CacheCleanupInterval = 10 * time.Minute

	// DefaultRateLimit is requests per minute per client IP.
	DefaultRateLimit = 100
)
