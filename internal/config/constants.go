package config

const (
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultAvatarDir sits under the static path so uploads are served
	// alongside the bundled placeholder.
	DefaultAvatarDir = "profile_pics"

	// DefaultAvatarSweepSchedule runs the orphan avatar sweep daily at 03:30.
	DefaultAvatarSweepSchedule = "30 3 * * *"
)
