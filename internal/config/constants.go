package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./librarian.db"

	// DefaultSweepSchedule runs the dangling-reference sweep hourly at :00
	DefaultSweepSchedule = "0 * * * *"
)
