package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// context keys set by middleware
const (
	ContextUserKey      = "user"
	ContextRequestIDKey = "request_id"
)
