package db

// Table names.
const (
	tableMeta         = "meta"
	tableProducts     = "products"
	tableObservations = "observations"
	tableModels       = "models"
)

// Meta keys.
const (
	metaFormatVersion = "format_version"
	// MetaCreatedAt records when the bundle was written.
	MetaCreatedAt = "created_at"
	// MetaSource describes how the bundle was produced.
	MetaSource = "source"
)
