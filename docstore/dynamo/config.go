package dynamo

import "time"

// View maps a view name onto a global secondary index.
type View struct {
	// IndexName is the GSI name.
	IndexName string

	// KeyAttr is the GSI range key attribute; its value is the row key.
	// The GSI hash key must be the partition attribute (_pk).
	KeyAttr string
}

// Config holds configuration for the Store.
type Config struct {
	// TableName is the document table.
	// Default: "tote_documents"
	TableName string

	// Partition is the _pk value every document is stored under.
	// Default: "docs"
	Partition string

	// TombstoneTTL is how long removed documents linger before DynamoDB TTL
	// reclaims them. Enable TTL on the _ttl attribute for this to apply.
	// Default: 720h
	TombstoneTTL time.Duration

	// Views maps view names to GSIs.
	Views map[string]View
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TableName:    "tote_documents",
		Partition:    "docs",
		TombstoneTTL: 30 * 24 * time.Hour,
		Views:        map[string]View{},
	}
}

// validate fills in missing values.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "tote_documents"
	}
	if c.Partition == "" {
		c.Partition = "docs"
	}
	if c.TombstoneTTL <= 0 {
		c.TombstoneTTL = 30 * 24 * time.Hour
	}
	if c.Views == nil {
		c.Views = map[string]View{}
	}
}
