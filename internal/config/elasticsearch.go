package config

// ElasticsearchConfig configures the bus search index. When Enabled is
// false the search service falls back to SQL filtering.
type ElasticsearchConfig struct {
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
	Enabled    bool
}
