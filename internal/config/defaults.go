package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/shoplore/data/db/listings.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/shoplore/data/indices/bleve"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.TopKCandidates == 0 {
		cfg.Search.TopKCandidates = 100
	}
	if cfg.Search.NameBoost == 0 {
		cfg.Search.NameBoost = 3.0
	}
	if cfg.Search.SpellCheckMaxDistance == 0 {
		cfg.Search.SpellCheckMaxDistance = 2
	}
	if cfg.Search.SpellCheckCacheSize == 0 {
		cfg.Search.SpellCheckCacheSize = 1024
	}
	if cfg.Search.SpellCheckCacheTTL == 0 {
		cfg.Search.SpellCheckCacheTTL = 300
	}
	cfg.Search.Ranking.ApplyDefaults()
}
