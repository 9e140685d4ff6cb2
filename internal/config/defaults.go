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
		cfg.Storage.DatabasePath = "/usr/local/var/kode/data/catalog.db"
	}
	if cfg.Expander.BaseURL == "" {
		cfg.Expander.BaseURL = "https://ark.cn-beijing.volces.com/api/v3"
	}
	if cfg.Expander.TimeoutSeconds == 0 {
		cfg.Expander.TimeoutSeconds = 5
	}
	if cfg.Expander.MaxRetries == 0 {
		cfg.Expander.MaxRetries = 1
	}
	if cfg.Recommend.DefaultCount == 0 {
		cfg.Recommend.DefaultCount = 3
	}
	if cfg.Recommend.MaxCount == 0 {
		cfg.Recommend.MaxCount = 10
	}
	if cfg.Recommend.MaxCandidates == 0 {
		cfg.Recommend.MaxCandidates = 15
	}
	if cfg.Recommend.RelevanceFloor == 0 {
		cfg.Recommend.RelevanceFloor = 0.15
	}
	if cfg.Recommend.RelaxedFloor == 0 {
		cfg.Recommend.RelaxedFloor = 0.01
	}
	if cfg.Recommend.BalanceFill == 0 {
		cfg.Recommend.BalanceFill = 3
	}
	if cfg.Recommend.PairLimit == 0 {
		cfg.Recommend.PairLimit = 3
	}
	if cfg.Recommend.StatementFloor == 0 {
		cfg.Recommend.StatementFloor = 0.5
	}
}
