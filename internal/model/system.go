package model

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion       string          `json:"app_version"`
	DbVersion        string          `json:"db_version"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migration_needed"`
	MigrationMessage *string         `json:"migration_message,omitempty"`
}

// Settings are the app-level settings consumed by holdings computation.
type Settings struct {
	PriceAutoRefreshIntervalMinutes int    `json:"priceAutoRefreshIntervalMinutes"`
	BaseCurrency                    string `json:"baseCurrency"`
}

// Setting keys stored in the system_setting table.
const (
	SettingPriceRefreshInterval = "price_auto_refresh_interval_minutes"
	SettingBaseCurrency         = "base_currency"
)
