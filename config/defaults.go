package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/sichat",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Backend: BackendConfig{
			BaseURL:               "http://localhost:8000",
			KeyValidationURL:      "https://dev.insights.ibm.com/restapi/v1",
			InsightsGUIURL:        "https://dev.insights.ibm.com/gui",
			RequestTimeoutSeconds: 60,
			RequestsPerSecond:     5,
		},
		Display: DisplayConfig{
			PageSize: 5,
			Theme:    "dark",
		},
		Security: SecurityConfig{
			CredentialStorage: string(EncryptionNone),
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# sichat System Configuration
# Location: ~/.config/sichat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the conversation cache, credentials and user config are stored
data_directory = "~/.local/share/sichat"
`
}

func GenerateUserConfigTemplate() string {
	return `# sichat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[backend]
# Chatbot backend root ("/chatbot/" is appended). Overridden by SICHAT_BACKEND_URL.
base_url = "http://localhost:8000"

# Storage Insights REST API used to check API keys at login
key_validation_url = "https://dev.insights.ibm.com/restapi/v1"

# Storage Insights web UI, used for "more details" dashboard links
insights_gui_url = "https://dev.insights.ibm.com/gui"

request_timeout_seconds = 60

# Upper bound on requests sent to the backend (0 = unlimited)
requests_per_second = 5

[display]
# Table rows per page: 5, 10, 20 or 50
page_size = 5

# "dark" or "light"
theme = "dark"

[security]
# How "remember me" credentials are stored:
#   "none"    - plain JSON file (0600)
#   "ssh_key" - encrypted with a key derived from your SSH private key
credential_storage = "none"

# SSH private key for credential_storage = "ssh_key" (default: first key found in ~/.ssh)
# ssh_key_path = "~/.ssh/id_ed25519"

# The API key encryption secret shared with the backend is read from
# SICHAT_SECRET_KEY (or a .env file) and is never stored here.
`
}
