package model

// Intent tags returned by the backend
const (
	IntentMorningCupOfCoffee        = "morning-cup-of-coffee"
	IntentStorageList               = "storage-list"
	IntentTenantNotifications       = "tenant-notifications"
	IntentStorageSystemNotification = "storage-system-notification"
	IntentStorageSystemVolume       = "storage-system-volume"
	IntentTenantAlerts              = "tenant-alerts"
	IntentStorageSystemDetails      = "storage-system-details"
	IntentStorageSystemAlert        = "storage-system-alert"
	IntentStorageSystemMetric       = "storage-system-metric"
	IntentChatbotCapabilities       = "chatbot-capabilities"
	IntentUsedUsableCapacity        = "used-usable-capacity"
)

// Fixed query texts shown as the user turn of canned requests
const (
	MorningCoffeeQuery       = "morning cup of coffee query"
	PreviousActionsQuery     = "previous actions query"
	ChatbotCapabilitiesQuery = "What can you do?"
)

// Bot texts for empty or failed responses
const (
	SummaryNoDataMessage = "Storage Insights returned no data for your morning summary."
	SummaryRequestError  = "Unable to fetch your morning summary right now. Please try again."
	NoDataAvailable      = "No data available for this query."
	NoActionsAvailable   = "No previous actions available."
	DefaultErrMessage    = "Something went wrong while processing your query. Please try again."
	InvalidQueryMessage  = "Unable to process that request."
	APIKeyExpiredMessage = "API key expired. Please log in again."
)

const largeDataDescription = "I'm unable to give you a precise answer due to the large amount of data, but here's a detailed response for you."

var intentDescriptions = map[string]string{
	IntentTenantNotifications:       largeDataDescription,
	IntentStorageSystemNotification: largeDataDescription,
	IntentStorageSystemVolume:       "All set! I found the storage volumes you requested. Dive in and explore!",
	IntentTenantAlerts:              largeDataDescription,
	IntentStorageSystemDetails:      "Just like you asked, I pulled up the information on your storage system.",
	IntentStorageSystemAlert:        largeDataDescription,
	IntentStorageList:               largeDataDescription,
	IntentStorageSystemMetric:       "Just like you asked, I pulled up the metrics information on your storage system.",
	IntentChatbotCapabilities:       "Epsilon simplifies tenant management by conveniently organizing all your tenants and their notifications. It offers comprehensive access to alerts, metrics, storage volumes, and notifications for your storage systems. Additionally, it provides detailed insights into each storage system in your inventory and assists with capacity-related inquiries, ensuring seamless management.",
}

// IntentDescription returns the lead-in text for an intent, or "" when none
func IntentDescription(intent string) string {
	return intentDescriptions[intent]
}

var notificationColumns = []string{"device_name", "event", "severity", "time", "more_information"}

var alertColumns = []string{"name", "category", "condition", "occurenceTime", "parentResource", "severity", "source", "violation"}

var intentColumns = map[string][]string{
	IntentTenantNotifications:       notificationColumns,
	IntentStorageSystemNotification: notificationColumns,
	IntentStorageSystemVolume: {
		"name", "volume_id", "storage_system", "status_label", "last_data_collection",
		"capacity_bytes", "pool_name", "raid_level", "used_capacity_bytes",
	},
	IntentTenantAlerts:         alertColumns,
	IntentStorageSystemDetails: {"name", "condition", "vendor", "type", "model", "firmware", "ip_address"},
	IntentStorageList:          {"name", "condition", "vendor", "type", "model", "firmware", "ip_address", "storage_system_id"},
	IntentStorageSystemAlert:   alertColumns,
}

// IntentColumns returns the column layout for an intent's rows. The second
// result is false when the intent has no fixed layout.
func IntentColumns(intent string) ([]string, bool) {
	cols, ok := intentColumns[intent]
	if !ok {
		return nil, false
	}
	out := make([]string, len(cols))
	copy(out, cols)
	return out, true
}

var intentActionLabels = map[string]string{
	IntentUsedUsableCapacity:        "Used Usable Capacity",
	IntentStorageSystemAlert:        "Storage System Alert",
	IntentStorageSystemVolume:       "Storage System Volume",
	IntentTenantAlerts:              "Tenant Alerts",
	IntentStorageSystemDetails:      "Storage System Details",
	IntentStorageSystemMetric:       "Storage System Metrics",
	IntentStorageSystemNotification: "Storage System Notification",
	IntentStorageList:               "Storage List",
	IntentTenantNotifications:       "Tenant notifications",
	IntentChatbotCapabilities:       "Chatbot Capabilities",
	IntentMorningCupOfCoffee:        "Morning cup of coffee",
}

// ActionLabel returns the tag label for a previous action's intent,
// falling back to the raw intent.
func ActionLabel(intent string) string {
	if label, ok := intentActionLabels[intent]; ok {
		return label
	}
	return intent
}

const emptyDataMessage = "No data received from Storage Insights for this."

var intentEmptyData = map[string]bool{
	IntentTenantNotifications:       true,
	IntentStorageSystemNotification: true,
	IntentStorageSystemVolume:       true,
	IntentTenantAlerts:              true,
	IntentStorageSystemDetails:      true,
	IntentStorageSystemAlert:        true,
	IntentStorageList:               true,
	"tenant-list":                   true,
	IntentStorageSystemMetric:       true,
}

// EmptyDataMessage returns the note shown for a table with no rows
func EmptyDataMessage(intent string) string {
	if intentEmptyData[intent] {
		return emptyDataMessage
	}
	return NoDataAvailable
}

var conditionLabels = map[string]string{
	"info":                     "Informational",
	"warning":                  "Warning",
	"critical":                 "Critical",
	"info_acknowledged":        "Informational - Acknowledged",
	"warning_acknowledged":     "Warning - Acknowledged",
	"critical_acknowledged":    "Critical - Acknowledged",
	"error":                    "Error",
	"normal":                   "Normal",
	"unconfigured":             "Unconfigured",
	"unknown":                  "Unknown",
	"Unreachable":              "Device Unreachable",
	"unreachable_acknowledged": "Unreachable - Acknowledge",
}

// ConditionLabel maps a backend condition code to its display label.
// Unknown codes are returned as is.
func ConditionLabel(code string) string {
	if label, ok := conditionLabels[code]; ok {
		return label
	}
	return code
}
