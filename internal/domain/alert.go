package domain

type AlertType string

const (
	AlertLowStock     AlertType = "LOW_STOCK"
	AlertExpiringSoon AlertType = "EXPIRING_SOON"
	AlertExpired      AlertType = "EXPIRED"
)

type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "INFO"
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// Alert is derived from current product state and never persisted.
type Alert struct {
	Type      AlertType     `json:"type"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	ProductID string        `json:"product_id"`
	SKU       string        `json:"sku"`
}
