package domain

import "time"

const DefaultAuditLogCapacity = 500

type AuditAction string

const (
	AuditPlatformSettingsUpdate   AuditAction = "PLATFORM_SETTINGS_UPDATE"
	AuditSellerIntegrationsUpdate AuditAction = "SELLER_INTEGRATIONS_UPDATE"
)

type Actor struct {
	ID    string
	Email string
}

type AuditDetails struct {
	Before map[string]any `json:"before,omitempty"`
	After  map[string]any `json:"after,omitempty"`
}

type AuditLogEntry struct {
	ID          string
	Timestamp   time.Time
	ActorID     string
	ActorEmail  string
	Action      AuditAction
	TargetType  string
	TargetID    string
	Description string
	Details     AuditDetails
}
