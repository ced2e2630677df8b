package domain

import "time"

const PlatformSettingsID = "global"

type PlatformSettings struct {
	ID                   string
	CommissionPercentage float64
	FixedFeeInCents      int64
	GatewayAccountID     string
	UpdatedAt            time.Time
}

// AppSettings holds a seller's integration credentials.
type AppSettings struct {
	SellerID         string
	PushInPayToken   string
	PushInPayEnabled bool
	UtmifyToken      string
	UtmifyEnabled    bool
	CompanyName      string
	CustomDomain     string
	UpdatedAt        time.Time
}

func (s *AppSettings) GatewayReady() bool {
	return s != nil && s.PushInPayEnabled && s.PushInPayToken != ""
}

func (s *AppSettings) TrackingReady() bool {
	return s != nil && s.UtmifyEnabled && s.UtmifyToken != ""
}
