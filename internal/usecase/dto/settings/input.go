package settingsdto

type PlatformSettingsInput struct {
	CommissionPercentage float64 `json:"commissionPercentage" validate:"gte=0,lt=1"`
	FixedFeeInCents      int64   `json:"fixedFeeInCents" validate:"gte=0"`
	GatewayAccountID     string  `json:"gatewayAccountId" validate:"max=128"`
}

// IntegrationsPatch updates only the fields that are set.
type IntegrationsPatch struct {
	PushInPayToken   *string `json:"pushinpayToken" validate:"omitempty,max=512"`
	PushInPayEnabled *bool   `json:"pushinpayEnabled"`
	UtmifyToken      *string `json:"utmifyToken" validate:"omitempty,max=512"`
	UtmifyEnabled    *bool   `json:"utmifyEnabled"`
	CompanyName      *string `json:"companyName" validate:"omitempty,max=200"`
	CustomDomain     *string `json:"customDomain" validate:"omitempty,fqdn"`
}
