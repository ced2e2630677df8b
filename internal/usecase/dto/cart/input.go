package cartdto

type RecordCartInput struct {
	ProductID string `json:"productId" validate:"required"`
	Name      string `json:"name"`
	Email     string `json:"email" validate:"required,email"`
	WhatsApp  string `json:"whatsapp"`
	// ValueInCents overrides the product price, e.g. when an order bump was selected.
	ValueInCents int64 `json:"valueInCents" validate:"gte=0"`
}

type UpdateCartStatusInput struct {
	CartID string `json:"cartId" validate:"required"`
	Status string `json:"status" validate:"required,oneof=NOT_CONTACTED EMAIL_SENT IGNORED"`
}
