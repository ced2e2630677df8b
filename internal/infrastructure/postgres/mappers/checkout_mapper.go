package mappers

import (
	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/models"
	"gorm.io/datatypes"
)

func ToDomainProduct(model *models.ProductModel) *domain.Product {
	return &domain.Product{
		ID:           model.ID,
		SellerID:     model.SellerID,
		Name:         model.Name,
		Description:  model.Description,
		Slug:         model.Slug,
		PriceInCents: model.PriceInCents,
		OrderBump:    model.OrderBump.Data(),
		Upsell:       model.Upsell.Data(),
		Coupons:      model.Coupons.Data(),
		TotalSales:   model.TotalSales,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func ToGORMProduct(product *domain.Product) *models.ProductModel {
	return &models.ProductModel{
		ID:           product.ID,
		SellerID:     product.SellerID,
		Name:         product.Name,
		Description:  product.Description,
		Slug:         product.Slug,
		PriceInCents: product.PriceInCents,
		OrderBump:    datatypes.NewJSONType(product.OrderBump),
		Upsell:       datatypes.NewJSONType(product.Upsell),
		Coupons:      datatypes.NewJSONType(product.Coupons),
		TotalSales:   product.TotalSales,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

func ToDomainPixTransaction(model *models.PixTransactionModel) *domain.PixTransaction {
	return &domain.PixTransaction{
		ID:                   model.ID,
		SellerID:             model.SellerID,
		ValueInCents:         model.ValueInCents,
		OriginalValueInCents: model.OriginalValueInCents,
		CouponCode:           model.CouponCode,
		DiscountInCents:      model.DiscountInCents,
		QRCode:               model.QRCode,
		QRCodeBase64:         model.QRCodeBase64,
		Status:               model.Status,
		CreatedAt:            model.CreatedAt,
		PaidAt:               model.PaidAt,
		WebhookURL:           model.WebhookURL,
		Customer:             model.Customer.Data(),
		Items:                model.Items.Data(),
		Tracking:             model.Tracking.Data(),
		IsUpsell:             model.IsUpsell,
		OriginalSaleID:       model.OriginalSaleID,
	}
}

func ToGORMPixTransaction(tx *domain.PixTransaction) *models.PixTransactionModel {
	return &models.PixTransactionModel{
		ID:                   tx.ID,
		SellerID:             tx.SellerID,
		ValueInCents:         tx.ValueInCents,
		OriginalValueInCents: tx.OriginalValueInCents,
		CouponCode:           tx.CouponCode,
		DiscountInCents:      tx.DiscountInCents,
		QRCode:               tx.QRCode,
		QRCodeBase64:         tx.QRCodeBase64,
		Status:               tx.Status,
		CreatedAt:            tx.CreatedAt,
		PaidAt:               tx.PaidAt,
		WebhookURL:           tx.WebhookURL,
		Customer:             datatypes.NewJSONType(tx.Customer),
		Items:                datatypes.NewJSONType(tx.Items),
		Tracking:             datatypes.NewJSONType(tx.Tracking),
		IsUpsell:             tx.IsUpsell,
		OriginalSaleID:       tx.OriginalSaleID,
	}
}

func ToDomainSale(model *models.SaleModel) *domain.Sale {
	return &domain.Sale{
		ID:                    model.ID,
		SellerID:              model.SellerID,
		TransactionID:         model.TransactionID,
		Customer:              model.Customer.Data(),
		Items:                 model.Items.Data(),
		PaymentMethod:         model.PaymentMethod,
		Status:                model.Status,
		TotalAmountInCents:    model.TotalAmountInCents,
		OriginalAmountInCents: model.OriginalAmountInCents,
		DiscountInCents:       model.DiscountInCents,
		CouponCode:            model.CouponCode,
		CreatedAt:             model.CreatedAt,
		PaidAt:                model.PaidAt,
		Tracking:              model.Tracking.Data(),
		Commission: domain.Commission{
			TotalPriceInCents:     model.Commission.TotalPriceInCents,
			GatewayFeeInCents:     model.Commission.GatewayFeeInCents,
			PlatformFeeInCents:    model.Commission.PlatformFeeInCents,
			UserCommissionInCents: model.Commission.UserCommissionInCents,
		},
		PlatformCommissionInCents: model.PlatformCommissionInCents,
		UpsellTransactionID:       model.UpsellTransactionID,
		UpsellStatus:              model.UpsellStatus,
		UpsellAmountInCents:       model.UpsellAmountInCents,
	}
}

func ToGORMSale(sale *domain.Sale) *models.SaleModel {
	return &models.SaleModel{
		ID:                    sale.ID,
		SellerID:              sale.SellerID,
		TransactionID:         sale.TransactionID,
		Customer:              datatypes.NewJSONType(sale.Customer),
		Items:                 datatypes.NewJSONType(sale.Items),
		PaymentMethod:         sale.PaymentMethod,
		Status:                sale.Status,
		TotalAmountInCents:    sale.TotalAmountInCents,
		OriginalAmountInCents: sale.OriginalAmountInCents,
		DiscountInCents:       sale.DiscountInCents,
		CouponCode:            sale.CouponCode,
		CreatedAt:             sale.CreatedAt,
		PaidAt:                sale.PaidAt,
		Tracking:              datatypes.NewJSONType(sale.Tracking),
		Commission: models.CommissionColumns{
			TotalPriceInCents:     sale.Commission.TotalPriceInCents,
			GatewayFeeInCents:     sale.Commission.GatewayFeeInCents,
			PlatformFeeInCents:    sale.Commission.PlatformFeeInCents,
			UserCommissionInCents: sale.Commission.UserCommissionInCents,
		},
		PlatformCommissionInCents: sale.PlatformCommissionInCents,
		UpsellTransactionID:       sale.UpsellTransactionID,
		UpsellStatus:              sale.UpsellStatus,
		UpsellAmountInCents:       sale.UpsellAmountInCents,
	}
}

func ToDomainCustomer(model *models.CustomerModel) *domain.Customer {
	return &domain.Customer{
		ID:                model.Email,
		SellerID:          model.SellerID,
		Name:              model.Name,
		Email:             model.Email,
		WhatsApp:          model.WhatsApp,
		ProductsPurchased: model.ProductsPurchased.Data(),
		FunnelStage:       model.FunnelStage,
		FirstPurchaseAt:   model.FirstPurchaseAt,
		LastPurchaseAt:    model.LastPurchaseAt,
		TotalOrders:       model.TotalOrders,
		TotalSpentInCents: model.TotalSpentInCents,
		SaleIDs:           model.SaleIDs.Data(),
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func ToGORMCustomer(customer *domain.Customer) *models.CustomerModel {
	return &models.CustomerModel{
		SellerID:          customer.SellerID,
		Email:             customer.Email,
		Name:              customer.Name,
		WhatsApp:          customer.WhatsApp,
		ProductsPurchased: datatypes.NewJSONType(customer.ProductsPurchased),
		FunnelStage:       customer.FunnelStage,
		FirstPurchaseAt:   customer.FirstPurchaseAt,
		LastPurchaseAt:    customer.LastPurchaseAt,
		TotalOrders:       customer.TotalOrders,
		TotalSpentInCents: customer.TotalSpentInCents,
		SaleIDs:           datatypes.NewJSONType(customer.SaleIDs),
		CreatedAt:         customer.CreatedAt,
		UpdatedAt:         customer.UpdatedAt,
	}
}

func ToDomainAbandonedCart(model *models.AbandonedCartModel) *domain.AbandonedCart {
	return &domain.AbandonedCart{
		ID:       model.ID,
		SellerID: model.SellerID,
		Customer: domain.CustomerInfo{
			Name:     model.CustomerName,
			Email:    model.CustomerEmail,
			WhatsApp: model.CustomerWhatsApp,
		},
		ProductID:             model.ProductID,
		ProductName:           model.ProductName,
		PotentialValueInCents: model.PotentialValueInCents,
		CreatedAt:             model.CreatedAt,
		LastInteractionAt:     model.LastInteractionAt,
		Status:                model.Status,
	}
}

func ToGORMAbandonedCart(cart *domain.AbandonedCart) *models.AbandonedCartModel {
	return &models.AbandonedCartModel{
		ID:                    cart.ID,
		SellerID:              cart.SellerID,
		CustomerName:          cart.Customer.Name,
		CustomerEmail:         cart.Customer.Email,
		CustomerWhatsApp:      cart.Customer.WhatsApp,
		ProductID:             cart.ProductID,
		ProductName:           cart.ProductName,
		PotentialValueInCents: cart.PotentialValueInCents,
		CreatedAt:             cart.CreatedAt,
		LastInteractionAt:     cart.LastInteractionAt,
		Status:                cart.Status,
	}
}

func ToDomainPlatformSettings(model *models.PlatformSettingsModel) *domain.PlatformSettings {
	return &domain.PlatformSettings{
		ID:                   model.ID,
		CommissionPercentage: model.CommissionPercentage,
		FixedFeeInCents:      model.FixedFeeInCents,
		GatewayAccountID:     model.GatewayAccountID,
		UpdatedAt:            model.UpdatedAt,
	}
}

func ToGORMPlatformSettings(settings *domain.PlatformSettings) *models.PlatformSettingsModel {
	return &models.PlatformSettingsModel{
		ID:                   domain.PlatformSettingsID,
		CommissionPercentage: settings.CommissionPercentage,
		FixedFeeInCents:      settings.FixedFeeInCents,
		GatewayAccountID:     settings.GatewayAccountID,
		UpdatedAt:            settings.UpdatedAt,
	}
}

func ToDomainAppSettings(model *models.AppSettingsModel) *domain.AppSettings {
	return &domain.AppSettings{
		SellerID:         model.SellerID,
		PushInPayToken:   model.PushInPayToken,
		PushInPayEnabled: model.PushInPayEnabled,
		UtmifyToken:      model.UtmifyToken,
		UtmifyEnabled:    model.UtmifyEnabled,
		CompanyName:      model.CompanyName,
		CustomDomain:     model.CustomDomain,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMAppSettings(settings *domain.AppSettings) *models.AppSettingsModel {
	return &models.AppSettingsModel{
		SellerID:         settings.SellerID,
		PushInPayToken:   settings.PushInPayToken,
		PushInPayEnabled: settings.PushInPayEnabled,
		UtmifyToken:      settings.UtmifyToken,
		UtmifyEnabled:    settings.UtmifyEnabled,
		CompanyName:      settings.CompanyName,
		CustomDomain:     settings.CustomDomain,
		UpdatedAt:        settings.UpdatedAt,
	}
}

func ToDomainAuditLogEntry(model *models.AuditLogModel) *domain.AuditLogEntry {
	return &domain.AuditLogEntry{
		ID:          model.ID,
		Timestamp:   model.Timestamp,
		ActorID:     model.ActorID,
		ActorEmail:  model.ActorEmail,
		Action:      model.Action,
		TargetType:  model.TargetType,
		TargetID:    model.TargetID,
		Description: model.Description,
		Details:     model.Details.Data(),
	}
}

func ToGORMAuditLogEntry(entry *domain.AuditLogEntry) *models.AuditLogModel {
	return &models.AuditLogModel{
		ID:          entry.ID,
		Timestamp:   entry.Timestamp,
		ActorID:     entry.ActorID,
		ActorEmail:  entry.ActorEmail,
		Action:      entry.Action,
		TargetType:  entry.TargetType,
		TargetID:    entry.TargetID,
		Description: entry.Description,
		Details:     datatypes.NewJSONType(entry.Details),
	}
}
