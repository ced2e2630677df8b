package repository

import (
	"context"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-checkout-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCustomerRepository struct {
	DB *gorm.DB
}

func NewDefaultCustomerRepository(db *gorm.DB) *DefaultCustomerRepository {
	return &DefaultCustomerRepository{DB: db}
}

func (r *DefaultCustomerRepository) GetCustomer(ctx context.Context, sellerID, email string) (*domain.Customer, error) {
	var model models.CustomerModel
	err := conn(ctx, r.DB).First(&model, "seller_id = ? AND email = ?", sellerID, email).Error
	if err != nil {
		return nil, notFound(err, domain.ErrCustomerNotFound, sellerID+"/"+email)
	}
	return mappers.ToDomainCustomer(&model), nil
}

func (r *DefaultCustomerRepository) SaveCustomer(ctx context.Context, customer *domain.Customer) error {
	return conn(ctx, r.DB).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(mappers.ToGORMCustomer(customer)).Error
}
