package persistence

import (
	"context"
	"fmt"

	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBillWriteRepository implements billing.BillWriteRepository using GORM
type GormBillWriteRepository struct {
	db *gorm.DB
}

// NewGormBillWriteRepository creates a new GormBillWriteRepository
func NewGormBillWriteRepository(db *gorm.DB) *GormBillWriteRepository {
	return &GormBillWriteRepository{db: db}
}

// ExistsByNumber reports whether a bill with this exact number is stored
func (r *GormBillWriteRepository) ExistsByNumber(ctx context.Context, billNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("bill_number = ?", billNumber).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check bill number: %w", err)
	}
	return count > 0, nil
}

// Create inserts the bill header and then its lines in one transaction.
// When called inside an outer transaction GORM nests it as a savepoint.
func (r *GormBillWriteRepository) Create(ctx context.Context, bill *billing.Bill) (*billing.CreatedBill, error) {
	header := models.BillModelFromDomain(bill)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(header).Error; err != nil {
			if isUniqueViolation(err) {
				return billing.ErrDuplicateBillNumber
			}
			return fmt.Errorf("insert bill: %w", err)
		}

		lines := models.BillLineModelsFromDomain(header.ID, bill.Lines)
		if len(lines) == 0 {
			return nil
		}
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("insert bill lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return header.ToCreatedBill(bill.Total), nil
}

var _ billing.BillWriteRepository = (*GormBillWriteRepository)(nil)
