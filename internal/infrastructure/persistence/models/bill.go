package models

import (
	"time"

	"github.com/erp/bills/internal/domain/billing"
	"github.com/erp/bills/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BillModel is the persistence model for the bill table
type BillModel struct {
	BaseModel
	BillNumber   string          `gorm:"column:bill_number;type:varchar(50);not null;uniqueIndex:ux_bill_bill_number"`
	IssuedAt     time.Time       `gorm:"column:issued_at;type:date;not null"`
	CustomerName string          `gorm:"column:customer_name;type:varchar(200);not null"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax          decimal.Decimal `gorm:"column:tax;type:numeric(12,2);not null"`
	Currency     string          `gorm:"column:currency;type:varchar(3);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;not null"`
	Lines        []BillLineModel `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bill"
}

// BillLineModel is the persistence model for the bill_line table
type BillLineModel struct {
	BaseModel
	BillID     int64           `gorm:"column:bill_id;not null;index:ix_bill_line_bill_id"`
	LineNo     int             `gorm:"column:line_no;not null"`
	Concept    string          `gorm:"column:concept;type:varchar(200);not null"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:numeric(10,2);not null"`
	UnitAmount decimal.Decimal `gorm:"column:unit_amount;type:numeric(12,2);not null"`
	LineAmount decimal.Decimal `gorm:"column:line_amount;type:numeric(12,2);not null"`
}

// TableName returns the table name for GORM
func (BillLineModel) TableName() string {
	return "bill_line"
}

// BillModelFromDomain converts a validated domain bill to its header model.
// Lines are converted separately so they can be inserted once the header id is known.
func BillModelFromDomain(b *billing.Bill) *BillModel {
	return &BillModel{
		BillNumber:   b.BillNumber,
		IssuedAt:     billing.DateOnly(b.IssuedAt),
		CustomerName: b.CustomerName,
		Subtotal:     b.Subtotal,
		Tax:          b.Tax,
		Currency:     b.Currency.String(),
	}
}

// BillLineModelsFromDomain converts domain lines to models owned by billID
func BillLineModelsFromDomain(billID int64, lines []billing.BillLine) []BillLineModel {
	models := make([]BillLineModel, 0, len(lines))
	for _, l := range lines {
		models = append(models, BillLineModel{
			BillID:     billID,
			LineNo:     l.LineNo,
			Concept:    l.Concept,
			Quantity:   l.Quantity,
			UnitAmount: l.UnitAmount,
			LineAmount: l.LineAmount,
		})
	}
	return models
}

// ToCreatedBill converts a stored header to the creation result.
// total is passed in since the header does not persist it.
func (m *BillModel) ToCreatedBill(total decimal.Decimal) *billing.CreatedBill {
	return &billing.CreatedBill{
		ID:         m.ID,
		BillNumber: m.BillNumber,
		IssuedAt:   billing.DateOnly(m.IssuedAt),
		Subtotal:   valueobject.Round2(m.Subtotal),
		Tax:        valueobject.Round2(m.Tax),
		Total:      valueobject.Round2(total),
		Currency:   m.Currency,
	}
}
