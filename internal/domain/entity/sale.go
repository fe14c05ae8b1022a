package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/boiiloat/pos-api/internal/domain/enum"
	"github.com/boiiloat/pos-api/pkg/utils"
)

// Sale represents a sales order. SubTotal, GrandTotal, IsPaid and Status are
// derived values, recomputed whenever the sale's line items or payments change.
type Sale struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string             `gorm:"size:100;unique;not null" json:"invoice_number"`
	SubTotal      decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"sub_total"`
	DiscountType  *enum.DiscountType `gorm:"type:varchar(20)" json:"discount_type,omitempty"`
	Discount      decimal.Decimal    `gorm:"type:decimal(10,2);default:0" json:"discount"`
	GrandTotal    decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"grand_total"`
	IsPaid        bool               `gorm:"default:false" json:"is_paid"`
	Status        enum.SaleStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	SaleDate      time.Time          `gorm:"not null" json:"sale_date"`
	TableID       *uuid.UUID         `gorm:"type:uuid;index" json:"table_id,omitempty"`
	CreatedBy     uuid.UUID          `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Table    *Table        `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Creator  User          `gorm:"foreignKey:CreatedBy" json:"-"`
	Products []SaleProduct `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	Payments []SalePayment `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID and an invoice number when absent
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.InvoiceNumber == "" {
		s.InvoiceNumber = utils.GenerateInvoiceNumber(time.Now())
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// DiscountAmount returns the absolute discount derived from the sale's
// discount type: the stored value for a fixed discount, or a percentage of
// the given subtotal.
func (s *Sale) DiscountAmount(subTotal decimal.Decimal) decimal.Decimal {
	if s.DiscountType == nil {
		return decimal.Zero
	}
	switch *s.DiscountType {
	case enum.DiscountTypeFixed:
		return s.Discount
	case enum.DiscountTypePercentage:
		return subTotal.Mul(s.Discount).Div(decimal.NewFromInt(100))
	}
	return decimal.Zero
}

// GrandTotalFor computes the grand total for the given subtotal, clamped so
// it never goes below zero.
func (s *Sale) GrandTotalFor(subTotal decimal.Decimal) decimal.Decimal {
	grandTotal := subTotal.Sub(s.DiscountAmount(subTotal))
	if grandTotal.IsNegative() {
		return decimal.Zero
	}
	return grandTotal
}

// ApplyTotals sets SubTotal and the derived GrandTotal on the sale.
func (s *Sale) ApplyTotals(subTotal decimal.Decimal) {
	s.SubTotal = subTotal
	s.GrandTotal = s.GrandTotalFor(subTotal)
}

// ApplyPaymentStatus derives IsPaid and Status from the total amount paid
// against the sale. A cancelled sale is terminal: IsPaid is still tracked but
// the status is never flipped back to pending or completed.
func (s *Sale) ApplyPaymentStatus(totalPaid decimal.Decimal) {
	s.IsPaid = totalPaid.GreaterThanOrEqual(s.GrandTotal)
	if s.Status == enum.SaleStatusCancelled {
		return
	}
	if s.IsPaid {
		s.Status = enum.SaleStatusCompleted
	} else {
		s.Status = enum.SaleStatusPending
	}
}

// SaleProduct represents a product line on a sale. ProductName and Image are
// snapshots taken when the line is created and are never re-synced from the
// catalog.
type SaleProduct struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsFree      bool            `gorm:"default:false" json:"is_free"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Image       *string         `gorm:"size:255" json:"image,omitempty"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Creator User    `gorm:"foreignKey:CreatedBy" json:"-"`
}

// BeforeCreate generates a UUID before creating a new sale product
func (sp *SaleProduct) BeforeCreate(tx *gorm.DB) error {
	if sp.ID == uuid.Nil {
		sp.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleProduct model
func (SaleProduct) TableName() string {
	return "sale_products"
}

// LineTotal returns price * quantity for this line. Free lines still
// contribute their full amount to the sale subtotal.
func (sp *SaleProduct) LineTotal() decimal.Decimal {
	return sp.Price.Mul(decimal.NewFromInt(int64(sp.Quantity)))
}

// SalePayment represents a payment applied against a sale.
// PaymentMethodName is a snapshot of the method's name at payment time.
type SalePayment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	PaymentMethodID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_method_id"`
	PaymentAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"payment_amount"`
	ExchangeRate      decimal.Decimal `gorm:"type:decimal(10,4);default:1" json:"exchange_rate"`
	PaymentMethodName string          `gorm:"size:255;not null" json:"payment_method_name"`
	CreatedBy         uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Sale          Sale          `gorm:"foreignKey:SaleID" json:"-"`
	PaymentMethod PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
	Creator       User          `gorm:"foreignKey:CreatedBy" json:"-"`
}

// BeforeCreate generates a UUID before creating a new sale payment
func (p *SalePayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SalePayment model
func (SalePayment) TableName() string {
	return "sale_payments"
}

// SubTotalOf sums price * quantity over the given line items.
func SubTotalOf(items []SaleProduct) decimal.Decimal {
	subTotal := decimal.Zero
	for i := range items {
		subTotal = subTotal.Add(items[i].LineTotal())
	}
	return subTotal
}

// TotalPaidOf sums payment amounts at face value; exchange rates are stored
// per payment but not applied when comparing against the grand total.
func TotalPaidOf(payments []SalePayment) decimal.Decimal {
	total := decimal.Zero
	for i := range payments {
		total = total.Add(payments[i].PaymentAmount)
	}
	return total
}
