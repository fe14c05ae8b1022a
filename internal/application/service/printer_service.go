package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boiiloat/pos-api/internal/domain/entity"
	"github.com/boiiloat/pos-api/internal/domain/enum"
	"github.com/boiiloat/pos-api/internal/domain/repository"
	"github.com/boiiloat/pos-api/pkg/apperror"
	"github.com/boiiloat/pos-api/pkg/printer"
)

// PrinterService handles receipt formatting and thermal printing
type PrinterService struct {
	printer     printer.Printer
	saleRepo    repository.SaleRepository
	userRepo    repository.UserRepository
	printerType string
	storeName   string
	width       int
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	p printer.Printer,
	saleRepo repository.SaleRepository,
	userRepo repository.UserRepository,
	printerType, storeName string,
	width int,
) *PrinterService {
	if width <= 0 {
		width = 32
	}
	return &PrinterService{
		printer:     p,
		saleRepo:    saleRepo,
		userRepo:    userRepo,
		printerType: printerType,
		storeName:   storeName,
		width:       width,
	}
}

// PrinterStatus returns the current printer status information
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// Receipt is the printable view of a sale
type Receipt struct {
	StoreName     string        `json:"store_name"`
	InvoiceNumber string        `json:"invoice_number"`
	Date          string        `json:"date"`
	Table         string        `json:"table,omitempty"`
	Cashier       string        `json:"cashier,omitempty"`
	Items         []ReceiptItem `json:"items"`
	SubTotal      string        `json:"sub_total"`
	Discount      string        `json:"discount,omitempty"`
	GrandTotal    string        `json:"grand_total"`
	Paid          string        `json:"paid"`
	Due           string        `json:"due,omitempty"`
	Status        string        `json:"status"`
}

// ReceiptItem is one line on a receipt
type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
	IsFree    bool   `json:"is_free,omitempty"`
}

// PrintSaleReceipt fetches a sale with its details and prints its receipt.
// The receipt is returned either way so callers can show it when no printer
// is attached.
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, saleID uuid.UUID) (*Receipt, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	receipt := s.buildReceipt(ctx, sale)

	data := s.formatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (sale %s): %v", saleID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

func (s *PrinterService) buildReceipt(ctx context.Context, sale *entity.Sale) *Receipt {
	receipt := &Receipt{
		StoreName:     s.storeName,
		InvoiceNumber: sale.InvoiceNumber,
		Date:          sale.SaleDate.Format("2006-01-02 15:04"),
		SubTotal:      sale.SubTotal.StringFixed(2),
		GrandTotal:    sale.GrandTotal.StringFixed(2),
		Status:        sale.Status.String(),
	}

	if sale.Table != nil {
		receipt.Table = sale.Table.Name
	}

	if cashier, err := s.userRepo.GetByID(ctx, sale.CreatedBy); err == nil && cashier != nil {
		receipt.Cashier = cashier.Fullname
	}

	discount := sale.DiscountAmount(sale.SubTotal)
	if discount.IsPositive() {
		label := discount.StringFixed(2)
		if sale.DiscountType != nil && *sale.DiscountType == enum.DiscountTypePercentage {
			label = fmt.Sprintf("%s (%s%%)", label, sale.Discount.StringFixed(0))
		}
		receipt.Discount = label
	}

	for _, item := range sale.Products {
		receipt.Items = append(receipt.Items, ReceiptItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.Price.StringFixed(2),
			Total:     item.LineTotal().StringFixed(2),
			IsFree:    item.IsFree,
		})
	}

	paid := entity.TotalPaidOf(sale.Payments)
	receipt.Paid = paid.StringFixed(2)

	due := sale.GrandTotal.Sub(paid)
	if due.IsPositive() {
		receipt.Due = due.StringFixed(2)
	} else {
		receipt.Due = decimal.Zero.StringFixed(2)
	}

	return receipt
}

// formatReceipt converts a Receipt into ESC/POS bytes
func (s *PrinterService) formatReceipt(r *Receipt) []byte {
	doc := printer.NewDocument(s.width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Invoice:", r.InvoiceNumber).
		KeyValue("Date:", r.Date)

	if r.Table != "" {
		doc.KeyValue("Table:", r.Table)
	}
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		name := item.Name
		if item.IsFree {
			name = name + " (free)"
		}
		doc.ItemLine(item.Quantity, name, item.Total)
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", item.UnitPrice)
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", r.SubTotal)
	if r.Discount != "" {
		doc.KeyValue("Discount:", "-"+r.Discount)
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", r.GrandTotal).
		SetBold(false)

	doc.KeyValue("Paid:", r.Paid)
	if r.Due != "" && r.Due != "0.00" {
		doc.KeyValue("Due:", r.Due)
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you, come again!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
