package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrder is a vendor purchase of stocked items. Receiving it updates
// item costs and posts the inventory/payable booking; that happens in the
// stock workflow, not here.
type PurchaseOrder struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"index;not null" json:"business_id"`
	Name       string          `gorm:"index;size:50" json:"name"`
	VendorId   int             `gorm:"index;not null" json:"vendor_id" binding:"required"`
	Date       time.Time       `gorm:"index;not null" json:"date"`
	Status     PurchaseStatus  `gorm:"type:enum('draft','received');default:'draft';size:10;index" json:"status"`
	Total      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	CurrencyId int             `gorm:"index" json:"currency_id"`
	Rate       decimal.Decimal `gorm:"type:decimal(20,6);default:0" json:"rate"`
	BookingId  int             `gorm:"index" json:"booking_id"`
	Note       string          `gorm:"size:255" json:"note"`

	Lines []PurchaseOrderLine `gorm:"foreignKey:PurchaseId" json:"lines"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrderLine struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"index;not null" json:"business_id"`
	PurchaseId int             `gorm:"index;not null" json:"purchase_id"`
	ItemId     int             `gorm:"index;not null" json:"item_id"`
	Qty        decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"qty"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"unit_cost"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Received purchases are frozen: their lines already revalued stock.
func (p *PurchaseOrder) BeforeUpdate(tx *gorm.DB) error {
	if p.Status != PurchaseStatusReceived {
		return nil
	}
	if tx == nil || tx.Statement == nil || tx.Statement.Schema == nil {
		return nil
	}
	allowed := map[string]bool{"Status": true, "BookingId": true, "UpdatedAt": true}
	for _, f := range tx.Statement.Schema.Fields {
		if tx.Statement.Changed(f.Name) && !allowed[f.Name] {
			return errors.New("this purchase is received and cannot be modified")
		}
	}
	return nil
}

type NewPurchaseOrder struct {
	VendorId   int                    `json:"vendor_id" binding:"required"`
	Date       time.Time              `json:"date" binding:"required"`
	CurrencyId int                    `json:"currency_id"`
	Note       string                 `json:"note"`
	Lines      []NewPurchaseOrderLine `json:"lines" binding:"required,dive"`
}

type NewPurchaseOrderLine struct {
	ItemId   int             `json:"item_id" binding:"required"`
	Qty      decimal.Decimal `json:"qty" binding:"required"`
	UnitCost decimal.Decimal `json:"unit_cost" binding:"required"`
}

func CreatePurchaseOrder(ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := utils.ValidateResourceId[Vendor](ctx, businessId, input.VendorId); err != nil {
		return nil, errors.New("vendor not found")
	}
	if len(input.Lines) == 0 {
		return nil, errors.New("a purchase order needs at least one line")
	}

	total := decimal.Zero
	lines := make([]PurchaseOrderLine, 0, len(input.Lines))
	for _, in := range input.Lines {
		if err := utils.ValidateResourceId[Item](ctx, businessId, in.ItemId); err != nil {
			return nil, fmt.Errorf("item %d not found", in.ItemId)
		}
		if !in.Qty.IsPositive() {
			return nil, errors.New("line quantity must be positive")
		}
		if in.UnitCost.IsNegative() {
			return nil, errors.New("line unit cost cannot be negative")
		}
		subtotal := in.Qty.Mul(in.UnitCost)
		total = total.Add(subtotal)
		lines = append(lines, PurchaseOrderLine{
			BusinessId: businessId,
			ItemId:     in.ItemId,
			Qty:        in.Qty,
			UnitCost:   in.UnitCost,
			Subtotal:   subtotal,
		})
	}

	purchase := PurchaseOrder{
		BusinessId: businessId,
		VendorId:   input.VendorId,
		Date:       input.Date,
		Status:     PurchaseStatusDraft,
		Total:      total,
		CurrencyId: input.CurrencyId,
		Note:       input.Note,
	}
	if purchase.CurrencyId > 0 {
		rate, err := GetEffectiveRate(ctx, businessId, purchase.CurrencyId, purchase.Date)
		if err != nil {
			return nil, err
		}
		purchase.Rate = rate
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].PurchaseId = purchase.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&purchase).Update("Name", fmt.Sprintf("PO/%06d", purchase.ID)).Error
	})
	if err != nil {
		return nil, err
	}
	purchase.Lines = lines
	return &purchase, nil
}

func GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[PurchaseOrder](ctx, businessId, id, "Lines")
}

func GetPurchaseOrders(ctx context.Context, vendorId *int) ([]*PurchaseOrder, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Lines").Where("business_id = ?", businessId)
	if vendorId != nil && *vendorId > 0 {
		dbCtx = dbCtx.Where("vendor_id = ?", *vendorId)
	}
	var results []*PurchaseOrder
	if err := dbCtx.Order("id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// DeletePurchaseOrder removes a draft order and its lines. Received orders
// are kept for the audit trail.
func DeletePurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	purchase, err := utils.FetchModel[PurchaseOrder](ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	if purchase.Status == PurchaseStatusReceived {
		return nil, errors.New("cannot delete a received purchase order")
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&PurchaseOrderLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&purchase).Error
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}
