package models

import (
	"context"
	"errors"
	"time"

	"github.com/bizcoresoft/bakery_backend/config"
	"github.com/bizcoresoft/bakery_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a stocked raw material or product. UnitCost is a moving average
// re-derived on every receipt; QtyOnHand tracks stock in the item's unit.
type Item struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"index;not null" json:"business_id"`
	Name        string          `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Sku         string          `gorm:"index;size:50" json:"sku"`
	Unit        string          `gorm:"size:20" json:"unit"`
	QtyOnHand   decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"qty_on_hand"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"unit_cost"`
	SalesPrice  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sales_price"`
	IsActive    *bool           `gorm:"not null;default:true" json:"is_active"`
	Description string          `gorm:"size:255" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ItemCostHistory records every moving-average revaluation for audit.
type ItemCostHistory struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"index;not null" json:"business_id"`
	ItemId       int             `gorm:"index;not null" json:"item_id"`
	PurchaseId   int             `gorm:"index" json:"purchase_id"`
	QtyBefore    decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"qty_before"`
	CostBefore   decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"cost_before"`
	QtyReceived  decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"qty_received"`
	CostReceived decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"cost_received"`
	QtyAfter     decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"qty_after"`
	CostAfter    decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"cost_after"`
	Date         time.Time       `gorm:"index;not null" json:"date"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewItem struct {
	Name        string          `json:"name" binding:"required"`
	Sku         string          `json:"sku"`
	Unit        string          `json:"unit"`
	SalesPrice  decimal.Decimal `json:"sales_price"`
	Description string          `json:"description"`
}

// NextMovingAverageCost blends the incoming receipt into the current average:
// (qty*cost + inQty*inCost) / (qty + inQty), with no intermediate rounding.
// When the combined quantity is zero the incoming cost is kept as-is.
func NextMovingAverageCost(qty, cost, inQty, inCost decimal.Decimal) decimal.Decimal {
	totalQty := qty.Add(inQty)
	if totalQty.IsZero() {
		return inCost
	}
	totalValue := qty.Mul(cost).Add(inQty.Mul(inCost))
	return totalValue.Div(totalQty)
}

func (input *NewItem) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Item](ctx, businessId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Item](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	if input.SalesPrice.IsNegative() {
		return errors.New("sales price cannot be negative")
	}
	return nil
}

func CreateItem(ctx context.Context, input *NewItem) (*Item, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	item := Item{
		BusinessId:  businessId,
		Name:        input.Name,
		Sku:         input.Sku,
		Unit:        input.Unit,
		SalesPrice:  input.SalesPrice,
		Description: input.Description,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateItem(ctx context.Context, id int, input *NewItem) (*Item, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	item, err := utils.FetchModel[Item](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&item).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Sku":         input.Sku,
		"Unit":        input.Unit,
		"SalesPrice":  input.SalesPrice,
		"Description": input.Description,
	}).Error
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ReceiveItemStock applies one receipt to the item inside the caller's
// transaction: blends the moving-average cost, bumps quantity on hand and
// appends a cost-history row. Returns the new unit cost.
func ReceiveItemStock(tx *gorm.DB, itemId int, purchaseId int, qty, unitCost decimal.Decimal, date time.Time) (decimal.Decimal, error) {

	if !qty.IsPositive() {
		return decimal.Zero, errors.New("received quantity must be positive")
	}
	if unitCost.IsNegative() {
		return decimal.Zero, errors.New("unit cost cannot be negative")
	}

	var item Item
	if err := tx.First(&item, itemId).Error; err != nil {
		return decimal.Zero, utils.ErrorRecordNotFound
	}

	newCost := NextMovingAverageCost(item.QtyOnHand, item.UnitCost, qty, unitCost)
	newQty := item.QtyOnHand.Add(qty)

	history := ItemCostHistory{
		BusinessId:   item.BusinessId,
		ItemId:       item.ID,
		PurchaseId:   purchaseId,
		QtyBefore:    item.QtyOnHand,
		CostBefore:   item.UnitCost,
		QtyReceived:  qty,
		CostReceived: unitCost,
		QtyAfter:     newQty,
		CostAfter:    newCost,
		Date:         date,
	}
	if err := tx.Create(&history).Error; err != nil {
		return decimal.Zero, err
	}

	err := tx.Model(&item).Updates(map[string]interface{}{
		"QtyOnHand": newQty,
		"UnitCost":  newCost,
	}).Error
	if err != nil {
		return decimal.Zero, err
	}
	return newCost, nil
}

func GetItem(ctx context.Context, id int) (*Item, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Item](ctx, businessId, id)
}

func GetItems(ctx context.Context) ([]*Item, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[Item](ctx, businessId)
}

func GetItemCostHistory(ctx context.Context, itemId int) ([]*ItemCostHistory, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*ItemCostHistory
	err := db.WithContext(ctx).
		Where("business_id = ? AND item_id = ?", businessId, itemId).
		Order("id ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
