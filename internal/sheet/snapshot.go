package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/storeops/replenish-backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Inventory snapshot exports come from the merchandising system with stable
// field meanings but drifting header spellings.
var snapshotAliases = map[string]string{
	"item no":               "item_no",
	"item no.":              "item_no",
	"item_no":               "item_no",
	"variant code":          "variant_code",
	"variant_code":          "variant_code",
	"vendor no":             "vendor_no",
	"vendor no.":            "vendor_no",
	"vendor_no":             "vendor_no",
	"brand":                 "brand",
	"description":           "description",
	"sub description":       "sub_description",
	"sub_description":       "sub_description",
	"planogram":             "planogram",
	"back ordered":          "back_ordered",
	"back_ordered":          "back_ordered",
	"promo code":            "promo_code",
	"promo_code":            "promo_code",
	"daily sales":           "daily_sales",
	"daily_sales":           "daily_sales",
	"on hand":               "on_hand",
	"on_hand":               "on_hand",
	"qty on purchase order": "qty_on_purchase_order",
	"qty_on_purchase_order": "qty_on_purchase_order",
	"qty on sales order":    "qty_on_sales_order",
	"qty_on_sales_order":    "qty_on_sales_order",
	"in transfer":           "in_transfer",
	"in_transfer":           "in_transfer",
	"sales 30d":             "sales_30d",
	"30 day sales":          "sales_30d",
	"sales_30d":             "sales_30d",
	"sales 31-60d":          "sales_31_60d",
	"31-60 day sales":       "sales_31_60d",
	"sales_31_60d":          "sales_31_60d",
	"division code":         "division_code",
	"division_code":         "division_code",
	"category code":         "category_code",
	"category_code":         "category_code",
	"product group code":    "product_group_code",
	"product_group_code":    "product_group_code",
}

// ParseSnapshot reads an inventory snapshot workbook into StoreItem rows.
// item_no is the only hard requirement; rows without one are skipped. All
// rows get the same snapshot timestamp and are marked visible.
func ParseSnapshot(reader io.Reader, snapshotAt time.Time) ([]domain.StoreItem, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open snapshot workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("snapshot workbook has no sheets")
	}

	raw, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read snapshot rows: %w", err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("snapshot workbook has no data rows")
	}

	colMap := make(map[string]int)
	for idx, header := range raw[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if canonical, ok := snapshotAliases[key]; ok {
			if _, dup := colMap[canonical]; !dup {
				colMap[canonical] = idx
			}
		}
	}
	if _, ok := colMap["item_no"]; !ok {
		return nil, fmt.Errorf("snapshot is missing the item_no column")
	}

	items := make([]domain.StoreItem, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		text := func(col string) string {
			idx, ok := colMap[col]
			if !ok || idx >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[idx])
		}
		number := func(col string) float64 {
			s := text(col)
			if s == "" {
				return 0
			}
			f, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
			return f
		}

		itemNo := text("item_no")
		if itemNo == "" {
			continue
		}

		items = append(items, domain.StoreItem{
			ItemNo:           itemNo,
			VariantCode:      text("variant_code"),
			VendorNo:         text("vendor_no"),
			Brand:            text("brand"),
			Description:      text("description"),
			SubDescription:   text("sub_description"),
			Planogram:        text("planogram"),
			BackOrdered:      text("back_ordered"),
			PromoCode:        text("promo_code"),
			DailySales:       number("daily_sales"),
			OnHand:           number("on_hand"),
			QtyOnPurchaseOrd: number("qty_on_purchase_order"),
			QtyOnSalesOrd:    number("qty_on_sales_order"),
			InTransfer:       number("in_transfer"),
			Sales30d:         number("sales_30d"),
			Sales31to60d:     number("sales_31_60d"),
			DivisionCode:     text("division_code"),
			CategoryCode:     text("category_code"),
			ProductGroupCode: text("product_group_code"),
			SnapshotAt:       snapshotAt,
			Visible:          true,
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("snapshot workbook has no usable rows")
	}
	return items, nil
}
