// internal/domain/models.go
package domain

import "time"

// StoreItem is one row of the store_data table: one (item_no, variant_code)
// pair per inventory snapshot. The column names are the wire contract with
// the existing database and must not change.
type StoreItem struct {
	ItemNo            string    `json:"item_no" db:"item_no"`
	VariantCode       string    `json:"variant_code" db:"variant_code"`
	VendorNo          string    `json:"vendor_no" db:"vendor_no"`
	Brand             string    `json:"brand" db:"brand"`
	Description       string    `json:"description" db:"description"`
	SubDescription    string    `json:"sub_description" db:"sub_description"`
	Planogram         string    `json:"planogram" db:"planogram"`
	BackOrdered       string    `json:"back_ordered" db:"back_ordered"`
	PromoCode         string    `json:"promo_code" db:"promo_code"`
	DailySales        float64   `json:"daily_sales" db:"daily_sales"`
	OnHand            float64   `json:"on_hand" db:"on_hand"`
	QtyOnPurchaseOrd  float64   `json:"qty_on_purchase_order" db:"qty_on_purchase_order"`
	QtyOnSalesOrd     float64   `json:"qty_on_sales_order" db:"qty_on_sales_order"`
	InTransfer        float64   `json:"in_transfer" db:"in_transfer"`
	Sales30d          float64   `json:"sales_30d" db:"sales_30d"`
	Sales31to60d      float64   `json:"sales_31_60d" db:"sales_31_60d"`
	DivisionCode      string    `json:"division_code" db:"division_code"`
	CategoryCode      string    `json:"category_code" db:"category_code"`
	ProductGroupCode  string    `json:"product_group_code" db:"product_group_code"`
	SnapshotAt        time.Time `json:"snapshot_at" db:"snapshot_at"`
	Visible           bool      `json:"visible" db:"visible"`
}

// SaleTag is one active promotional placement in the sale_tag table. The
// surrogate id identifies a physical tag; the normalized (brand, description)
// pair is the matching identity, and several tags may share it (one per
// location).
type SaleTag struct {
	ID          int64  `json:"id" db:"id"`
	Brand       string `json:"brand" db:"brand"`
	Description string `json:"description" db:"description"`
	Discount    string `json:"discount" db:"discount"`
	Location    string `json:"location" db:"location"`
	TagType     string `json:"tag_type" db:"tag_type"`
	TagCount    int    `json:"tag_count" db:"tag_count"`
	Note        string `json:"note" db:"note"`
	SaleEnds    string `json:"sale_ends" db:"sale_ends"`
	Visible     bool   `json:"visible" db:"visible"`
}

// UnmatchedSaleTagRow is a spreadsheet row whose (brand, item) pair matched
// no visible sale tag, parked for manual resolution.
type UnmatchedSaleTagRow struct {
	ID        int64     `json:"id" db:"id"`
	Brand     string    `json:"brand" db:"brand"`
	Item      string    `json:"item" db:"item"`
	Price     string    `json:"price" db:"price"`
	SaleEnds  string    `json:"sale_ends" db:"sale_ends"`
	UID       int64     `json:"uid" db:"uid"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// User is an account row. ID is the login handle; UID is the durable numeric
// identity other tables reference.
type User struct {
	UID       int64     `json:"uid" db:"uid"`
	ID        string    `json:"id" db:"id"`
	PW        string    `json:"-" db:"pw"`
	Name      string    `json:"name" db:"name"`
	Location  string    `json:"location" db:"location"`
	Privilege string    `json:"privilege" db:"privilege"`
	JoinedAt  time.Time `json:"joined_at" db:"joined_at"`
}

// AuditEntry is one row of the request audit log.
type AuditEntry struct {
	UID       int64  `json:"uid" db:"uid"`
	Type      string `json:"type" db:"type"`
	Detail    string `json:"detail" db:"detail"`
	IP        string `json:"ip" db:"ip"`
	UserAgent string `json:"user_agent" db:"user_agent"`
}
