package domain

import "time"

type ItemKind string

const (
	KindSale   ItemKind = "SALE"
	KindRental ItemKind = "RENTAL"
)

type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Stock    int      `json:"stock"` // never negative; clamped at 0 on decrement
	Category string   `json:"category"`
	TaxRate  float64  `json:"tax_rate"`
	MinStock int      `json:"min_stock"`
	Kind     ItemKind `json:"kind"`                // SALE | RENTAL
	Duration string   `json:"duration,omitempty"`  // rental period label, RENTAL only
}

// Line is a snapshot of an Item at order time plus the requested quantity.
// Quantities on a committed order correspond 1:1 with the stock decrements
// already applied to the referenced items.
type Line struct {
	ItemID   string   `json:"item_id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Kind     ItemKind `json:"kind"`
	Duration string   `json:"duration,omitempty"`
	Qty      int      `json:"qty"`
}

// PartyRef is a denormalized snapshot attached to an order, not a foreign key.
type PartyRef struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Place string `json:"place"`
}

type Order struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Lines     []Line    `json:"lines"`
	Total     float64   `json:"total"`
	TaxTotal  float64   `json:"tax_total"`
	Party     *PartyRef `json:"party,omitempty"`
}

type Party struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Place string `json:"place"`
}

// SettingsID is the fixed id of the singleton config record.
const SettingsID = "settings"

type Settings struct {
	ID            string  `json:"id"`
	ShopName      string  `json:"shop_name"`
	Address       string  `json:"address"`
	Phone         string  `json:"phone"`
	TaxEnabled    bool    `json:"tax_enabled"`
	TaxRate       float64 `json:"tax_rate"`
	ReceiptFooter string  `json:"receipt_footer"`
	LogoPath      string  `json:"logo_path,omitempty"`
	QRPath        string  `json:"qr_path,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:            SettingsID,
		ShopName:      "My Shop",
		ReceiptFooter: "Thank you!",
	}
}

// Draft is an order not yet committed. It exists only in memory; committing
// it persists an Order and decrements stock.
type Draft struct {
	Lines []Line    `json:"lines"`
	Party *PartyRef `json:"party,omitempty"`
}
