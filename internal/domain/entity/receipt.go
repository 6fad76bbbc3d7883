package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// Receipt is a value object representing a thermal receipt.
// It is NOT a database entity, it is composed from a bill at print time.
type Receipt struct {
	Header         ReceiptHeader `json:"header"`
	InvoiceNo      string        `json:"invoice_no"`
	Date           string        `json:"date"`
	Cashier        string        `json:"cashier,omitempty"`
	Items          []ReceiptItem `json:"items"`
	SubTotal       string        `json:"sub_total"`
	DiscountLabel  string        `json:"discount_label"`
	DiscountAmount string        `json:"discount_amount"`
	Total          string        `json:"total"`
}
