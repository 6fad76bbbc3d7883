package entity

// InvoiceRow is one itemized line of an invoice document, already formatted
type InvoiceRow struct {
	Item      string
	Price     string
	Quantity  string
	LineTotal string
}

// InvoiceDocument is the fixed layout a bill is printed with.
// Rows appear in bill order and every money column has two decimals.
type InvoiceDocument struct {
	Title          string
	InvoiceNo      string
	IssuedTo       string
	Rows           []InvoiceRow
	Subtotal       string
	DiscountLabel  string
	DiscountAmount string
	GrandTotal     string
}
