package invoice

import (
	"math/rand"
	"sync"
	"time"
)

// LineItem is one row of the in-memory invoice table. Subtotal is always
// quantity x price, recomputed on append and never stored independently.
type LineItem struct {
	No          int     `json:"no"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

// IssuedTo is the static recipient block of the rendered invoice.
type IssuedTo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// BankDetails is the static payment block of the rendered invoice.
type BankDetails struct {
	BankName  string `json:"bank_name"`
	AccountNo string `json:"account_no"`
}

// Details is the fixed-shape invoice document returned to the frontend.
type Details struct {
	DateIssued    string      `json:"date_issued"`
	InvoiceNumber string      `json:"invoice_number"`
	IssuedTo      IssuedTo    `json:"issued_to"`
	BankDetails   BankDetails `json:"bank_details"`
	TableData     []LineItem  `json:"table_data"`
}

// Book holds the process-wide line item table. There is exactly one shared
// instance; the mutex makes concurrent appends and reads safe, but rows from
// unrelated callers still interleave in arrival order.
type Book struct {
	mu   sync.Mutex
	rows []LineItem
	rand *rand.Rand
	now  func() time.Time
}

func NewBook() *Book {
	return &Book{
		rows: make([]LineItem, 0),
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:  time.Now,
	}
}

// AppendRow computes the subtotal and position and adds the row.
func (b *Book) AppendRow(description string, quantity int, price float64) LineItem {
	b.mu.Lock()
	defer b.mu.Unlock()

	row := LineItem{
		No:          len(b.rows) + 1,
		Description: description,
		Quantity:    quantity,
		Price:       price,
		Subtotal:    float64(quantity) * price,
	}
	b.rows = append(b.rows, row)
	return row
}

// Rows returns a snapshot of the current table.
func (b *Book) Rows() []LineItem {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows := make([]LineItem, len(b.rows))
	copy(rows, b.rows)
	return rows
}

// Details returns the rendered invoice document: fabricated issue date, a
// fresh random invoice number, static issuer and bank fields, and the current
// rows.
func (b *Book) Details() Details {
	return Details{
		DateIssued:    b.now().Format("02 January 2006"),
		InvoiceNumber: b.generateInvoiceNumber(),
		IssuedTo: IssuedTo{
			Name:    "Raghavendra",
			Address: "Dhanban Jharkhand, 826001",
		},
		BankDetails: BankDetails{
			BankName:  "Rimberio",
			AccountNo: "012345678901",
		},
		TableData: b.Rows(),
	}
}

const invoiceNumberChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (b *Book) generateInvoiceNumber() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]byte, 5)
	for i := range out {
		out[i] = invoiceNumberChars[b.rand.Intn(len(invoiceNumberChars))]
	}
	return string(out)
}
