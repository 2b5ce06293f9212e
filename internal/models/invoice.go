package models

// InvoiceInput содержит поля формы фактуры до валидации.
type InvoiceInput struct {
	InvoiceNumber   string  `json:"invoice_number"`
	ClientName      string  `json:"client_name"`
	ClientAddress1  string  `json:"client_address1"`
	ClientAddress2  string  `json:"client_address2"`
	ClientICO       string  `json:"client_ico,omitempty"`
	ItemDescription string  `json:"item_description"`
	ItemPrice       float64 `json:"item_price"`
	IssueDate       string  `json:"issue_date,omitempty"`
	DueDate         string  `json:"due_date,omitempty"`
}

// Invoice — собранный печатный документ. Хранится только в ответе, не в базе.
type Invoice struct {
	InvoiceNumber   string  `json:"invoice_number"`
	VariableSymbol  string  `json:"variable_symbol"`
	IssueDate       string  `json:"issue_date"`
	DueDate         string  `json:"due_date"`
	SupplierName    string  `json:"supplier_name"`
	SupplierAddress string  `json:"supplier_address"`
	SupplierICO     string  `json:"supplier_ico,omitempty"`
	ClientName      string  `json:"client_name"`
	ClientAddress1  string  `json:"client_address1"`
	ClientAddress2  string  `json:"client_address2"`
	ClientICO       string  `json:"client_ico,omitempty"`
	ItemDescription string  `json:"item_description"`
	ItemPrice       float64 `json:"item_price"`
	Currency        string  `json:"currency"`
	PaymentString   string  `json:"payment_string"`
}
