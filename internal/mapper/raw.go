package mapper

// Raw input shapes as handed over by the upstream extraction service.
// Field-name variants that occur in the wild (legacy "items", "street" vs
// "address", combined "taxId") are carried side by side and reconciled by
// ToCanonical.

// RawInvoice is a partially-normalized invoice record.
type RawInvoice struct {
	InvoiceNumber    string `json:"invoiceNumber"`
	InvoiceDate      string `json:"invoiceDate"`
	DocumentTypeCode string `json:"documentTypeCode"`
	Currency         string `json:"currency"`
	BuyerReference   string `json:"buyerReference"`
	Notes            string `json:"notes"`

	PrecedingInvoiceReference string `json:"precedingInvoiceReference"`
	BillingPeriodStart        string `json:"billingPeriodStart"`
	BillingPeriodEnd          string `json:"billingPeriodEnd"`

	Seller  RawParty   `json:"seller"`
	Buyer   RawParty   `json:"buyer"`
	Payment RawPayment `json:"payment"`

	LineItems []RawLineItem `json:"lineItems"`
	// Legacy field name, used when LineItems is absent.
	Items []RawLineItem `json:"items"`

	AllowanceCharges []RawAllowanceCharge `json:"allowanceCharges"`

	Subtotal    float64 `json:"subtotal"`
	TaxAmount   float64 `json:"taxAmount"`
	TotalAmount float64 `json:"totalAmount"`

	TaxRate float64 `json:"taxRate"`

	Confidence       float64 `json:"confidence"`
	ProcessingTimeMs int64   `json:"processingTimeMs"`
}

// RawParty is a seller or buyer record.
type RawParty struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Postal  string `json:"postalCode"`
	Zip     string `json:"zip"`
	Country string `json:"countryCode"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`

	VATID     string `json:"vatId"`
	TaxNumber string `json:"taxNumber"`
	// Combined legacy identifier; split into VATID/TaxNumber when it is the
	// only one provided.
	TaxID string `json:"taxId"`

	ElectronicAddress       string `json:"electronicAddress"`
	ElectronicAddressScheme string `json:"electronicAddressScheme"`

	ContactName string `json:"contactName"`
	TaxRegime   string `json:"taxRegime"`
}

// RawPayment carries payment instructions.
type RawPayment struct {
	IBAN          string  `json:"iban"`
	BIC           string  `json:"bic"`
	BankName      string  `json:"bankName"`
	PaymentTerms  string  `json:"paymentTerms"`
	DueDate       string  `json:"dueDate"`
	PrepaidAmount float64 `json:"prepaidAmount"`
}

// RawLineItem is a single extracted line.
type RawLineItem struct {
	Description string  `json:"description"`
	Name        string  `json:"name"` // legacy alias for Description
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
	TaxRate     float64 `json:"taxRate"`
	TaxCategory string  `json:"taxCategoryCode"`
	UnitCode    string  `json:"unitCode"`
}

// RawAllowanceCharge is a document-level discount or surcharge.
type RawAllowanceCharge struct {
	ChargeIndicator bool    `json:"chargeIndicator"`
	Amount          float64 `json:"amount"`
	BaseAmount      float64 `json:"baseAmount"`
	Percentage      float64 `json:"percentage"`
	Reason          string  `json:"reason"`
	ReasonCode      string  `json:"reasonCode"`
	TaxRate         float64 `json:"taxRate"`
	TaxCategory     string  `json:"taxCategoryCode"`
}
