// Package mapper converts heterogeneous raw invoice records into the
// canonical model all validators and generators consume.
package mapper

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/money"
)

// EU VAT id: 2-letter country prefix followed by alphanumerics.
var vatIDPattern = regexp.MustCompile(`^[A-Z]{2}[0-9A-Za-z]{2,}$`)

// Formats whose national rules make "DE" a defensible default country.
var germanFormats = map[model.OutputFormat]bool{
	model.FormatXRechnungCII: true,
	model.FormatXRechnungUBL: true,
}

// ToCanonical normalizes a raw record into a CanonicalInvoice for the given
// output format, then applies gross→net preprocessing. Data-quality gaps are
// left for the validation pipeline; a nil record or a non-finite numeric
// field is an error.
func ToCanonical(raw *RawInvoice, format model.OutputFormat) (*model.CanonicalInvoice, error) {
	if raw == nil {
		return nil, model.NewInputError("invoice", "raw invoice record is nil", nil)
	}
	if err := checkFinite(raw); err != nil {
		return nil, err
	}

	inv := &model.CanonicalInvoice{
		InvoiceNumber:             strings.TrimSpace(raw.InvoiceNumber),
		InvoiceDate:               strings.TrimSpace(raw.InvoiceDate),
		DocumentTypeCode:          documentType(raw.DocumentTypeCode),
		CurrencyCode:              currency(raw.Currency, format),
		BuyerReference:            strings.TrimSpace(raw.BuyerReference),
		Notes:                     raw.Notes,
		PrecedingInvoiceReference: strings.TrimSpace(raw.PrecedingInvoiceReference),
		BillingPeriodStart:        raw.BillingPeriodStart,
		BillingPeriodEnd:          raw.BillingPeriodEnd,
		Seller:                    mapParty(raw.Seller, format),
		Buyer:                     mapParty(raw.Buyer, format),
		Payment: model.PaymentInfo{
			IBAN:          strings.ReplaceAll(raw.Payment.IBAN, " ", ""),
			BIC:           strings.TrimSpace(raw.Payment.BIC),
			BankName:      raw.Payment.BankName,
			PaymentTerms:  raw.Payment.PaymentTerms,
			DueDate:       strings.TrimSpace(raw.Payment.DueDate),
			PrepaidAmount: money.FromFloat(raw.Payment.PrepaidAmount),
		},
		OutputFormat:     format,
		TaxRate:          decimal.NewFromFloat(raw.TaxRate),
		Confidence:       raw.Confidence,
		ProcessingTimeMs: raw.ProcessingTimeMs,
	}

	rawLines := raw.LineItems
	if len(rawLines) == 0 {
		rawLines = raw.Items
	}
	for _, rl := range rawLines {
		inv.LineItems = append(inv.LineItems, mapLineItem(rl, raw.TaxRate))
	}

	for _, rac := range raw.AllowanceCharges {
		inv.AllowanceCharges = append(inv.AllowanceCharges, mapAllowanceCharge(rac, raw.TaxRate))
	}

	inv.Totals = mapTotals(raw, inv)

	return PreprocessGrossToNet(inv), nil
}

// checkFinite rejects NaN and ±Inf in every numeric field before any
// decimal conversion; decimal.NewFromFloat panics on non-finite input.
func checkFinite(raw *RawInvoice) error {
	type field struct {
		name  string
		value float64
	}
	fields := []field{
		{"subtotal", raw.Subtotal},
		{"taxAmount", raw.TaxAmount},
		{"totalAmount", raw.TotalAmount},
		{"taxRate", raw.TaxRate},
		{"payment.prepaidAmount", raw.Payment.PrepaidAmount},
	}

	lines := raw.LineItems
	if len(lines) == 0 {
		lines = raw.Items
	}
	for i, rl := range lines {
		fields = append(fields,
			field{fmt.Sprintf("lineItems[%d].quantity", i), rl.Quantity},
			field{fmt.Sprintf("lineItems[%d].unitPrice", i), rl.UnitPrice},
			field{fmt.Sprintf("lineItems[%d].totalPrice", i), rl.TotalPrice},
			field{fmt.Sprintf("lineItems[%d].taxRate", i), rl.TaxRate},
		)
	}

	for i, rac := range raw.AllowanceCharges {
		fields = append(fields,
			field{fmt.Sprintf("allowanceCharges[%d].amount", i), rac.Amount},
			field{fmt.Sprintf("allowanceCharges[%d].baseAmount", i), rac.BaseAmount},
			field{fmt.Sprintf("allowanceCharges[%d].percentage", i), rac.Percentage},
			field{fmt.Sprintf("allowanceCharges[%d].taxRate", i), rac.TaxRate},
		)
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return model.NewInputError(f.name, "value is not a finite number", nil)
		}
	}
	return nil
}

func mapParty(rp RawParty, format model.OutputFormat) model.PartyInfo {
	p := model.PartyInfo{
		Name:                    strings.TrimSpace(rp.Name),
		Street:                  firstNonEmpty(rp.Street, rp.Address),
		City:                    strings.TrimSpace(rp.City),
		PostalCode:              firstNonEmpty(rp.Postal, rp.Zip),
		CountryCode:             strings.ToUpper(strings.TrimSpace(rp.Country)),
		Phone:                   strings.TrimSpace(rp.Phone),
		Email:                   strings.TrimSpace(rp.Email),
		VATID:                   strings.TrimSpace(rp.VATID),
		TaxNumber:               strings.TrimSpace(rp.TaxNumber),
		TaxID:                   strings.TrimSpace(rp.TaxID),
		ElectronicAddress:       strings.TrimSpace(rp.ElectronicAddress),
		ElectronicAddressScheme: strings.TrimSpace(rp.ElectronicAddressScheme),
		ContactName:             strings.TrimSpace(rp.ContactName),
		TaxRegime:               strings.TrimSpace(rp.TaxRegime),
	}

	// A combined legacy identifier is split by shape: a country-prefixed
	// alphanumeric is an EU VAT id, anything else a local fiscal code.
	if p.VATID == "" && p.TaxNumber == "" && p.TaxID != "" {
		if vatIDPattern.MatchString(p.TaxID) {
			p.VATID = p.TaxID
		} else {
			p.TaxNumber = p.TaxID
		}
	}

	// Derive an electronic address from the email when absent; EM is the
	// EAS code for email addressing.
	if p.ElectronicAddress == "" && p.Email != "" {
		p.ElectronicAddress = p.Email
		p.ElectronicAddressScheme = "EM"
	}
	if p.ElectronicAddress != "" && p.ElectronicAddressScheme == "" {
		p.ElectronicAddressScheme = "EM"
	}

	// Country defaults only where the target's national rules make one
	// defensible; never invent street or city data.
	if p.CountryCode == "" && germanFormats[format] {
		p.CountryCode = "DE"
	}

	return p
}

func mapLineItem(rl RawLineItem, fallbackRate float64) model.CanonicalLineItem {
	li := model.CanonicalLineItem{
		Description: firstNonEmpty(rl.Description, rl.Name),
		Quantity:    decimal.NewFromFloat(rl.Quantity),
		UnitPrice:   money.FromFloat(rl.UnitPrice),
		TotalPrice:  money.FromFloat(rl.TotalPrice),
		TaxRate:     decimal.NewFromFloat(rl.TaxRate),
		UnitCode:    rl.UnitCode,
	}

	if li.Quantity.IsZero() {
		li.Quantity = decimal.NewFromInt(1)
	}
	if li.TotalPrice.IsZero() && !li.UnitPrice.IsZero() {
		li.TotalPrice = money.Mul(li.Quantity, li.UnitPrice)
	}
	if li.TaxRate.IsZero() && rl.TaxRate == 0 && fallbackRate != 0 {
		li.TaxRate = decimal.NewFromFloat(fallbackRate)
	}
	if li.UnitCode == "" {
		li.UnitCode = "C62" // UN/ECE rec 20: one/unit
	}

	li.TaxCategoryCode = model.TaxCategory(strings.ToUpper(strings.TrimSpace(rl.TaxCategory)))
	if li.TaxCategoryCode == "" {
		if li.TaxRate.IsZero() {
			li.TaxCategoryCode = model.TaxCategoryZero
		} else {
			li.TaxCategoryCode = model.TaxCategoryStandard
		}
	}

	return li
}

func mapAllowanceCharge(rac RawAllowanceCharge, fallbackRate float64) model.CanonicalAllowanceCharge {
	ac := model.CanonicalAllowanceCharge{
		ChargeIndicator: rac.ChargeIndicator,
		Amount:          money.FromFloat(rac.Amount).Abs(),
		BaseAmount:      money.FromFloat(rac.BaseAmount),
		Percentage:      decimal.NewFromFloat(rac.Percentage),
		Reason:          rac.Reason,
		ReasonCode:      rac.ReasonCode,
		TaxRate:         decimal.NewFromFloat(rac.TaxRate),
	}

	if ac.TaxRate.IsZero() && fallbackRate != 0 {
		ac.TaxRate = decimal.NewFromFloat(fallbackRate)
	}

	ac.TaxCategoryCode = model.TaxCategory(strings.ToUpper(strings.TrimSpace(rac.TaxCategory)))
	if ac.TaxCategoryCode == "" {
		if ac.TaxRate.IsZero() {
			ac.TaxCategoryCode = model.TaxCategoryZero
		} else {
			ac.TaxCategoryCode = model.TaxCategoryStandard
		}
	}

	return ac
}

// mapTotals uses declared totals and only computes what is missing.
func mapTotals(raw *RawInvoice, inv *model.CanonicalInvoice) model.Totals {
	t := model.Totals{
		Subtotal:    money.FromFloat(raw.Subtotal),
		TaxAmount:   money.FromFloat(raw.TaxAmount),
		TotalAmount: money.FromFloat(raw.TotalAmount),
	}

	if t.Subtotal.IsZero() && len(inv.LineItems) > 0 {
		t.Subtotal = money.Round(inv.LineNetSum().Sub(inv.AllowanceSum()).Add(inv.ChargeSum()))
	}
	if t.TaxAmount.IsZero() && len(inv.LineItems) > 0 {
		tax := decimal.Zero
		for _, li := range inv.LineItems {
			tax = tax.Add(money.Tax(li.TotalPrice, li.TaxRate))
		}
		for _, ac := range inv.AllowanceCharges {
			adj := money.Tax(ac.Amount, ac.TaxRate)
			if ac.ChargeIndicator {
				tax = tax.Add(adj)
			} else {
				tax = tax.Sub(adj)
			}
		}
		t.TaxAmount = money.Round(tax)
	}
	if t.TotalAmount.IsZero() {
		t.TotalAmount = money.Sum(t.Subtotal, t.TaxAmount)
	}

	return t
}

func documentType(s string) model.DocumentTypeCode {
	c := model.DocumentTypeCode(strings.TrimSpace(s))
	if c == "" {
		return model.DocTypeInvoice
	}
	return c
}

func currency(s string, format model.OutputFormat) string {
	cur := strings.ToUpper(strings.TrimSpace(s))
	if cur != "" {
		return cur
	}
	if format == model.FormatKSeF {
		return "PLN"
	}
	return "EUR"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
