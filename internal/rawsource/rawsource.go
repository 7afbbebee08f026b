// Package rawsource loads raw invoice records from the supported input
// carriers: JSON documents, CSV exports and XLSX workbooks. Loaders only
// transcribe; normalization and defaulting happen in the mapper.
package rawsource

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/mapper"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

// Load reads a raw invoice from path, picking the decoder by file extension.
func Load(path string) (*mapper.RawInvoice, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, model.NewInputError("file", "opening input file failed", err)
		}
		defer f.Close()
		return LoadJSON(f)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, model.NewInputError("file", "opening input file failed", err)
		}
		defer f.Close()
		return LoadCSV(f)
	case ".xlsx":
		return LoadXLSX(path)
	}
	return nil, model.NewInputError("file",
		fmt.Sprintf("unsupported input extension %q, want .json, .csv or .xlsx", filepath.Ext(path)), nil)
}

// LoadJSON decodes a raw invoice from a JSON document.
func LoadJSON(r io.Reader) (*mapper.RawInvoice, error) {
	var raw mapper.RawInvoice
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, model.NewInputError("json", "decoding JSON invoice failed", err)
	}
	return &raw, nil
}

// LoadCSV decodes a raw invoice from a header-keyed CSV export. Every data
// row is one line item; invoice-level columns are read from the first data
// row and must repeat (or stay empty) on the others.
func LoadCSV(r io.Reader) (*mapper.RawInvoice, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, model.NewInputError("csv", "reading CSV invoice failed", err)
	}
	return fromRows(rows)
}

// fromRows assembles a raw invoice from a header row plus data rows. Shared
// by the CSV and XLSX loaders.
func fromRows(rows [][]string) (*mapper.RawInvoice, error) {
	if len(rows) < 2 {
		return nil, model.NewInputError("rows", "input needs a header row and at least one data row", nil)
	}

	header := map[string]int{}
	for i, name := range rows[0] {
		header[normalizeHeader(name)] = i
	}

	cell := func(row []string, name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	num := func(row []string, name string) float64 {
		v := cell(row, name)
		if v == "" {
			return 0
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
		if err != nil {
			return 0
		}
		return f
	}

	first := rows[1]
	raw := &mapper.RawInvoice{
		InvoiceNumber:    cell(first, "invoicenumber"),
		InvoiceDate:      cell(first, "invoicedate"),
		DocumentTypeCode: cell(first, "documenttypecode"),
		Currency:         cell(first, "currency"),
		BuyerReference:   cell(first, "buyerreference"),
		Seller: mapper.RawParty{
			Name:    cell(first, "sellername"),
			Street:  cell(first, "selleraddress"),
			City:    cell(first, "sellercity"),
			Postal:  cell(first, "sellerpostalcode"),
			Country: cell(first, "sellercountry"),
			VATID:   cell(first, "sellervatid"),
			TaxID:   cell(first, "sellertaxid"),
			Email:   cell(first, "selleremail"),
		},
		Buyer: mapper.RawParty{
			Name:    cell(first, "buyername"),
			Street:  cell(first, "buyeraddress"),
			City:    cell(first, "buyercity"),
			Postal:  cell(first, "buyerpostalcode"),
			Country: cell(first, "buyercountry"),
			VATID:   cell(first, "buyervatid"),
			TaxID:   cell(first, "buyertaxid"),
			Email:   cell(first, "buyeremail"),
		},
		Payment: mapper.RawPayment{
			IBAN:         cell(first, "iban"),
			BIC:          cell(first, "bic"),
			PaymentTerms: cell(first, "paymentterms"),
			DueDate:      cell(first, "duedate"),
		},
		Subtotal:    num(first, "subtotal"),
		TaxAmount:   num(first, "taxamount"),
		TotalAmount: num(first, "totalamount"),
	}

	for _, row := range rows[1:] {
		desc := cell(row, "description")
		if desc == "" {
			continue
		}
		raw.LineItems = append(raw.LineItems, mapper.RawLineItem{
			Description: desc,
			Quantity:    num(row, "quantity"),
			UnitPrice:   num(row, "unitprice"),
			TotalPrice:  num(row, "totalprice"),
			TaxRate:     num(row, "taxrate"),
			TaxCategory: cell(row, "taxcategory"),
			UnitCode:    cell(row, "unitcode"),
		})
	}
	if len(raw.LineItems) == 0 {
		return nil, model.NewInputError("lineItems", "no data row carries a line item description", nil)
	}
	return raw, nil
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}
