package generator

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/money"
	"github.com/osamaaldaas2/Invoice2E-sub003/internal/validation"
)

// ksefGenerator produces the Polish FA(3) structured invoice for KSeF.
type ksefGenerator struct{}

func (g *ksefGenerator) Format() model.OutputFormat { return model.FormatKSeF }
func (g *ksefGenerator) FileExtension() string      { return "xml" }
func (g *ksefGenerator) MimeType() string           { return "application/xml" }

func (g *ksefGenerator) Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error) {
	nip := validation.ExtractNIP(inv.Seller.TaxIdentifier())
	if nip == "" {
		return invalidResult(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "KSEF-PRE-01",
			Location: "seller.taxId",
			Message:  "a 10-digit seller NIP is required for KSeF generation",
			Actual:   inv.Seller.TaxIdentifier(),
		}), nil
	}

	xml, err := g.buildXML(inv, nip)
	if err != nil {
		return nil, err
	}

	structural := g.Validate([]byte(xml))

	return &model.GenerationResult{
		XMLContent:       xml,
		FileName:         fmt.Sprintf("%s_%s.xml", sanitizeFileName(inv.InvoiceNumber), model.FormatKSeF),
		FileSize:         len(xml),
		MimeType:         g.MimeType(),
		ValidationStatus: model.StatusFrom(structural.Errors, nil),
		ValidationErrors: structural.Errors,
	}, nil
}

// rateBucket maps a VAT rate to the FA(3) net/tax aggregate element pair.
// The reduced rates kept from earlier law (22, 7) share the current buckets.
func rateBucket(rate decimal.Decimal) (net, tax string) {
	switch rate.IntPart() {
	case 23, 22:
		return "P_13_1", "P_14_1"
	case 8, 7:
		return "P_13_2", "P_14_2"
	case 5:
		return "P_13_3", "P_14_3"
	case 0:
		return "P_13_6", ""
	}
	return "", ""
}

func (g *ksefGenerator) buildXML(inv *model.CanonicalInvoice, nip string) (string, error) {
	issueDate, err := parseDate(model.FormatKSeF, "invoice.invoiceDate", inv.InvoiceDate)
	if err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Faktura")
	root.CreateAttr("xmlns", "http://crd.gov.pl/wzor/2025/06/25/13775/")

	header := root.CreateElement("Naglowek")
	kod := header.CreateElement("KodFormularza")
	kod.CreateAttr("kodSystemowy", "FA (3)")
	kod.CreateAttr("wersjaSchemy", "1-0E")
	kod.SetText("FA")
	text(header, "WariantFormularza", "3")
	text(header, "DataWytworzeniaFa", issueDate.Format("2006-01-02T15:04:05Z"))

	seller := root.CreateElement("Podmiot1")
	sellerID := seller.CreateElement("DaneIdentyfikacyjne")
	text(sellerID, "NIP", nip)
	text(sellerID, "Nazwa", inv.Seller.Name)
	buildKSeFAddress(seller, &inv.Seller)

	buyer := root.CreateElement("Podmiot2")
	buyerID := buyer.CreateElement("DaneIdentyfikacyjne")
	if buyerNIP := validation.ExtractNIP(inv.Buyer.TaxIdentifier()); buyerNIP != "" {
		text(buyerID, "NIP", buyerNIP)
	} else {
		text(buyerID, "BrakID", "1")
	}
	text(buyerID, "Nazwa", inv.Buyer.Name)
	buildKSeFAddress(buyer, &inv.Buyer)

	fa := root.CreateElement("Fa")
	text(fa, "KodWaluty", inv.CurrencyCode)
	text(fa, "P_1", issueDate.Format("2006-01-02"))
	text(fa, "P_2", inv.InvoiceNumber)

	// Net and tax aggregates per rate bucket.
	type bucket struct{ net, tax decimal.Decimal }
	buckets := map[string]*bucket{}
	bucketTaxElem := map[string]string{}
	for _, group := range taxGroups(inv) {
		netElem, taxElem := rateBucket(group.Rate)
		if netElem == "" {
			continue
		}
		b, ok := buckets[netElem]
		if !ok {
			b = &bucket{}
			buckets[netElem] = b
			bucketTaxElem[netElem] = taxElem
		}
		b.net = b.net.Add(group.Base)
		b.tax = b.tax.Add(group.Tax)
	}
	for _, netElem := range []string{"P_13_1", "P_13_2", "P_13_3", "P_13_6"} {
		b, ok := buckets[netElem]
		if !ok {
			continue
		}
		text(fa, netElem, amount(money.Round(b.net)))
		if taxElem := bucketTaxElem[netElem]; taxElem != "" {
			text(fa, taxElem, amount(money.Round(b.tax)))
		}
	}
	text(fa, "P_15", amount(inv.Totals.TotalAmount))

	adnotacje := fa.CreateElement("Adnotacje")
	text(adnotacje, "P_16", "2")
	text(adnotacje, "P_17", "2")
	text(adnotacje, "P_18", "2")
	text(adnotacje, "P_18A", "2")
	zwolnienie := adnotacje.CreateElement("Zwolnienie")
	text(zwolnienie, "P_19N", "1")
	noweSrodki := adnotacje.CreateElement("NoweSrodkiTransportu")
	text(noweSrodki, "P_22N", "1")
	text(adnotacje, "P_23", "2")
	pmarzy := adnotacje.CreateElement("PMarzy")
	text(pmarzy, "P_PMarzyN", "1")

	if inv.IsCreditNote() {
		text(fa, "RodzajFaktury", "KOR")
		if inv.PrecedingInvoiceReference != "" {
			corrected := fa.CreateElement("DaneFaKorygowanej")
			text(corrected, "NrFaKorygowanej", inv.PrecedingInvoiceReference)
		}
	} else {
		text(fa, "RodzajFaktury", "VAT")
	}

	for i, li := range inv.LineItems {
		row := fa.CreateElement("FaWiersz")
		text(row, "NrWierszaFa", fmt.Sprintf("%d", i+1))
		text(row, "P_7", li.Description)
		text(row, "P_8B", li.Quantity.String())
		text(row, "P_9A", amount(li.UnitPrice))
		text(row, "P_11", amount(li.TotalPrice))
		text(row, "P_12", li.TaxRate.String())
	}

	doc.Indent(2)
	return doc.WriteToString()
}

func buildKSeFAddress(parent *etree.Element, p *model.PartyInfo) {
	adres := parent.CreateElement("Adres")
	country := p.CountryCode
	if country == "" {
		country = "PL"
	}
	text(adres, "KodKraju", country)
	lineOne := p.Street
	if lineOne == "" {
		lineOne = p.Name
	}
	text(adres, "AdresL1", lineOne)
	if p.PostalCode != "" || p.City != "" {
		text(adres, "AdresL2", fmt.Sprintf("%s %s", p.PostalCode, p.City))
	}
}

var ksefRequiredPaths = []string{
	"//Naglowek/KodFormularza",
	"//Podmiot1/DaneIdentyfikacyjne/NIP",
	"//Podmiot2/DaneIdentyfikacyjne/Nazwa",
	"//Fa/KodWaluty",
	"//Fa/P_1",
	"//Fa/P_2",
	"//Fa/P_15",
	"//Fa/RodzajFaktury",
	"//Fa/FaWiersz",
}

// Validate checks the generated FA(3) for its required elements.
func (g *ksefGenerator) Validate(xml []byte) *model.StructuralResult {
	return checkPaths(xml, "KSEF-STRUCT", ksefRequiredPaths)
}
