package generator

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

// Natura codes for zero-rated lines per the Agenzia delle Entrate code list.
var naturaCodes = map[model.TaxCategory]string{
	model.TaxCategoryReverseCharge:  "N6",
	model.TaxCategoryExempt:         "N4",
	model.TaxCategoryIntraCommunity: "N3.2",
	model.TaxCategoryExport:         "N3.1",
	model.TaxCategoryOutOfScope:     "N2.2",
	model.TaxCategoryZero:           "N2.2",
}

// fatturaPAGenerator produces the Italian FatturaElettronica (FPR12) syntax.
type fatturaPAGenerator struct{}

func (g *fatturaPAGenerator) Format() model.OutputFormat { return model.FormatFatturaPA }
func (g *fatturaPAGenerator) FileExtension() string      { return "xml" }
func (g *fatturaPAGenerator) MimeType() string           { return "application/xml" }

func (g *fatturaPAGenerator) Generate(inv *model.CanonicalInvoice) (*model.GenerationResult, error) {
	sellerVAT := inv.Seller.VATID
	if sellerVAT == "" {
		sellerVAT = inv.Seller.TaxID
	}
	if len(sellerVAT) < 3 {
		return invalidResult(model.ValidationError{
			Level:    model.LevelError,
			RuleID:   "FPA-PRE-01",
			Location: "seller.vatId",
			Message:  "seller VAT identifier with country prefix is required for FatturaPA generation",
			Actual:   sellerVAT,
		}), nil
	}

	xml, err := g.buildXML(inv, sellerVAT)
	if err != nil {
		return nil, err
	}

	structural := g.Validate([]byte(xml))

	return &model.GenerationResult{
		XMLContent:       xml,
		FileName:         fmt.Sprintf("%s_%s.xml", sanitizeFileName(inv.InvoiceNumber), model.FormatFatturaPA),
		FileSize:         len(xml),
		MimeType:         g.MimeType(),
		ValidationStatus: model.StatusFrom(structural.Errors, nil),
		ValidationErrors: structural.Errors,
	}, nil
}

// splitVATID separates the ISO country prefix from the numeric part. Values
// without a letter prefix default to IT.
func splitVATID(vat string) (country, code string) {
	vat = strings.ToUpper(strings.TrimSpace(vat))
	if len(vat) > 2 && vat[0] >= 'A' && vat[0] <= 'Z' && vat[1] >= 'A' && vat[1] <= 'Z' {
		return vat[:2], vat[2:]
	}
	return "IT", vat
}

func (g *fatturaPAGenerator) buildXML(inv *model.CanonicalInvoice, sellerVAT string) (string, error) {
	issueDate, err := parseDate(model.FormatFatturaPA, "invoice.invoiceDate", inv.InvoiceDate)
	if err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("p:FatturaElettronica")
	root.CreateAttr("versione", "FPR12")
	root.CreateAttr("xmlns:p", "http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2")

	header := root.CreateElement("FatturaElettronicaHeader")

	trans := header.CreateElement("DatiTrasmissione")
	idTrans := trans.CreateElement("IdTrasmittente")
	country, code := splitVATID(sellerVAT)
	text(idTrans, "IdPaese", country)
	text(idTrans, "IdCodice", code)
	text(trans, "ProgressivoInvio", sanitizeFileName(inv.InvoiceNumber))
	text(trans, "FormatoTrasmissione", "FPR12")
	destCode := inv.Buyer.ElectronicAddress
	if len(destCode) != 7 {
		destCode = "0000000"
	}
	text(trans, "CodiceDestinatario", destCode)

	seller := header.CreateElement("CedentePrestatore")
	sellerData := seller.CreateElement("DatiAnagrafici")
	sellerID := sellerData.CreateElement("IdFiscaleIVA")
	text(sellerID, "IdPaese", country)
	text(sellerID, "IdCodice", code)
	sellerName := sellerData.CreateElement("Anagrafica")
	text(sellerName, "Denominazione", inv.Seller.Name)
	regime := inv.Seller.TaxRegime
	if regime == "" {
		regime = "RF01"
	}
	text(sellerData, "RegimeFiscale", regime)
	buildFPAAddress(seller, &inv.Seller)

	buyer := header.CreateElement("CessionarioCommittente")
	buyerData := buyer.CreateElement("DatiAnagrafici")
	if inv.Buyer.VATID != "" {
		bCountry, bCode := splitVATID(inv.Buyer.VATID)
		buyerID := buyerData.CreateElement("IdFiscaleIVA")
		text(buyerID, "IdPaese", bCountry)
		text(buyerID, "IdCodice", bCode)
	} else if inv.Buyer.TaxNumber != "" {
		text(buyerData, "CodiceFiscale", inv.Buyer.TaxNumber)
	}
	buyerName := buyerData.CreateElement("Anagrafica")
	text(buyerName, "Denominazione", inv.Buyer.Name)
	buildFPAAddress(buyer, &inv.Buyer)

	body := root.CreateElement("FatturaElettronicaBody")

	general := body.CreateElement("DatiGenerali")
	generalDoc := general.CreateElement("DatiGeneraliDocumento")
	tipo := "TD01"
	if inv.IsCreditNote() {
		tipo = "TD04"
	}
	text(generalDoc, "TipoDocumento", tipo)
	text(generalDoc, "Divisa", inv.CurrencyCode)
	text(generalDoc, "Data", issueDate.Format("2006-01-02"))
	text(generalDoc, "Numero", inv.InvoiceNumber)
	text(generalDoc, "ImportoTotaleDocumento", amount(inv.Totals.TotalAmount))
	if inv.Notes != "" {
		text(generalDoc, "Causale", inv.Notes)
	}
	if inv.IsCreditNote() && inv.PrecedingInvoiceReference != "" {
		ref := general.CreateElement("DatiFattureCollegate")
		text(ref, "IdDocumento", inv.PrecedingInvoiceReference)
	}

	goods := body.CreateElement("DatiBeniServizi")
	for i, li := range inv.LineItems {
		line := goods.CreateElement("DettaglioLinee")
		text(line, "NumeroLinea", fmt.Sprintf("%d", i+1))
		text(line, "Descrizione", li.Description)
		text(line, "Quantita", li.Quantity.StringFixed(2))
		text(line, "PrezzoUnitario", amount(li.UnitPrice))
		text(line, "PrezzoTotale", amount(li.TotalPrice))
		text(line, "AliquotaIVA", li.TaxRate.StringFixed(2))
		if li.TaxRate.IsZero() {
			if natura, ok := naturaCodes[li.TaxCategoryCode]; ok {
				text(line, "Natura", natura)
			}
		}
	}

	for _, group := range taxGroups(inv) {
		summary := goods.CreateElement("DatiRiepilogo")
		text(summary, "AliquotaIVA", group.Rate.StringFixed(2))
		if group.Rate.IsZero() {
			if natura, ok := naturaCodes[group.Category]; ok {
				text(summary, "Natura", natura)
			}
		}
		text(summary, "ImponibileImporto", amount(group.Base))
		text(summary, "Imposta", amount(group.Tax))
		text(summary, "EsigibilitaIVA", "I")
	}

	payment := body.CreateElement("DatiPagamento")
	text(payment, "CondizioniPagamento", "TP02")
	detail := payment.CreateElement("DettaglioPagamento")
	if inv.Payment.IBAN != "" {
		text(detail, "ModalitaPagamento", "MP05")
		text(detail, "IBAN", inv.Payment.IBAN)
	} else {
		text(detail, "ModalitaPagamento", "MP01")
	}
	if inv.Payment.DueDate != "" {
		due, err := parseDate(model.FormatFatturaPA, "payment.dueDate", inv.Payment.DueDate)
		if err != nil {
			return "", err
		}
		text(detail, "DataScadenzaPagamento", due.Format("2006-01-02"))
	}
	text(detail, "ImportoPagamento", amount(inv.Totals.TotalAmount))

	doc.Indent(2)
	return doc.WriteToString()
}

func buildFPAAddress(parent *etree.Element, p *model.PartyInfo) {
	sede := parent.CreateElement("Sede")
	street := p.Street
	if street == "" {
		street = "N/D"
	}
	text(sede, "Indirizzo", street)
	cap := p.PostalCode
	if cap == "" {
		cap = "00000"
	}
	text(sede, "CAP", cap)
	city := p.City
	if city == "" {
		city = "N/D"
	}
	text(sede, "Comune", city)
	country := p.CountryCode
	if country == "" {
		country = "IT"
	}
	text(sede, "Nazione", country)
}

var fatturaPARequiredPaths = []string{
	"//DatiTrasmissione/FormatoTrasmissione",
	"//DatiTrasmissione/CodiceDestinatario",
	"//CedentePrestatore/DatiAnagrafici/IdFiscaleIVA/IdCodice",
	"//CedentePrestatore/DatiAnagrafici/RegimeFiscale",
	"//CessionarioCommittente/DatiAnagrafici/Anagrafica/Denominazione",
	"//DatiGeneraliDocumento/TipoDocumento",
	"//DatiGeneraliDocumento/Numero",
	"//DatiBeniServizi/DettaglioLinee",
	"//DatiBeniServizi/DatiRiepilogo",
}

// Validate checks the generated FatturaPA for its required elements.
func (g *fatturaPAGenerator) Validate(xml []byte) *model.StructuralResult {
	return checkPaths(xml, "FPA-STRUCT", fatturaPARequiredPaths)
}
