package generator

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/model"
)

func sampleInvoice() *model.CanonicalInvoice {
	return &model.CanonicalInvoice{
		InvoiceNumber:    "RE-2024-001",
		InvoiceDate:      "2024-03-15",
		DocumentTypeCode: model.DocTypeInvoice,
		CurrencyCode:     "EUR",
		BuyerReference:   "04011000-12345-67",
		Seller: model.PartyInfo{
			Name:                    "Muster GmbH",
			Street:                  "Hauptstr. 1",
			City:                    "Berlin",
			PostalCode:              "10115",
			CountryCode:             "DE",
			VATID:                   "DE123456789",
			Email:                   "billing@muster.example",
			Phone:                   "+49 30 123456",
			ContactName:             "Anna Muster",
			ElectronicAddress:       "billing@muster.example",
			ElectronicAddressScheme: "EM",
		},
		Buyer: model.PartyInfo{
			Name:                    "Kunde AG",
			Street:                  "Marktplatz 5",
			City:                    "Hamburg",
			PostalCode:              "20095",
			CountryCode:             "DE",
			VATID:                   "DE987654321",
			ElectronicAddress:       "invoices@kunde.example",
			ElectronicAddressScheme: "EM",
		},
		Payment: model.PaymentInfo{
			IBAN:         "DE89370400440532013000",
			BIC:          "COBADEFFXXX",
			PaymentTerms: "Zahlbar innerhalb von 30 Tagen",
			DueDate:      "2024-04-14",
		},
		LineItems: []model.CanonicalLineItem{
			{
				Description:     "Consulting",
				Quantity:        decimal.NewFromInt(1),
				UnitPrice:       decimal.NewFromInt(100),
				TotalPrice:      decimal.NewFromInt(100),
				TaxRate:         decimal.NewFromInt(19),
				TaxCategoryCode: model.TaxCategoryStandard,
				UnitCode:        "C62",
			},
		},
		Totals: model.Totals{
			Subtotal:    decimal.NewFromInt(100),
			TaxAmount:   decimal.NewFromInt(19),
			TotalAmount: decimal.NewFromInt(119),
		},
	}
}

func TestRegistryCoversAllFormats(t *testing.T) {
	for _, format := range model.AllFormats {
		g, ok := For(format)
		require.True(t, ok, "no generator registered for %s", format)
		assert.Equal(t, format, g.Format())
		assert.NotEmpty(t, g.FileExtension())
		assert.NotEmpty(t, g.MimeType())
	}
	assert.Len(t, Formats(), len(model.AllFormats))
}

func TestEveryFormatGeneratesSampleInvoice(t *testing.T) {
	for _, format := range model.AllFormats {
		t.Run(string(format), func(t *testing.T) {
			inv := sampleInvoice()
			if format == model.FormatKSeF {
				inv.Seller.VATID = "PL5261040567"
				inv.CurrencyCode = "PLN"
				inv.LineItems[0].TaxRate = decimal.NewFromInt(23)
				inv.Totals.TaxAmount = decimal.NewFromInt(23)
				inv.Totals.TotalAmount = decimal.NewFromInt(123)
			}
			if format == model.FormatFatturaPA {
				inv.Seller.VATID = "IT12345678901"
				inv.Seller.TaxRegime = "RF01"
			}

			g, ok := For(format)
			require.True(t, ok)

			result, err := g.Generate(inv)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, model.StatusValid, result.ValidationStatus,
				"structural errors: %v", result.ValidationErrors)
			assert.NotEmpty(t, result.XMLContent)
			assert.Contains(t, result.FileName, "RE-2024-001")
		})
	}
}

func TestUBLInvoiceDocument(t *testing.T) {
	g, _ := For(model.FormatXRechnungUBL)
	result, err := g.Generate(sampleInvoice())
	require.NoError(t, err)

	assert.Contains(t, result.XMLContent, "<Invoice")
	assert.Contains(t, result.XMLContent, "urn:xeinkauf.de:kosit:xrechnung_3.0")
	assert.Contains(t, result.XMLContent, "<cbc:ID>RE-2024-001</cbc:ID>")
	assert.Contains(t, result.XMLContent, "<cbc:IssueDate>2024-03-15</cbc:IssueDate>")
	assert.Contains(t, result.XMLContent, "<cbc:BuyerReference>04011000-12345-67</cbc:BuyerReference>")
	assert.Contains(t, result.XMLContent, "<cbc:PaymentMeansCode>58</cbc:PaymentMeansCode>")
	assert.Contains(t, result.XMLContent, "DE89370400440532013000")
	assert.Contains(t, result.XMLContent, "<cbc:PayableAmount currencyID=\"EUR\">119.00</cbc:PayableAmount>")
	assert.Equal(t, "RE-2024-001_xrechnung-ubl.xml", result.FileName)
}

func TestUBLCreditNoteDocument(t *testing.T) {
	inv := sampleInvoice()
	inv.DocumentTypeCode = model.DocTypeCreditNote
	inv.PrecedingInvoiceReference = "RE-2023-099"

	g, _ := For(model.FormatXRechnungUBL)
	result, err := g.Generate(inv)
	require.NoError(t, err)

	assert.Contains(t, result.XMLContent, "<CreditNote")
	assert.Contains(t, result.XMLContent, "<cbc:CreditNoteTypeCode>381</cbc:CreditNoteTypeCode>")
	assert.Contains(t, result.XMLContent, "<cac:CreditNoteLine>")
	assert.Contains(t, result.XMLContent, "<cbc:CreditedQuantity unitCode=\"C62\">")
	assert.Contains(t, result.XMLContent, "RE-2023-099")
	assert.NotContains(t, result.XMLContent, "<cac:InvoiceLine>")
}

func TestUBLBuyerReferenceFallsBackToInvoiceNumber(t *testing.T) {
	inv := sampleInvoice()
	inv.BuyerReference = ""

	g, _ := For(model.FormatPeppolBIS)
	result, err := g.Generate(inv)
	require.NoError(t, err)

	assert.Contains(t, result.XMLContent, "<cbc:BuyerReference>RE-2024-001</cbc:BuyerReference>")
}

func TestUBLWithoutIBANUsesPaymentMeans30(t *testing.T) {
	inv := sampleInvoice()
	inv.Payment.IBAN = ""
	inv.Payment.BIC = ""

	g, _ := For(model.FormatPeppolBIS)
	result, err := g.Generate(inv)
	require.NoError(t, err)

	assert.Contains(t, result.XMLContent, "<cbc:PaymentMeansCode>30</cbc:PaymentMeansCode>")
}

func TestCIIDocument(t *testing.T) {
	g, _ := For(model.FormatXRechnungCII)
	result, err := g.Generate(sampleInvoice())
	require.NoError(t, err)

	assert.Contains(t, result.XMLContent, "<rsm:CrossIndustryInvoice")
	assert.Contains(t, result.XMLContent, "urn:xeinkauf.de:kosit:xrechnung_3.0")
	assert.Contains(t, result.XMLContent, `<udt:DateTimeString format="102">20240315</udt:DateTimeString>`)
	assert.Contains(t, result.XMLContent, "<ram:TypeCode>380</ram:TypeCode>")
	assert.Contains(t, result.XMLContent, "<ram:GrandTotalAmount>119.00</ram:GrandTotalAmount>")
	assert.Contains(t, result.XMLContent, "<ram:IBANID>DE89370400440532013000</ram:IBANID>")
}

func TestFacturXEmbedsXMLInPDF(t *testing.T) {
	g, _ := For(model.FormatFacturXEN16931)
	result, err := g.Generate(sampleInvoice())
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.MimeType)
	assert.True(t, strings.HasPrefix(string(result.PDFContent), "%PDF"), "PDF header missing")
	assert.Contains(t, result.XMLContent, "urn:cen.eu:en16931:2017")
	assert.Contains(t, string(result.PDFContent), "factur-x.xml")
	assert.Equal(t, len(result.PDFContent), result.FileSize)
}

func TestFacturXBasicGuideline(t *testing.T) {
	g, _ := For(model.FormatFacturXBasic)
	result, err := g.Generate(sampleInvoice())
	require.NoError(t, err)

	assert.Contains(t, result.XMLContent, "urn:factur-x.eu:1p0:basic")
}

func TestFatturaPADocument(t *testing.T) {
	inv := sampleInvoice()
	inv.Seller.VATID = "IT12345678901"
	inv.Buyer.ElectronicAddress = "ABC1234"

	g, _ := For(model.FormatFatturaPA)
	result, err := g.Generate(inv)
	require.NoError(t, err)

	assert.Contains(t, result.XMLContent, `versione="FPR12"`)
	assert.Contains(t, result.XMLContent, "<IdPaese>IT</IdPaese>")
	assert.Contains(t, result.XMLContent, "<IdCodice>12345678901</IdCodice>")
	assert.Contains(t, result.XMLContent, "<TipoDocumento>TD01</TipoDocumento>")
	assert.Contains(t, result.XMLContent, "<RegimeFiscale>RF01</RegimeFiscale>")
	assert.Contains(t, result.XMLContent, "<CodiceDestinatario>ABC1234</CodiceDestinatario>")
	assert.Contains(t, result.XMLContent, "<ModalitaPagamento>MP05</ModalitaPagamento>")
}

func TestFatturaPACreditNoteAndNatura(t *testing.T) {
	inv := sampleInvoice()
	inv.Seller.VATID = "IT12345678901"
	inv.DocumentTypeCode = model.DocTypeCreditNote
	inv.PrecedingInvoiceReference = "FT-2023-042"
	inv.LineItems[0].TaxRate = decimal.Zero
	inv.LineItems[0].TaxCategoryCode = model.TaxCategoryReverseCharge
	inv.Totals.TaxAmount = decimal.Zero
	inv.Totals.TotalAmount = decimal.NewFromInt(100)

	g, _ := For(model.FormatFatturaPA)
	result, err := g.Generate(inv)
	require.NoError(t, err)

	assert.Contains(t, result.XMLContent, "<TipoDocumento>TD04</TipoDocumento>")
	assert.Contains(t, result.XMLContent, "<IdDocumento>FT-2023-042</IdDocumento>")
	assert.Contains(t, result.XMLContent, "<Natura>N6</Natura>")
}

func TestFatturaPARequiresSellerVAT(t *testing.T) {
	inv := sampleInvoice()
	inv.Seller.VATID = ""
	inv.Seller.TaxID = ""

	g, _ := For(model.FormatFatturaPA)
	result, err := g.Generate(inv)
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvalid, result.ValidationStatus)
	assert.Empty(t, result.XMLContent)
	require.Len(t, result.ValidationErrors, 1)
	assert.Equal(t, "FPA-PRE-01", result.ValidationErrors[0].RuleID)
}

func TestKSeFDocument(t *testing.T) {
	inv := sampleInvoice()
	inv.Seller.VATID = "PL5261040567"
	inv.CurrencyCode = "PLN"
	inv.LineItems[0].TaxRate = decimal.NewFromInt(23)
	inv.Totals.TaxAmount = decimal.NewFromInt(23)
	inv.Totals.TotalAmount = decimal.NewFromInt(123)

	g, _ := For(model.FormatKSeF)
	result, err := g.Generate(inv)
	require.NoError(t, err)

	assert.Equal(t, model.StatusValid, result.ValidationStatus)
	assert.Contains(t, result.XMLContent, "<NIP>5261040567</NIP>")
	assert.Contains(t, result.XMLContent, "<KodWaluty>PLN</KodWaluty>")
	assert.Contains(t, result.XMLContent, "<P_13_1>100.00</P_13_1>")
	assert.Contains(t, result.XMLContent, "<P_14_1>23.00</P_14_1>")
	assert.Contains(t, result.XMLContent, "<P_15>123.00</P_15>")
	assert.Contains(t, result.XMLContent, "<RodzajFaktury>VAT</RodzajFaktury>")
}

func TestKSeFMissingNIPFailsBeforeGeneration(t *testing.T) {
	inv := sampleInvoice()
	inv.Seller.VATID = "DE123456789"
	inv.Seller.TaxNumber = ""
	inv.Seller.TaxID = ""

	g, _ := For(model.FormatKSeF)
	result, err := g.Generate(inv)
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvalid, result.ValidationStatus)
	assert.Empty(t, result.XMLContent)
	require.Len(t, result.ValidationErrors, 1)
	assert.Equal(t, "KSEF-PRE-01", result.ValidationErrors[0].RuleID)
	assert.Contains(t, result.ValidationErrors[0].Message, "NIP")
}

func TestKSeFCorrectionInvoice(t *testing.T) {
	inv := sampleInvoice()
	inv.Seller.VATID = "PL5261040567"
	inv.CurrencyCode = "PLN"
	inv.DocumentTypeCode = model.DocTypeCreditNote
	inv.PrecedingInvoiceReference = "FV-2023-012"

	g, _ := For(model.FormatKSeF)
	result, err := g.Generate(inv)
	require.NoError(t, err)

	assert.Contains(t, result.XMLContent, "<RodzajFaktury>KOR</RodzajFaktury>")
	assert.Contains(t, result.XMLContent, "<NrFaKorygowanej>FV-2023-012</NrFaKorygowanej>")
}

func TestRateBuckets(t *testing.T) {
	cases := []struct {
		rate     int64
		net, tax string
	}{
		{23, "P_13_1", "P_14_1"},
		{22, "P_13_1", "P_14_1"},
		{8, "P_13_2", "P_14_2"},
		{7, "P_13_2", "P_14_2"},
		{5, "P_13_3", "P_14_3"},
		{0, "P_13_6", ""},
		{19, "", ""},
	}
	for _, c := range cases {
		net, tax := rateBucket(decimal.NewFromInt(c.rate))
		assert.Equal(t, c.net, net, "rate %d", c.rate)
		assert.Equal(t, c.tax, tax, "rate %d", c.rate)
	}
}

func TestMalformedDateIsGenerationError(t *testing.T) {
	for _, format := range []model.OutputFormat{
		model.FormatXRechnungUBL, model.FormatXRechnungCII, model.FormatFatturaPA,
	} {
		inv := sampleInvoice()
		inv.InvoiceDate = "March 15, 2024"
		if format == model.FormatFatturaPA {
			inv.Seller.VATID = "IT12345678901"
		}

		g, _ := For(format)
		result, err := g.Generate(inv)
		require.Error(t, err, "format %s", format)
		assert.Nil(t, result)

		var genErr *model.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, format, genErr.Format)
		assert.Equal(t, "invoice.invoiceDate", genErr.Field)
	}
}

func TestAcceptedDateGrammars(t *testing.T) {
	g, _ := For(model.FormatXRechnungUBL)
	for _, date := range []string{"2024-03-15", "15.03.2024", "15/03/2024"} {
		inv := sampleInvoice()
		inv.InvoiceDate = date

		result, err := g.Generate(inv)
		require.NoError(t, err, "date %s", date)
		assert.Contains(t, result.XMLContent, "<cbc:IssueDate>2024-03-15</cbc:IssueDate>")
	}
}

func TestGenerateWithoutSellerOrLines(t *testing.T) {
	g, _ := For(model.FormatXRechnungUBL)

	inv := sampleInvoice()
	inv.Seller.Name = ""
	result, err := g.Generate(inv)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInvalid, result.ValidationStatus)
	assert.Empty(t, result.XMLContent)

	inv = sampleInvoice()
	inv.LineItems = nil
	result, err = g.Generate(inv)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInvalid, result.ValidationStatus)
}

func TestStructuralValidateRejectsBrokenXML(t *testing.T) {
	for _, format := range model.AllFormats {
		g, _ := For(format)

		result := g.Validate([]byte("<not-closed"))
		assert.False(t, result.Valid, "format %s", format)
		require.NotEmpty(t, result.Errors)

		result = g.Validate([]byte("<Empty/>"))
		assert.False(t, result.Valid, "format %s accepts empty document", format)
	}
}

func TestTaxGroupsBucketAndFoldAllowances(t *testing.T) {
	inv := sampleInvoice()
	inv.LineItems = append(inv.LineItems, model.CanonicalLineItem{
		Description:     "Books",
		Quantity:        decimal.NewFromInt(2),
		UnitPrice:       decimal.NewFromInt(25),
		TotalPrice:      decimal.NewFromInt(50),
		TaxRate:         decimal.NewFromInt(7),
		TaxCategoryCode: model.TaxCategoryStandard,
	})
	inv.AllowanceCharges = []model.CanonicalAllowanceCharge{{
		ChargeIndicator: false,
		Amount:          decimal.NewFromInt(10),
		TaxRate:         decimal.NewFromInt(19),
		TaxCategoryCode: model.TaxCategoryStandard,
	}}

	groups := taxGroups(inv)
	require.Len(t, groups, 2)

	// Rate-descending order.
	assert.True(t, groups[0].Rate.Equal(decimal.NewFromInt(19)))
	assert.Equal(t, "90.00", groups[0].Base.StringFixed(2))
	assert.Equal(t, "17.10", groups[0].Tax.StringFixed(2))
	assert.True(t, groups[1].Rate.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, "50.00", groups[1].Base.StringFixed(2))
	assert.Equal(t, "3.50", groups[1].Tax.StringFixed(2))
}

func TestExemptionReasonCodes(t *testing.T) {
	cases := map[model.TaxCategory]string{
		model.TaxCategoryExempt:         "VATEX-EU-132",
		model.TaxCategoryReverseCharge:  "VATEX-EU-AE",
		model.TaxCategoryIntraCommunity: "VATEX-EU-IC",
		model.TaxCategoryExport:         "VATEX-EU-G",
		model.TaxCategoryOutOfScope:     "VATEX-EU-O",
	}
	for cat, want := range cases {
		_, code := exemptionReason(cat)
		assert.Equal(t, want, code)
	}
	reason, code := exemptionReason(model.TaxCategoryStandard)
	assert.Empty(t, reason)
	assert.Empty(t, code)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "RE_2024_001", sanitizeFileName("RE/2024 001"))
	assert.Equal(t, "invoice", sanitizeFileName(""))
	assert.Equal(t, "A-1.2_B", sanitizeFileName("A-1.2 B"))
}
