package model

// OutputFormat identifies a target e-invoice dialect.
type OutputFormat string

const (
	FormatXRechnungCII   OutputFormat = "xrechnung-cii"
	FormatXRechnungUBL   OutputFormat = "xrechnung-ubl"
	FormatPeppolBIS      OutputFormat = "peppol-bis"
	FormatFacturXEN16931 OutputFormat = "facturx-en16931"
	FormatFacturXBasic   OutputFormat = "facturx-basic"
	FormatFatturaPA      OutputFormat = "fatturapa"
	FormatKSeF           OutputFormat = "ksef"
	FormatNLCIUS         OutputFormat = "nlcius"
	FormatCIUSRO         OutputFormat = "cius-ro"
)

// AllFormats lists every supported output format.
// Registry tests assert generators and validators cover the whole list.
var AllFormats = []OutputFormat{
	FormatXRechnungCII,
	FormatXRechnungUBL,
	FormatPeppolBIS,
	FormatFacturXEN16931,
	FormatFacturXBasic,
	FormatFatturaPA,
	FormatKSeF,
	FormatNLCIUS,
	FormatCIUSRO,
}

// ProfileID identifies a validation rule set.
type ProfileID string

const (
	ProfileXRechnungCII   ProfileID = "xrechnung-cii"
	ProfileXRechnungUBL   ProfileID = "xrechnung-ubl"
	ProfilePeppolBIS      ProfileID = "peppol-bis"
	ProfileFacturXEN16931 ProfileID = "facturx-en16931"
	ProfileFacturXBasic   ProfileID = "facturx-basic"
	ProfileFatturaPA      ProfileID = "fatturapa"
	ProfileKSeF           ProfileID = "ksef"
	ProfileNLCIUS         ProfileID = "nlcius"
	ProfileCIUSRO         ProfileID = "cius-ro"
	ProfileEN16931Base    ProfileID = "en16931-base"
)

// AllProfiles lists every known validation profile.
var AllProfiles = []ProfileID{
	ProfileXRechnungCII,
	ProfileXRechnungUBL,
	ProfilePeppolBIS,
	ProfileFacturXEN16931,
	ProfileFacturXBasic,
	ProfileFatturaPA,
	ProfileKSeF,
	ProfileNLCIUS,
	ProfileCIUSRO,
	ProfileEN16931Base,
}

// ProfileForFormat returns the validation profile applied before and after
// generating the given format.
func ProfileForFormat(f OutputFormat) ProfileID {
	switch f {
	case FormatXRechnungCII:
		return ProfileXRechnungCII
	case FormatXRechnungUBL:
		return ProfileXRechnungUBL
	case FormatPeppolBIS:
		return ProfilePeppolBIS
	case FormatFacturXEN16931:
		return ProfileFacturXEN16931
	case FormatFacturXBasic:
		return ProfileFacturXBasic
	case FormatFatturaPA:
		return ProfileFatturaPA
	case FormatKSeF:
		return ProfileKSeF
	case FormatNLCIUS:
		return ProfileNLCIUS
	case FormatCIUSRO:
		return ProfileCIUSRO
	}
	return ProfileEN16931Base
}

// ParseOutputFormat maps a selector string to a format, reporting whether it
// is one of the supported dialects.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	f := OutputFormat(s)
	for _, known := range AllFormats {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// DocumentTypeCode is the UNTDID 1001 document type.
type DocumentTypeCode string

const (
	DocTypeInvoice    DocumentTypeCode = "380"
	DocTypeCreditNote DocumentTypeCode = "381"
	DocTypeCorrected  DocumentTypeCode = "384"
	DocTypeSelfBilled DocumentTypeCode = "389"
)

// ValidDocumentType reports whether c is one of the accepted UNTDID 1001 codes.
func ValidDocumentType(c DocumentTypeCode) bool {
	switch c {
	case DocTypeInvoice, DocTypeCreditNote, DocTypeCorrected, DocTypeSelfBilled:
		return true
	}
	return false
}

// TaxCategory is the UNCL5305 duty/tax category code.
type TaxCategory string

const (
	TaxCategoryStandard      TaxCategory = "S"
	TaxCategoryZero          TaxCategory = "Z"
	TaxCategoryExempt        TaxCategory = "E"
	TaxCategoryReverseCharge TaxCategory = "AE"
	TaxCategoryIntraCommunity TaxCategory = "K"
	TaxCategoryExport        TaxCategory = "G"
	TaxCategoryOutOfScope    TaxCategory = "O"
	TaxCategoryCanaryIslands TaxCategory = "L"
	TaxCategoryCeutaMelilla  TaxCategory = "M"
)

// ValidTaxCategory reports whether c belongs to the UNCL5305 subset used by
// EN16931 dialects.
func ValidTaxCategory(c TaxCategory) bool {
	switch c {
	case TaxCategoryStandard, TaxCategoryZero, TaxCategoryExempt,
		TaxCategoryReverseCharge, TaxCategoryIntraCommunity,
		TaxCategoryExport, TaxCategoryOutOfScope,
		TaxCategoryCanaryIslands, TaxCategoryCeutaMelilla:
		return true
	}
	return false
}
