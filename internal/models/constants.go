package models

// SubscriptionTier константы тарифов
const (
	TierFree = "free"
	TierPro  = "pro"
)

// SubscriptionStatus константы статусов подписки у платёжного провайдера
const (
	SubscriptionStatusActive     = "active"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusTrialing   = "trialing"
	SubscriptionStatusIncomplete = "incomplete"
	SubscriptionStatusUnpaid     = "unpaid"
)

// Country константы поддерживаемых юрисдикций
const (
	CountryUS    = "US"
	CountryIndia = "India"
)

// DocumentType константы типов документов
const (
	DocumentTypeContract  = "contract"
	DocumentTypeNDA       = "nda"
	DocumentTypeInvoice   = "invoice"
	DocumentTypeProposal  = "proposal"
	DocumentTypeQuotation = "quotation"
	DocumentTypeAgreement = "agreement"
)

// Industry константы отраслей
const (
	IndustryTech       = "tech"
	IndustryCreative   = "creative"
	IndustryConsulting = "consulting"
	IndustryHealthcare = "healthcare"
	IndustryFinance    = "finance"
	IndustryEducation  = "education"
)

// FieldType константы типов полей шаблона
const (
	FieldTypeText     = "text"
	FieldTypeTextarea = "textarea"
	FieldTypeEmail    = "email"
	FieldTypeNumber   = "number"
	FieldTypeDate     = "date"
	FieldTypeSelect   = "select"
)

// Priority константы приоритета пунктов чек-листа
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// FreeSaveLimit максимальное число сохранённых документов на бесплатном тарифе.
const FreeSaveLimit = 5

// ValidCountries список поддерживаемых стран
var ValidCountries = map[string]struct{}{
	CountryUS:    {},
	CountryIndia: {},
}

// ValidDocumentTypes список типов документов
var ValidDocumentTypes = map[string]struct{}{
	DocumentTypeContract:  {},
	DocumentTypeNDA:       {},
	DocumentTypeInvoice:   {},
	DocumentTypeProposal:  {},
	DocumentTypeQuotation: {},
	DocumentTypeAgreement: {},
}

// ValidIndustries список отраслей
var ValidIndustries = map[string]struct{}{
	IndustryTech:       {},
	IndustryCreative:   {},
	IndustryConsulting: {},
	IndustryHealthcare: {},
	IndustryFinance:    {},
	IndustryEducation:  {},
}

// ValidFieldTypes список типов полей
var ValidFieldTypes = map[string]struct{}{
	FieldTypeText:     {},
	FieldTypeTextarea: {},
	FieldTypeEmail:    {},
	FieldTypeNumber:   {},
	FieldTypeDate:     {},
	FieldTypeSelect:   {},
}

// ValidSubscriptionStatuses список статусов подписки
var ValidSubscriptionStatuses = map[string]struct{}{
	SubscriptionStatusActive:     {},
	SubscriptionStatusCanceled:   {},
	SubscriptionStatusPastDue:    {},
	SubscriptionStatusTrialing:   {},
	SubscriptionStatusIncomplete: {},
	SubscriptionStatusUnpaid:     {},
}

// CatalogOption элемент справочника для шагов мастера генерации.
type CatalogOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Catalog справочники стран, типов документов и отраслей в порядке показа.
type Catalog struct {
	Countries     []CatalogOption `json:"countries"`
	DocumentTypes []CatalogOption `json:"documentTypes"`
	Industries    []CatalogOption `json:"industries"`
}

// DefaultCatalog возвращает справочники, доступные в мастере генерации.
func DefaultCatalog() Catalog {
	return Catalog{
		Countries: []CatalogOption{
			{Value: CountryUS, Label: "United States"},
			{Value: CountryIndia, Label: "India"},
		},
		DocumentTypes: []CatalogOption{
			{Value: DocumentTypeContract, Label: "Service Contract"},
			{Value: DocumentTypeNDA, Label: "Non-Disclosure Agreement"},
			{Value: DocumentTypeInvoice, Label: "Invoice"},
			{Value: DocumentTypeProposal, Label: "Project Proposal"},
			{Value: DocumentTypeQuotation, Label: "Quotation"},
			{Value: DocumentTypeAgreement, Label: "Service Agreement"},
		},
		Industries: []CatalogOption{
			{Value: IndustryTech, Label: "Technology"},
			{Value: IndustryCreative, Label: "Creative"},
			{Value: IndustryConsulting, Label: "Consulting"},
			{Value: IndustryHealthcare, Label: "Healthcare"},
			{Value: IndustryFinance, Label: "Finance"},
			{Value: IndustryEducation, Label: "Education"},
		},
	}
}
