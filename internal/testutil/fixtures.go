package testutil

// InvoiceText is extracted text of a Brazilian electronic invoice.
const InvoiceText = `DANFE
Documento Auxiliar da Nota Fiscal Eletrônica
NF-e nº 000123456
CNPJ: 11.222.333/0001-81
Valor total: R$ 1.500,00`

// InvoicePatterns is a pattern record matching InvoiceText fully.
const InvoicePatterns = `
document_type: invoice
keywords: [DANFE, Nota Fiscal]
patterns: ['CNPJ:\s*\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}']
`

// InvoiceSchema is a JSON validation schema for invoice records.
const InvoiceSchema = `{
	"name": "invoice",
	"version": "1.0",
	"fields": {
		"issuer": {"type": "cnpj", "required": true},
		"total": {"type": "number", "required": true, "options": {"min": 0}},
		"due_date": {"type": "date", "severity": "warning"}
	},
	"custom_validations": [
		{"name": "positive_total", "condition": "data.total > 0", "message": "total must be positive"}
	]
}`
