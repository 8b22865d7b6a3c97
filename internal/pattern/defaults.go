package pattern

import "github.com/Veraticus/docsift/internal/model"

// DefaultRecords returns a starter set of Brazilian document type definitions.
// They are written out by `docsift init` and are never loaded implicitly.
func DefaultRecords() []model.PatternRecord {
	return []model.PatternRecord{
		{
			DocumentType: "invoice",
			Keywords:     []string{"DANFE", "Nota Fiscal", "NF-e", "Chave de Acesso"},
			Patterns: []string{
				`NF-e\s*n[º°o.]?\s*\d+`,
				`CNPJ:?\s*\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`,
				`(?:\d{4}\s?){11}`,
			},
		},
		{
			DocumentType: "receipt",
			Keywords:     []string{"Recibo", "Recebi", "Importância", "Quitação"},
			Patterns: []string{
				`valor:?\s*R\$\s*[\d.]+,\d{2}`,
				`recebi\s+(?:de|do|da)\s+`,
			},
		},
		{
			DocumentType: "contract",
			Keywords:     []string{"Contrato", "Cláusula", "Contratante", "Contratada", "Testemunhas"},
			Patterns: []string{
				`cl[áa]usula\s+\d+|cl[áa]usula\s+(?:primeira|segunda|terceira)`,
				`^\s*(?:contratante|contratada):`,
			},
		},
		{
			DocumentType: "bank_statement",
			Keywords:     []string{"Extrato", "Saldo", "Agência", "Conta Corrente"},
			Patterns: []string{
				`saldo\s+anterior`,
				`ag[êe]ncia:?\s*\d{4}`,
			},
		},
		{
			DocumentType: "payment_slip",
			Keywords:     []string{"Boleto", "Beneficiário", "Pagador", "Vencimento", "Linha Digitável"},
			Patterns: []string{
				`\d{5}\.\d{5}\s\d{5}\.\d{6}\s\d{5}\.\d{6}\s\d\s\d{14}`,
			},
		},
	}
}
