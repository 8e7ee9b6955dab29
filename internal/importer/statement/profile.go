package statement

type amountMode int

const (
	// amountSingle is one signed column, "-10.000,00".
	amountSingle amountMode = iota
	// amountSplit is separate debit and credit columns, both unsigned.
	amountSplit
)

// Profile describes the column layout of one bank export format.
type Profile struct {
	Name       string
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string
	DebitCol   string
	CreditCol  string
	// DecimalComma marks "1.234,56" numbers; otherwise "1,234.56".
	DecimalComma bool
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles are tried in order; more specific layouts first.
var profiles = []Profile{
	{
		Name:         "tarjeta",
		DateCol:      "fecha",
		DescCol:      "descripción",
		AmountMode:   amountSplit,
		DebitCol:     "débito",
		CreditCol:    "crédito",
		DecimalComma: true,
	},
	{
		Name:         "extracto",
		DateCol:      "fecha",
		DescCol:      "descripción",
		AmountMode:   amountSingle,
		AmountCol:    "valor",
		DecimalComma: true,
	},
	{
		Name:         "movimientos",
		DateCol:      "fecha movimiento",
		DescCol:      "concepto",
		AmountMode:   amountSingle,
		AmountCol:    "importe",
		DecimalComma: true,
	},
	{
		Name:       "pocketbook",
		DateCol:    "date",
		DescCol:    "description",
		AmountMode: amountSingle,
		AmountCol:  "amount",
	},
}
