package statement_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/pocketbook/internal/importer/statement"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParser_Extracto(t *testing.T) {
	csv := `Extracto de cuenta de ahorros;0000123
Titular;JUAN PEREZ
Saldo disponible;$ 2.500.000,00

Fecha;Referencia;Descripción;Valor;Saldo
30/01/2026;0001;PAGO NOMINA EMPRESA;2.450.000,00;4.950.000,00
31/01/2026;0002;COMPRA EXITO CALLE 80;-185.430,50;4.764.569,50
`

	rows, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, date(2026, 1, 30), rows[0].Date)
	assert.Equal(t, "PAGO NOMINA EMPRESA", rows[0].Description)
	assert.True(t, dec("2450000").Equal(rows[0].Amount))
	assert.Equal(t, ledger.KindIncome, rows[0].Kind)

	assert.Equal(t, date(2026, 1, 31), rows[1].Date)
	assert.True(t, dec("185430.50").Equal(rows[1].Amount))
	assert.Equal(t, ledger.KindExpense, rows[1].Kind)
}

func TestParser_Tarjeta(t *testing.T) {
	csv := `Movimientos tarjeta de crédito ;**** 8016

Fecha ;Descripción ;Débito ;Crédito ;
16/12/2025 ;UBER   *TRIP ;47.910,00 ; ;
20/12/2025 ;DEVOLUCION AMAZON ; ;25.000,00 ;
 ; ; ; ;Página 1/2 ;
`

	rows, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "UBER   *TRIP", rows[0].Description)
	assert.True(t, dec("47910").Equal(rows[0].Amount))
	assert.Equal(t, ledger.KindExpense, rows[0].Kind)

	assert.True(t, dec("25000").Equal(rows[1].Amount))
	assert.Equal(t, ledger.KindIncome, rows[1].Kind)
}

func TestParser_CommaDelimited(t *testing.T) {
	csv := "date,description,amount\n2026-03-01,Coffee,-4.50\n2026-03-02,Refund,12\n"

	rows, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, date(2026, 3, 1), rows[0].Date)
	assert.True(t, dec("4.50").Equal(rows[0].Amount))
	assert.Equal(t, ledger.KindExpense, rows[0].Kind)
	assert.Equal(t, ledger.KindIncome, rows[1].Kind)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Valor;Descripción;Fecha;Ignorada
-10.000,00;TEST_ORDER;30-01-2026;XXX
`

	rows, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "TEST_ORDER", rows[0].Description)
	assert.True(t, dec("10000").Equal(rows[0].Amount))
}

func TestParser_Latin1Encoding(t *testing.T) {
	utf8CSV := "Fecha;Descripción;Valor\n30/01/2026;CAFÉ JUAN VALDEZ;-10.500,00\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	rows, err := statement.NewParser().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "CAFÉ JUAN VALDEZ", rows[0].Description)
}

func TestParser_EmptyFile(t *testing.T) {
	_, err := statement.NewParser().Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, statement.ErrUnknownFormat)
}

func TestParser_HeaderOnly(t *testing.T) {
	rows, err := statement.NewParser().Parse(strings.NewReader("Fecha;Descripción;Valor"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParser_MissingDescription(t *testing.T) {
	csv := "Fecha;Descripción;Valor\n30/01/2026;;-10,00\n"

	_, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2: missing description")
}

func TestParser_SkipsFooterAndZeroRows(t *testing.T) {
	csv := `Fecha;Descripción;Valor
30/01/2026;TEST;-10,00
31/01/2026;AJUSTE;0,00
Totales;;-10,00
`

	rows, err := statement.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
