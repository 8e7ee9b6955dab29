package statement_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/pocketbook/internal/importer/statement"
)

func TestDecodeUTF8(t *testing.T) {
	const want = "Descripción;Valor\nCafé;12,50\n"

	utf16LE, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	type testCase struct {
		name  string
		input []byte
	}

	tests := []testCase{
		{name: "UTF8Passthrough", input: []byte(want)},
		{name: "UTF8BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, want...)},
		{name: "UTF16LE", input: utf16LE},
		{
			name: "Windows1252",
			input: []byte{
				'D', 'e', 's', 'c', 'r', 'i', 'p', 'c', 'i', 0xF3, 'n', ';', 'V', 'a', 'l', 'o', 'r', '\n',
				'C', 'a', 'f', 0xE9, ';', '1', '2', ',', '5', '0', '\n',
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := statement.DecodeUTF8(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, want, string(got))
		})
	}
}
