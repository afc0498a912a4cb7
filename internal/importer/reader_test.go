package importer

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/nda2ynab/internal/config"
	"github.com/cleared-dev/nda2ynab/internal/model"
)

const header = "Kirjauspäivä;Määrä;Maksaja;Maksunsaaja;Nimi;Otsikko;Viitenumero;Valuutta\n"

func newTestReader(w io.Writer) *Reader {
	return NewReader(config.Default().Schema, log.New(w))
}

func TestReader_ReadFile(t *testing.T) {
	var logs bytes.Buffer
	txns, err := newTestReader(&logs).ReadFile("../../testdata/nordea_export.csv")
	require.NoError(t, err)
	require.Len(t, txns, 5)

	assert.Equal(t, model.Transaction{Date: "2024/03/05", Amount: "-4,00", Description: "GITHUB"}, txns[0])
	assert.Equal(t, model.Transaction{Date: "2024/03/04", Amount: "2500,00", Description: "PALKKA"}, txns[1])
	assert.Equal(t, txns[2], txns[3], "duplicate rows are kept")
	assert.Equal(t, "ELISA OYJ", txns[4].Description)

	assert.Contains(t, logs.String(), "skipping pending transaction")
	assert.Contains(t, logs.String(), "nordea_export.csv")
}

func TestReader_PendingNeverReturned(t *testing.T) {
	csv := header +
		"Varaus;-1,00;;;;PENDING A;;EUR\n" +
		"2024/03/05;-4,00;;;;GITHUB;;EUR\n" +
		"Varaus;-2,00;;;;PENDING B;;EUR\n"
	txns, err := newTestReader(io.Discard).Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "GITHUB", txns[0].Description)
}

func TestReader_SkipsMalformedRows(t *testing.T) {
	var logs bytes.Buffer
	csv := header +
		"2024/03/05;-4,00;;;;GITHUB;;EUR\n" +
		"2024/03/04;-1,00\n" +
		";;\n"
	txns, err := newTestReader(&logs).Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "GITHUB", txns[0].Description)
	assert.Contains(t, logs.String(), "skipping malformed row")
}

func TestReader_ColumnOrderFromHeader(t *testing.T) {
	csv := "Otsikko;Valuutta;Määrä;Kirjauspäivä\nGITHUB;EUR;-4,00;2024/03/05\n"
	txns, err := newTestReader(io.Discard).Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.Transaction{Date: "2024/03/05", Amount: "-4,00", Description: "GITHUB"}, txns[0])
}

func TestReader_StripsBOM(t *testing.T) {
	csv := "\ufeff" + header + "2024/03/05;-4,00;;;;GITHUB;;EUR\n"
	txns, err := newTestReader(io.Discard).Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestReader_MissingColumn(t *testing.T) {
	csv := "Kirjauspäivä;Määrä;Nimi\n2024/03/05;-4,00;GITHUB\n"
	_, err := newTestReader(io.Discard).Read(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "Otsikko"`)
}

func TestReader_EmptyInput(t *testing.T) {
	_, err := newTestReader(io.Discard).Read(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header")
}

func TestReader_HeaderOnly(t *testing.T) {
	txns, err := newTestReader(io.Discard).Read(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestReader_CustomSchema(t *testing.T) {
	schema := config.SchemaConfig{
		Delimiter:   ",",
		PendingDate: "PENDING",
		Columns: []config.ColumnMapping{
			{Source: "Booking date", Field: config.FieldDate},
			{Source: "Amount", Field: config.FieldAmount},
			{Source: "Title", Field: config.FieldDescription},
		},
	}
	csv := "Booking date,Amount,Title\nPENDING,-1.00,X\n2024-03-05,-4.00,\"GITHUB, INC\"\n"
	txns, err := NewReader(schema, log.New(io.Discard)).Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "GITHUB, INC", txns[0].Description)
}

func TestReader_ReadFileMissing(t *testing.T) {
	_, err := newTestReader(io.Discard).ReadFile("../../testdata/does-not-exist.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
