package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParser(t *testing.T) {
	t.Run("BOM is stripped", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("\xEF\xBB\xBFFolder_No,Title\n1,Minutes"))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())
		assert.Equal(t, []string{"folder_no", "title"}, p.Headers())
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewParser(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("latin-1 is rejected", func(t *testing.T) {
		_, err := NewParser(strings.NewReader("title\nLev\xe9l"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("multi-byte rune across the peek window", func(t *testing.T) {
		body := "title\n" + strings.Repeat("a", 4096-7) + "ő\n"
		_, err := NewParser(strings.NewReader(body))
		assert.NoError(t, err)
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("folder_no;title\n1;Minutes"), WithDelimiter(';'))
		require.NoError(t, err)
		require.NoError(t, p.ParseHeader())
		row, err := p.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "Minutes", row.Get("title"))
	})
}

func TestParser_Rows(t *testing.T) {
	csv := "folder_no,title,languages\n" +
		"1,  Correspondence  ,hu\n" +
		",,\n" +
		"2,Minutes\n"
	p, err := NewParser(strings.NewReader(csv))
	require.NoError(t, err)
	require.NoError(t, p.ParseHeader())

	assert.Empty(t, p.MissingHeaders([]string{"Folder_No", "title"}))
	assert.Equal(t, []string{"level"}, p.MissingHeaders([]string{"level", "title"}))

	rows, err := p.ReadAll(0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].LineNumber)
	assert.Equal(t, "Correspondence", rows[0].Get("TITLE"))
	assert.Equal(t, 4, rows[1].LineNumber)
	assert.Equal(t, "", rows[1].Get("languages"))
	assert.Equal(t, "", rows[1].Get("unknown"))
}

func TestParser_ReadAllLimit(t *testing.T) {
	p, err := NewParser(strings.NewReader("title\na\nb\nc\n"))
	require.NoError(t, err)
	require.NoError(t, p.ParseHeader())

	rows, err := p.ReadAll(2)
	assert.ErrorIs(t, err, ErrTooManyRows)
	assert.Len(t, rows, 2)
}

func TestParser_HeaderOnly(t *testing.T) {
	p, err := NewParser(strings.NewReader("title\n"))
	require.NoError(t, err)
	require.NoError(t, p.ParseHeader())

	_, err = p.ReadRow()
	assert.Equal(t, io.EOF, err)
}

func TestParser_BlankHeader(t *testing.T) {
	p, err := NewParser(strings.NewReader(" , \n1,2"))
	require.NoError(t, err)
	assert.ErrorIs(t, p.ParseHeader(), ErrMissingHeader)
}
