package document

import (
	"context"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sadapurne/pkg/domain-errors"
)

func TestExtractText_Unreadable(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		wantMsg string
	}{
		{"empty", nil, "certificate file is empty"},
		{"not a pdf", []byte("just some text, not a document"), "certificate is not a PDF document"},
		{"truncated pdf", []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog"), "certificate could not be parsed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := NewPDFExtractor().ExtractText(context.Background(), tt.content)
			require.Error(t, err)
			assert.Empty(t, text)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnreadableDocument))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestJoinRow(t *testing.T) {
	t.Run("orders runs left to right", func(t *testing.T) {
		runs := pdf.TextHorizontal{
			{S: "TRADERS", X: 160, W: 50, FontSize: 10},
			{S: "RAJ", X: 100, W: 25, FontSize: 10},
		}
		assert.Equal(t, "RAJ TRADERS", joinRow(runs))
	})

	t.Run("touching runs are not split", func(t *testing.T) {
		runs := pdf.TextHorizontal{
			{S: "2122", X: 10, W: 20, FontSize: 10},
			{S: "3010", X: 30, W: 20, FontSize: 10},
		}
		assert.Equal(t, "21223010", joinRow(runs))
	})

	t.Run("does not reorder the caller's slice", func(t *testing.T) {
		runs := pdf.TextHorizontal{
			{S: "b", X: 20, W: 5, FontSize: 10},
			{S: "a", X: 10, W: 5, FontSize: 10},
		}
		joinRow(runs)
		assert.Equal(t, "b", runs[0].S)
	})
}

func TestWithMaxPages(t *testing.T) {
	e := NewPDFExtractor(WithMaxPages(2))
	assert.Equal(t, 2, e.maxPages)
}

func TestErrExtraction_MatchesByCode(t *testing.T) {
	_, err := NewPDFExtractor().ExtractText(context.Background(), []byte("plain"))
	assert.ErrorIs(t, err, ErrExtraction)
}
