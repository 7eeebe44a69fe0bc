package extract

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raghav2405/invoice-backend/pkg/logger"
)

// buildPDF assembles a minimal single-font PDF with one page per entry in
// texts, computing xref offsets as it goes.
func buildPDF(texts []string) []byte {
	var objects []string

	kids := make([]string, len(texts))
	for i := range texts {
		// page objects start at 4, each page is followed by its content stream
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(texts)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, text := range texts {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents "+
				fmt.Sprintf("%d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf strings.Builder
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefStart)

	return []byte(buf.String())
}

func TestExtract_SinglePage(t *testing.T) {
	e := NewExtractor(logger.NewTestLogger())

	text, err := e.Extract(context.Background(), buildPDF([]string{"Hello Invoice 42"}))
	require.NoError(t, err)
	assert.Contains(t, text, "Hello Invoice 42")
}

func TestExtract_PagesInOrder(t *testing.T) {
	e := NewExtractor(logger.NewTestLogger())

	text, err := e.Extract(context.Background(), buildPDF([]string{"FIRSTPAGE", "SECONDPAGE"}))
	require.NoError(t, err)

	first := strings.Index(text, "FIRSTPAGE")
	second := strings.Index(text, "SECONDPAGE")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}

func TestExtract_CorruptFile(t *testing.T) {
	e := NewExtractor(logger.NewTestLogger())

	_, err := e.Extract(context.Background(), []byte("this is not a pdf at all"))
	assert.Error(t, err)
}

func TestExtract_CancelledContext(t *testing.T) {
	e := NewExtractor(logger.NewTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, buildPDF([]string{"Hello"}))
	assert.ErrorIs(t, err, context.Canceled)
}
