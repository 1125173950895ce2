package extract

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFLinks_ResolvesAndDeduplicates(t *testing.T) {
	page := `<!doctype html>
	<html><body>
	  <a href="/spa/lista.pdf">Lista</a>
	  <a href="https://cdn.example.gov.br/docs/Anexo.PDF#page=2">Anexo</a>
	  <a href="/spa/lista.pdf">Lista again</a>
	  <a href="/spa/noticias">News</a>
	  <a href="mailto:spa@example.gov.br">Mail</a>
	  <a>no href</a>
	</body></html>`
	base, err := url.Parse("https://www.gov.br/fazenda/pt-br/spa")
	require.NoError(t, err)

	links := PDFLinks([]byte(page), base)
	assert.Equal(t, []string{
		"https://www.gov.br/spa/lista.pdf",
		"https://cdn.example.gov.br/docs/Anexo.PDF",
	}, links)
}

func TestPDFLinks_NoLinks(t *testing.T) {
	assert.Empty(t, PDFLinks([]byte("<p>nothing here</p>"), nil))
}
