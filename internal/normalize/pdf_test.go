package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/betsbrasileiras/internal/extract"
	"github.com/hyperifyio/betsbrasileiras/internal/extract/extracttest"
)

func TestParseLine_FullRow(t *testing.T) {
	b, ok := ParseLine("0001/2024  ACME CORP  12.345.678/0001-90  AcmeBet  acmebet.com")
	require.True(t, ok)
	assert.Equal(t, 1, b.ApplicationNumber)
	assert.Equal(t, 2024, b.ApplicationYear)
	assert.Equal(t, "ACME CORP", b.FiscalName)
	assert.Equal(t, "12.345.678/0001-90", b.Document)
	assert.Equal(t, "AcmeBet", b.Brand)
	assert.Equal(t, "acmebet.com", b.Domain)
	assert.Nil(t, b.DateRegistered)
	assert.Nil(t, b.DateUpdated)
}

func TestParseLine_BrandTakesFirstToken(t *testing.T) {
	b, ok := ParseLine("0042/2024 BETS DO BRASIL S.A. 11.222.333/0001-81 Bet Brasil betbrasil.bet.br")
	require.True(t, ok)
	assert.Equal(t, "BETS DO BRASIL S.A.", b.FiscalName)
	assert.Equal(t, "Bet", b.Brand)
	assert.Equal(t, "Brasil betbrasil.bet.br", b.Domain)
}

func TestParseLine_NFCAndCRLF(t *testing.T) {
	b, ok := ParseLine("0003/2024 SA\u0303O APOSTAS LTDA 98.765.432/0001-10 SaoBet saobet.com\r")
	require.True(t, ok)
	assert.Equal(t, "SÃO APOSTAS LTDA", b.FiscalName)
	assert.Equal(t, "saobet.com", b.Domain)
}

func TestParseLine_NonMatching(t *testing.T) {
	for _, line := range []string{
		"",
		"Requerimento Razão Social CNPJ Marca Domínio",
		"0001/2024 ACME CORP 12345678000190 AcmeBet acmebet.com",
		"1/2024 ACME CORP 12.345.678/0001-90 AcmeBet acmebet.com",
		"0001/2024 ACME CORP 12.345.678/0001-90 AcmeBet",
	} {
		_, ok := ParseLine(line)
		assert.False(t, ok, line)
	}
}

func TestParser_SkipsByDefault(t *testing.T) {
	text := "Lista de empresas autorizadas\n" +
		"0001/2024 ACME CORP 12.345.678/0001-90 AcmeBet acmebet.com\n" +
		"0002/2024 LONG NAME WRAPPED\n" +
		"98.765.432/0001-10 Beta beta.bet.br\n" +
		"\n" +
		"0003/2024 GAMMA SA 11.222.333/0001-81 Gamma gamma.bet.br"

	recs, st := Parser{}.ParsePage(text)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].ApplicationNumber)
	assert.Equal(t, 3, recs[1].ApplicationNumber)
	assert.Equal(t, Stats{Pages: 1, Matched: 2, Skipped: 3}, st)
}

func TestParser_SpliceRecoversWrappedRow(t *testing.T) {
	text := "0001/2024 ACME CORP 12.345.678/0001-90 AcmeBet acmebet.com\n" +
		"0002/2024 LONG NAME WRAPPED\n" +
		"98.765.432/0001-10 Beta beta.bet.br\n" +
		"0003/2024 GAMMA SA 11.222.333/0001-81 Gamma gamma.bet.br\n" +
		"page footer"

	recs, st := Parser{Splice: true}.ParsePage(text)
	require.Len(t, recs, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{recs[0].ApplicationNumber, recs[1].ApplicationNumber, recs[2].ApplicationNumber})
	assert.Equal(t, "LONG NAME WRAPPED", recs[1].FiscalName)
	assert.Equal(t, "98.765.432/0001-10", recs[1].Document)
	assert.Equal(t, 2, st.Matched)
	assert.Equal(t, 1, st.Spliced)
	assert.Equal(t, 1, st.Skipped)
}

func TestParser_PagesKeepOrder(t *testing.T) {
	pages := []extract.Page{
		{Number: 1, Text: "0002/2024 B LTDA 98.765.432/0001-10 B b.bet.br"},
		{Number: 2, Text: "0001/2024 A LTDA 12.345.678/0001-90 A a.bet.br"},
	}
	recs, st := Parser{}.ParsePages(pages)
	require.Len(t, recs, 2)
	assert.Equal(t, 2, recs[0].ApplicationNumber)
	assert.Equal(t, 1, recs[1].ApplicationNumber)
	assert.Equal(t, 2, st.Pages)
	assert.Equal(t, 2, st.Matched)
}

func TestParser_ExtractedPDF(t *testing.T) {
	data := extracttest.BuildPDF([]string{
		"Requerimento\tRazão Social\tCNPJ\tMarca\tDomínio",
		"0001/2024\tACME CORP\t12.345.678/0001-90\tAcmeBet\tacmebet.com",
		"0007/2025\tSÃO JOSÉ APOSTAS LTDA\t11.222.333/0001-81\tJoseBet\tjosebet.bet.br",
	})
	pages, err := extract.LayoutExtractor{}.Pages(data)
	require.NoError(t, err)

	recs, st := Parser{}.ParsePages(pages)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, st.Skipped)
	assert.Equal(t, "ACME CORP", recs[0].FiscalName)
	assert.Equal(t, "SÃO JOSÉ APOSTAS LTDA", recs[1].FiscalName)
	assert.Equal(t, "0007", recs[1].ApplicationNumberString())
	assert.Equal(t, "josebet.bet.br", recs[1].Domain)
}
