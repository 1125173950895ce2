package export

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
	"github.com/hyperifyio/betsbrasileiras/internal/extract"
)

func sample() []bet.Bet {
	reg := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)
	return []bet.Bet{
		{ApplicationNumber: 1, ApplicationYear: 2024, Document: "12.345.678/0001-90", FiscalName: "ACME, CORP", Brand: "AcmeBet", Domain: "acmebet.com", DateRegistered: &reg, DateUpdated: &reg},
		{ApplicationNumber: 27, ApplicationYear: 2025, Document: "11.222.333/0001-81", FiscalName: "D'ÁVILA APOSTAS LTDA"},
	}
}

func TestWriteCSV_RoundTripsPaddedNumbers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, bet.JSONNames(), records[0])

	assert.Equal(t, "0001", records[1][0])
	assert.Equal(t, "2024", records[1][1])
	assert.Equal(t, "ACME CORP", records[1][3])
	assert.Equal(t, "2024-08-01T10:00:00Z", records[1][6])

	assert.Equal(t, "0027", records[2][0])
	assert.Equal(t, "2025", records[2][1])
	assert.Equal(t, "", records[2][7])

	for i, b := range sample() {
		var back bet.Bet
		back.SetApplicationNumber(records[i+1][0])
		back.SetApplicationYear(records[i+1][1])
		assert.Equal(t, b.ApplicationNumberString(), back.ApplicationNumberString())
		assert.Equal(t, b.ApplicationYearString(), back.ApplicationYearString())
	}
}

func TestWriteJSON_FeedShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample()))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "0001", raw[0]["ApplicationNumber"])
	assert.Nil(t, raw[1]["DateUpdated"])
	assert.Contains(t, buf.String(), "D'ÁVILA")

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sample()))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "# Bets Brasileiras", lines[0])
	assert.Equal(t, strings.Join(bet.DisplayNames(), " | "), lines[2])
	assert.True(t, strings.HasPrefix(lines[4], "0001 | 2024 | 12.345.678/0001-90 | ACME CORP | AcmeBet"))
}

func TestWriteSQL_ExecutesInSQLite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSQL(&buf, sample()))
	assert.Contains(t, buf.String(), "'D''ÁVILA APOSTAS LTDA',NULL,NULL,NULL,NULL);")

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE Bets (ApplicationNumber TEXT, ApplicationYear TEXT, Document TEXT, FiscalName TEXT, Brand TEXT, Domain TEXT, DateRegistered TEXT, DateUpdated TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(buf.String())
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM Bets`).Scan(&count))
	assert.Equal(t, 2, count)

	var name string
	var brand sql.NullString
	require.NoError(t, db.QueryRow(`SELECT FiscalName, Brand FROM Bets WHERE ApplicationNumber = '0027'`).Scan(&name, &brand))
	assert.Equal(t, "D'ÁVILA APOSTAS LTDA", name)
	assert.False(t, brand.Valid)
}

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, sample()))
	assert.True(t, strings.HasPrefix(buf.String(), xml.Header))

	var doc xmlBets
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Bets, 2)
	assert.Equal(t, "0027", doc.Bets[1].ApplicationNumber)
	assert.Equal(t, "ACME, CORP", doc.Bets[0].FiscalName)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, bet.DisplayNames(), rows[0])
	assert.Equal(t, "0001", rows[1][0])
	assert.Equal(t, "D'ÁVILA APOSTAS LTDA", rows[2][3])
}

func TestWritePDF_ReadableByExtractor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sample()))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	pages, err := extract.LayoutExtractor{}.Pages(buf.Bytes())
	require.NoError(t, err)
	require.NotEmpty(t, pages)
	assert.Contains(t, pages[0].Text, "12.345.678/0001-90")
	assert.Contains(t, pages[0].Text, "acmebet.com")
}

func TestParseFormats(t *testing.T) {
	f, err := ParseFormats("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFormats, f)

	f, err = ParseFormats(" JSON, xlsx,json ")
	require.NoError(t, err)
	assert.Equal(t, []Format{FormatJSON, FormatXLSX}, f)

	_, err = ParseFormats("json,docx")
	require.Error(t, err)
}

func TestWriterWriteAll_ChecksumsAndArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "result")
	paths, err := Writer{Dir: dir}.WriteAll(sample())
	require.NoError(t, err)
	require.Len(t, paths, len(DefaultFormats))
	for _, f := range DefaultFormats {
		assert.FileExists(t, filepath.Join(dir, FileName(f)))
	}

	require.NoError(t, WriteChecksums(dir))
	sums, err := os.ReadFile(filepath.Join(dir, ChecksumsFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(sums)), "\n")
	require.Len(t, lines, len(DefaultFormats))
	assert.True(t, strings.HasSuffix(lines[0], "  bets.csv"))

	tarPath := filepath.Join(t.TempDir(), "result.tar.gz")
	require.NoError(t, Archive(dir, tarPath))
	names := tarNames(t, tarPath)
	assert.Contains(t, names, "result/bets.json")
	assert.Contains(t, names, "result/SHA256SUMS")
}

func tarNames(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
	return names
}
