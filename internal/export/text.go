package export

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
)

// WriteJSON writes an indented array in the snapshot feed shape.
func WriteJSON(w io.Writer, bets []bet.Bet) error {
	if bets == nil {
		bets = []bet.Bet{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(bets)
}

// WriteCSV writes a header of JSON names and one row per record. Commas are
// stripped from the free-text fields.
func WriteCSV(w io.Writer, bets []bet.Bet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bet.JSONNames()); err != nil {
		return err
	}
	for _, b := range bets {
		if err := cw.Write(row(b, stripCommas)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(b bet.Bet, clean func(field, value string) string) []string {
	out := make([]string, len(bet.Columns))
	for i, c := range bet.Columns {
		out[i] = clean(c.Field, c.Value(b))
	}
	return out
}

func stripCommas(field, value string) string {
	switch field {
	case "fiscal_name", "brand", "domain":
		return strings.ReplaceAll(value, ",", "")
	}
	return value
}

// WriteMarkdown writes a titled pipe table with display headers.
func WriteMarkdown(w io.Writer, bets []bet.Bet) error {
	names := bet.DisplayNames()
	sep := make([]string, len(names))
	for i := range sep {
		sep[i] = "---"
	}
	lines := []string{
		"# Bets Brasileiras",
		"",
		strings.Join(names, " | "),
		strings.Join(sep, " | "),
	}
	for _, b := range bets {
		lines = append(lines, strings.Join(row(b, func(field, value string) string {
			return strings.ReplaceAll(stripCommas(field, value), "|", `\|`)
		}), " | "))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// WriteSQL writes one INSERT statement per record. Blank brand or domain and
// missing timestamps become NULL.
func WriteSQL(w io.Writer, bets []bet.Bet) error {
	prefix := fmt.Sprintf("INSERT INTO Bets (%s) VALUES(", strings.Join(bet.JSONNames(), ","))
	for _, b := range bets {
		values := make([]string, len(bet.Columns))
		for i, c := range bet.Columns {
			values[i] = sqlValue(c.Field, c.Value(b))
		}
		if _, err := fmt.Fprintf(w, "%s%s);\n", prefix, strings.Join(values, ",")); err != nil {
			return err
		}
	}
	return nil
}

func sqlValue(field, value string) string {
	switch field {
	case "brand", "domain", "date_registered", "date_updated":
		if strings.TrimSpace(value) == "" {
			return "NULL"
		}
	}
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

type xmlBets struct {
	XMLName xml.Name `xml:"bets"`
	Bets    []xmlBet `xml:"bet"`
}

type xmlBet struct {
	ApplicationNumber string `xml:"ApplicationNumber"`
	ApplicationYear   string `xml:"ApplicationYear"`
	Document          string `xml:"Document"`
	FiscalName        string `xml:"FiscalName"`
	Brand             string `xml:"Brand"`
	Domain            string `xml:"Domain"`
	DateRegistered    string `xml:"DateRegistered,omitempty"`
	DateUpdated       string `xml:"DateUpdated,omitempty"`
}

// WriteXML writes a <bets> document with one <bet> element per record.
func WriteXML(w io.Writer, bets []bet.Bet) error {
	doc := xmlBets{Bets: make([]xmlBet, 0, len(bets))}
	for _, b := range bets {
		doc.Bets = append(doc.Bets, xmlBet{
			ApplicationNumber: b.ApplicationNumberString(),
			ApplicationYear:   b.ApplicationYearString(),
			Document:          b.Document,
			FiscalName:        b.FiscalName,
			Brand:             b.Brand,
			Domain:            b.Domain,
			DateRegistered:    bet.FormatTime(b.DateRegistered),
			DateUpdated:       bet.FormatTime(b.DateUpdated),
		})
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
