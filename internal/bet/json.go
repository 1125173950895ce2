package bet

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// wireBet is the published JSON shape. Numbers travel as zero-padded strings.
type wireBet struct {
	ApplicationNumber string     `json:"ApplicationNumber"`
	ApplicationYear   string     `json:"ApplicationYear"`
	Document          string     `json:"Document"`
	FiscalName        string     `json:"FiscalName"`
	Brand             string     `json:"Brand"`
	Domain            string     `json:"Domain"`
	DateRegistered    *time.Time `json:"DateRegistered"`
	DateUpdated       *time.Time `json:"DateUpdated"`
}

// inboundBet accepts the looser shapes seen in older snapshots: numeric
// application fields and null strings.
type inboundBet struct {
	ApplicationNumber flexString `json:"ApplicationNumber"`
	ApplicationYear   flexString `json:"ApplicationYear"`
	Document          *string    `json:"Document"`
	FiscalName        *string    `json:"FiscalName"`
	Brand             *string    `json:"Brand"`
	Domain            *string    `json:"Domain"`
	DateRegistered    *time.Time `json:"DateRegistered"`
	DateUpdated       *time.Time `json:"DateUpdated"`
}

func (b Bet) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireBet{
		ApplicationNumber: b.ApplicationNumberString(),
		ApplicationYear:   b.ApplicationYearString(),
		Document:          b.Document,
		FiscalName:        b.FiscalName,
		Brand:             b.Brand,
		Domain:            b.Domain,
		DateRegistered:    b.DateRegistered,
		DateUpdated:       b.DateUpdated,
	})
}

func (b *Bet) UnmarshalJSON(data []byte) error {
	var in inboundBet
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	out := Bet{
		FiscalName:     deref(in.FiscalName),
		Brand:          deref(in.Brand),
		Domain:         deref(in.Domain),
		DateRegistered: in.DateRegistered,
		DateUpdated:    in.DateUpdated,
	}
	out.SetApplicationNumber(string(in.ApplicationNumber))
	out.SetApplicationYear(string(in.ApplicationYear))
	out.SetDocument(deref(in.Document))
	*b = out
	return nil
}

// flexString decodes either a JSON string or a JSON number into its text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
