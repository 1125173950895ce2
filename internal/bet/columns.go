package bet

// Column describes one exported field. The order of Columns is the order of
// every tabular export.
type Column struct {
	Field       string
	JSONName    string
	DisplayName string
	value       func(Bet) string
}

// Value renders the column for b.
func (c Column) Value(b Bet) string { return c.value(b) }

var Columns = []Column{
	{Field: "application_number", JSONName: "ApplicationNumber", DisplayName: "ApplicationNumber", value: Bet.ApplicationNumberString},
	{Field: "application_year", JSONName: "ApplicationYear", DisplayName: "ApplicationYear", value: Bet.ApplicationYearString},
	{Field: "document", JSONName: "Document", DisplayName: "Document", value: func(b Bet) string { return b.Document }},
	{Field: "fiscal_name", JSONName: "FiscalName", DisplayName: "FiscalName", value: func(b Bet) string { return b.FiscalName }},
	{Field: "brand", JSONName: "Brand", DisplayName: "Brand", value: func(b Bet) string { return b.Brand }},
	{Field: "domain", JSONName: "Domain", DisplayName: "Domain", value: func(b Bet) string { return b.Domain }},
	{Field: "date_registered", JSONName: "DateRegistered", DisplayName: "Date Registered", value: func(b Bet) string { return FormatTime(b.DateRegistered) }},
	{Field: "date_updated", JSONName: "DateUpdated", DisplayName: "Date Updated", value: func(b Bet) string { return FormatTime(b.DateUpdated) }},
}

// JSONNames lists the column JSON names in export order.
func JSONNames() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.JSONName
	}
	return out
}

// DisplayNames lists the human-facing column headers in export order.
func DisplayNames() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.DisplayName
	}
	return out
}
