package extract

// Page is the text of one PDF page, one line per visual row.
type Page struct {
	// Number is 1-based.
	Number int
	Text   string
}

// PageExtractor turns a PDF document into per-page text in document order.
// Implementations can swap layout tactics without changing callers.
type PageExtractor interface {
	Pages(data []byte) ([]Page, error)
}
