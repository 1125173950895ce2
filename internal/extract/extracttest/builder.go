// Package extracttest writes small, valid PDF documents for tests that need
// real positioned text without shipping binary fixtures.
package extracttest

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	fontSize   = 10
	glyphWidth = 500 // per 1000 units of text space
	leading    = 14
	cellGap    = 20
	marginLeft = 40
	firstLine  = 560
)

// BuildPDF returns a PDF with one page per element of pages. Each string is
// one visual line; a tab inside a line starts a separately positioned cell
// on the same baseline. Text is encoded as WinAnsi, so Latin-1 accents
// survive the round trip.
func BuildPDF(pages ...[]string) []byte {
	var objs []string
	add := func(body string) int {
		objs = append(objs, body)
		return len(objs)
	}
	catalog := add("") // patched once the page tree exists
	tree := add("")
	font := add(fontObject())

	var kids []string
	for _, lines := range pages {
		stream := contentStream(lines)
		content := add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
		page := add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 842 595] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", tree, font, content))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	objs[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", tree)
	objs[tree-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, catalog, xref)
	return buf.Bytes()
}

func fontObject() string {
	widths := make([]string, 0, 224)
	for c := 32; c <= 255; c++ {
		widths = append(widths, fmt.Sprint(glyphWidth))
	}
	return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 255 /Widths [%s] >>", strings.Join(widths, " "))
}

func contentStream(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		y := firstLine - i*leading
		x := marginLeft
		for _, cell := range strings.Split(l, "\t") {
			enc := winAnsi(cell)
			fmt.Fprintf(&b, "BT /F1 %d Tf 1 0 0 1 %d %d Tm (%s) Tj ET\n", fontSize, x, y, escape(enc))
			x += len(enc)*glyphWidth*fontSize/1000 + cellGap
		}
	}
	return b.String()
}

func winAnsi(s string) []byte {
	out, err := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}

func escape(raw []byte) string {
	var b strings.Builder
	for _, c := range raw {
		switch {
		case c == '(' || c == ')' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 32 || c > 126:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
