package extract

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"rsc.io/pdf"
)

// LayoutExtractor rebuilds reading-order lines from positioned glyphs.
// Glyphs sharing a baseline form one line; lines run top to bottom and
// glyphs left to right. Word breaks are recovered from horizontal gaps since
// many producers never emit the space glyph.
type LayoutExtractor struct {
	// BaselineTolerance is the fraction of the font size two glyphs may
	// differ vertically and still share a line. Zero means 0.3.
	BaselineTolerance float64
	// SpaceGap is the fraction of the font size a horizontal gap must exceed
	// to be rendered as a space. Zero means 0.15.
	SpaceGap float64
}

// Pages implements PageExtractor.
func (e LayoutExtractor) Pages(data []byte) (pages []Page, err error) {
	if len(data) == 0 {
		return nil, errors.New("empty pdf")
	}
	// The reader panics on malformed input rather than returning errors.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	n := r.NumPage()
	pages = make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pages = append(pages, Page{Number: i, Text: e.layout(p.Content().Text)})
	}
	return pages, nil
}

type line struct {
	y      float64
	size   float64
	glyphs []pdf.Text
}

func (e LayoutExtractor) layout(glyphs []pdf.Text) string {
	tol := e.BaselineTolerance
	if tol <= 0 {
		tol = 0.3
	}
	gap := e.SpaceGap
	if gap <= 0 {
		gap = 0.15
	}

	var lines []*line
	for _, g := range glyphs {
		size := fontSize(g)
		var target *line
		for _, l := range lines {
			if math.Abs(l.y-g.Y) <= tol*math.Max(size, l.size) {
				target = l
				break
			}
		}
		if target == nil {
			target = &line{y: g.Y, size: size}
			lines = append(lines, target)
		}
		target.glyphs = append(target.glyphs, g)
	}
	// PDF user space grows upwards.
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		sort.SliceStable(l.glyphs, func(i, j int) bool { return l.glyphs[i].X < l.glyphs[j].X })
		var b strings.Builder
		for i, g := range l.glyphs {
			if i > 0 {
				prev := l.glyphs[i-1]
				if g.X-(prev.X+prev.W) > gap*math.Max(fontSize(g), fontSize(prev)) {
					b.WriteByte(' ')
				}
			}
			b.WriteString(g.S)
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

func fontSize(g pdf.Text) float64 {
	if g.FontSize <= 0 {
		return 1
	}
	return g.FontSize
}
