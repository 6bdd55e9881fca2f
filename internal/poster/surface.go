package poster

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XY is a point or a size in poster units.
type XY struct {
	X, Y float64
}

func (p XY) Add(o XY) XY { return XY{p.X + o.X, p.Y + o.Y} }
func (p XY) Sub(o XY) XY { return XY{p.X - o.X, p.Y - o.Y} }

// Anchor is the horizontal alignment of a text run.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Surface receives drawing primitives.
type Surface interface {
	Circle(center XY, r float64, fill Color, title string)
	Rect(origin, size XY, fill Color)
	Text(at XY, text string, size float64, fill Color, anchor Anchor)
}

// SVG is a Surface that buffers elements and writes them as a standalone
// SVG document in millimeters.
type SVG struct {
	size XY
	body strings.Builder
}

func NewSVG(size XY) *SVG {
	return &SVG{size: size}
}

func (s *SVG) Circle(center XY, r float64, fill Color, title string) {
	fmt.Fprintf(&s.body, `  <circle cx="%s" cy="%s" r="%s" fill="%s">`, num(center.X), num(center.Y), num(r), fill.Hex())
	if title != "" {
		fmt.Fprintf(&s.body, "<title>%s</title>", escape(title))
	}
	s.body.WriteString("</circle>\n")
}

func (s *SVG) Rect(origin, size XY, fill Color) {
	fmt.Fprintf(&s.body, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(origin.X), num(origin.Y), num(size.X), num(size.Y), fill.Hex())
}

func (s *SVG) Text(at XY, text string, size float64, fill Color, anchor Anchor) {
	fmt.Fprintf(&s.body, `  <text x="%s" y="%s" font-size="%s" fill="%s" text-anchor="%s" font-family="Arial">%s</text>`+"\n",
		num(at.X), num(at.Y), num(size), fill.Hex(), anchor, escape(text))
}

// WriteTo writes the complete document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="utf-8" ?>`+"\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%smm" height="%smm" viewBox="0 0 %s %s">`+"\n",
		num(s.size.X), num(s.size.Y), num(s.size.X), num(s.size.Y))
	buf.WriteString(s.body.String())
	buf.WriteString("</svg>\n")
	return buf.WriteTo(w)
}

func num(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
