// internal/thumbnail/thumbnail.go

// Package thumbnail derives a compact outline preview from a full 2D
// diagram. The diagram is treated as markup text, not a DOM: coordinates
// are collected line by line in emission order, which is what keeps the
// outline following the backbone path of the drawing.
package thumbnail

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	widthRe  = regexp.MustCompile(`width="(\d+(\.\d+)?)"`)
	heightRe = regexp.MustCompile(`height="(\d+(\.\d+)?)"`)
	textRe   = regexp.MustCompile(`<text x="(\d+)(\.\d+)?" y="(\d+)(\.\d+)?".*?</text>`)
)

// Generate builds a single-path outline SVG from the diagram document.
// The description seeds the stroke color, so the same artifact always gets
// the same color. A diagram with no coordinate-bearing labels yields a
// valid document with an empty path, not an error.
func Generate(image, description string) string {
	var (
		width, height string
		moveTo        string
		points        []string
	)
	for _, line := range strings.Split(image, "\n") {
		if strings.Contains(line, "width") && !strings.Contains(line, "stroke-width") {
			if m := widthRe.FindStringSubmatch(line); m != nil {
				width = m[1]
			}
		}
		if strings.Contains(line, "height") {
			if m := heightRe.FindStringSubmatch(line); m != nil {
				height = m[1]
			}
		}
		for _, block := range textRe.FindAllStringSubmatch(line, -1) {
			// Position-numbering labels are annotations, not residues.
			if strings.Contains(block[0], "numbering-label") {
				continue
			}
			x, y := block[1], block[3]
			if moveTo == "" {
				moveTo = fmt.Sprintf("M%s %s ", x, y)
			}
			points = append(points, fmt.Sprintf("L%s %s", x, y))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s">`,
		width, height)
	fmt.Fprintf(&b,
		`<path style="stroke:%s;stroke-width:%spx;fill:none;" d="`,
		colorFor(description), StrokeWidth(len(points)))
	b.WriteString(moveTo)
	b.WriteString(strings.Join(points, " "))
	b.WriteString(`"/></svg>`)
	return b.String()
}

// StrokeWidth picks a stroke width from the point count. The ladder is
// historical and non-monotonic: both the <500 and <3000 bands map to 4
// while >=3000 drops to 2. Downstream consumers depend on these exact
// values, so it stays as-is.
func StrokeWidth(points int) string {
	switch {
	case points < 200:
		return "3"
	case points < 500:
		return "4"
	case points < 3000:
		return "4"
	default:
		return "2"
	}
}
