package chart

import (
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// TextNoData is drawn in place of a chart with nothing to show.
const TextNoData = "No data"

// placeholder renders a title and a centered "No data" label.
type placeholder struct {
	title         string
	width, height int
}

// NoData returns a placeholder chart of the given size.
func NoData(title string, width, height int) Renderable {
	return placeholder{title: title, width: width, height: height}
}

func (p placeholder) Render(rp gochart.RendererProvider, w io.Writer) error {
	r, err := rp(p.width, p.height)
	if err != nil {
		return err
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetFont(font)

	r.SetFontColor(drawing.ColorBlack)
	r.SetFontSize(16)
	tb := r.MeasureText(p.title)
	r.Text(p.title, (p.width-tb.Width())/2, padding.Top+tb.Height())

	r.SetFontColor(colorMuted)
	r.SetFontSize(14)
	nb := r.MeasureText(TextNoData)
	r.Text(TextNoData, (p.width-nb.Width())/2, (p.height+nb.Height())/2)

	return r.Save(w)
}
