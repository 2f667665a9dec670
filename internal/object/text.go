package object

// Text is a string at a 1-based canvas cell.
type Text struct {
	Col   int
	Row   int
	Value string
}

// Centered places value horizontally centred on a canvas width cols wide.
func Centered(row, cols int, value string) Text {
	return Text{Col: cols/2 - textWidth(value)/2 + 1, Row: row, Value: value}
}

// Draw writes the text and marks its cells so the canvas repaints them
// once the text is gone.
func (t Text) Draw(ctx DrawContext) {
	if t.Value == "" {
		return
	}
	col, row := max(t.Col, 1), max(t.Row, 1)
	ctx.Writer.WriteAt(col, row, t.Value)
	ctx.Canvas.MarkTextDirty(col, row, textWidth(t.Value))
}

// textWidth counts runes; the UI only uses single-width characters.
func textWidth(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
