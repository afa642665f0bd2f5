package view

import (
	"bytes"
	"image"
	"image/color"

	"lifegrid/src/life"
)

//terminal cell size in characters, one cell is two columns wide to look square
const (
	termCellWidth  = 2
	termCellHeight = 1
)

var (
	AliveColor color.Color = color.White
	DeadColor  color.Color = color.Black
)

//PixelToCell converts a pointer position to grid coordinates by integer division by the cell size
//ok is false when the position is outside a width x height grid
func PixelToCell(px int, py int, cellW int, cellH int, width int, height int) (p life.Position, ok bool) {
	if px < 0 || py < 0 || cellW <= 0 || cellH <= 0 {
		return life.Position{}, false
	}
	p = life.Position{X: px / cellW, Y: py / cellH}
	return p, p.X < width && p.Y < height
}

//CellRect returns the screen rectangle of the cell at p
func CellRect(p life.Position, cellW int, cellH int) image.Rectangle {
	return image.Rect(p.X*cellW, p.Y*cellH, (p.X+1)*cellW, (p.Y+1)*cellH)
}

func CellColor(s life.State) color.Color {
	if s == life.Alive {
		return AliveColor
	}
	return DeadColor
}

//paintCells calls fill with the rectangle and colour of every cell of the grid
func paintCells(g *life.Grid, cellSize int, fill func(r image.Rectangle, c color.Color)) {
	g.Walk(func(c life.Cell) {
		fill(CellRect(c.Pos, cellSize, cellSize), CellColor(c.State))
	})
}

//renderField builds the text of the field for a view of maxW x maxH characters
//rows that don't fit are cut and the last visible line shows the crop message
func renderField(s life.Snapshot, live string, dead string, crop string, maxW int, maxH int) string {
	var b bytes.Buffer

	cropped := s.Width*termCellWidth > maxW || s.Height*termCellHeight > maxH
	for y := 0; y < s.Height; y++ {
		//discard the data outside the view area
		if y >= maxH {
			break
		}
		//line feed char
		if y != 0 {
			b.WriteByte('\n')
		}
		if cropped && y == maxH-1 {
			b.WriteString(crop)
			break
		}
		for x, e := range s.Row(y) {
			if (x+1)*termCellWidth > maxW {
				break
			}
			if e == life.Alive {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
	}
	return b.String()
}
