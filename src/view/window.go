//go:build ebiten

package view

import (
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"

	"lifegrid/src/life"
	"lifegrid/src/universe"
)

//Window adapts a life.Grid to the ebiten.Game interface
//ebiten calls Update and Draw from one goroutine, so the grid is used without locking
type Window struct {
	grid     *life.Grid
	cadence  *universe.Cadence
	cellSize int
}

func NewWindow(g *life.Grid, cellSize int, interval time.Duration) *Window {
	return &Window{grid: g, cadence: universe.NewCadence(interval), cellSize: cellSize}
}

//Update handles the input and advances the grid when the cadence is due
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if w.grid.ToggleRunning() {
			w.cadence.Reset()
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		px, py := ebiten.CursorPosition()
		if p, ok := PixelToCell(px, py, w.cellSize, w.cellSize, w.grid.Width(), w.grid.Height()); ok {
			_ = w.grid.Toggle(p.X, p.Y)
		}
	}
	if w.grid.Running() && w.cadence.Due(time.Now()) {
		if _, err := w.grid.Advance(); err != nil {
			return err
		}
	}
	return nil
}

//Draw paints every cell as a filled rectangle
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(DeadColor)
	paintCells(w.grid, w.cellSize, func(r image.Rectangle, c color.Color) {
		if c == DeadColor {
			return
		}
		vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
	})
}

//Layout returns the logical screen size
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.grid.Width() * w.cellSize, w.grid.Height() * w.cellSize
}

//RunWindow opens the window and blocks until it is closed
func RunWindow(g *life.Grid, cellSize int, interval time.Duration) error {
	w := NewWindow(g, cellSize, interval)
	ebiten.SetWindowTitle("Game of Life!")
	ebiten.SetWindowSize(g.Width()*cellSize, g.Height()*cellSize)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
