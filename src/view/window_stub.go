//go:build !ebiten

package view

import (
	"time"

	"github.com/pkg/errors"

	"lifegrid/src/life"
)

var ErrNoWindow = errors.New("window mode requires building with the 'ebiten' tag")

//RunWindow reports that the binary was built without window support
func RunWindow(*life.Grid, int, time.Duration) error {
	return ErrNoWindow
}
