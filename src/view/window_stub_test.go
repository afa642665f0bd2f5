//go:build !ebiten

package view

import (
	"testing"

	"github.com/pkg/errors"

	"lifegrid/src/life"
	"lifegrid/src/universe"
)

func TestRunWindowWithoutTag(t *testing.T) {
	g, _ := life.New(20, 20)
	if err := RunWindow(g, 32, universe.DefSimulationInterval); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("err = %v, want ErrNoWindow", err)
	}
}
