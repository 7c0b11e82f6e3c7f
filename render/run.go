package render

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/canopy"
)

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Background fills the screen before each frame. Zero means black.
	Background canopy.Color
	ShowFPS    bool
	// ShowIndex overlays the spatial-index node rectangles.
	ShowIndex bool
	// ZoomStep is the camera zoom factor per wheel notch. Zero means 1.1.
	ZoomStep float64
	// Update, if set, runs once per tick before the canvas is updated.
	// Returning an error stops the game loop.
	Update func() error
	// Script, if set, replays synthetic pointer input. A tick that delivers
	// a scripted event ignores the real mouse.
	Script *canopy.InputScript
}

// Run opens a window and drives c until the window closes or
// RunConfig.Update returns an error.
//
// Each tick it runs cfg.Update, advances the camera, feeds scripted or real
// pointer input to the canvas, then calls Canvas.Update. Resizing the window
// resizes the canvas screen.
func Run(c *canopy.Canvas, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	c.SetScreenSize(canopy.Vec2{X: float64(cfg.Width), Y: float64(cfg.Height)})

	g := newGame(c, cfg)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("render: run: %w", err)
	}
	return nil
}

// inputFrame is one tick's worth of polled mouse state.
type inputFrame struct {
	cursor  canopy.Vec2
	pressed [3]bool // indexed like pollButtons
	wheel   float64
}

var pollButtons = [3]struct {
	button canopy.MouseButton
	source ebiten.MouseButton
}{
	{canopy.MouseButtonLeft, ebiten.MouseButtonLeft},
	{canopy.MouseButtonMiddle, ebiten.MouseButtonMiddle},
	{canopy.MouseButtonRight, ebiten.MouseButtonRight},
}

type game struct {
	canvas   *canopy.Canvas
	renderer *Renderer
	cfg      RunConfig

	last   inputFrame
	seen   bool
	width  int
	height int
}

func newGame(c *canopy.Canvas, cfg RunConfig) *game {
	if cfg.ZoomStep <= 0 {
		cfg.ZoomStep = 1.1
	}
	return &game{
		canvas:   c,
		renderer: &Renderer{ShowIndex: cfg.ShowIndex},
		cfg:      cfg,
		width:    cfg.Width,
		height:   cfg.Height,
	}
}

func (g *game) Update() error {
	if g.cfg.Update != nil {
		if err := g.cfg.Update(); err != nil {
			return err
		}
	}
	g.canvas.Camera().Update(float32(1 / float64(ebiten.TPS())))
	if g.cfg.Script == nil || !g.cfg.Script.Step(g.canvas) {
		g.applyInput(pollInput())
	}
	g.canvas.Update()
	return nil
}

func pollInput() inputFrame {
	var f inputFrame
	x, y := ebiten.CursorPosition()
	f.cursor = canopy.Vec2{X: float64(x), Y: float64(y)}
	for i, b := range pollButtons {
		f.pressed[i] = ebiten.IsMouseButtonPressed(b.source)
	}
	_, f.wheel = ebiten.Wheel()
	return f
}

// applyInput turns the difference between f and the previous frame into
// canvas pointer calls. A stationary cursor still re-resolves the hover so
// objects moving under it get enter and leave events.
func (g *game) applyInput(f inputFrame) {
	if !g.seen || f.cursor != g.last.cursor {
		g.canvas.PointerMove(f.cursor)
	} else {
		g.canvas.RefreshHover()
	}
	for i, b := range pollButtons {
		switch {
		case f.pressed[i] && !g.last.pressed[i]:
			g.canvas.PointerDown(f.cursor, b.button)
		case !f.pressed[i] && g.last.pressed[i]:
			g.canvas.PointerUp(f.cursor, b.button)
		}
	}
	if f.wheel != 0 {
		g.canvas.Camera().Zoom(math.Pow(g.cfg.ZoomStep, f.wheel))
	}
	g.last = f
	g.seen = true
}

func (g *game) Draw(screen *ebiten.Image) {
	bg := g.cfg.Background
	if bg == (canopy.Color{}) {
		bg = canopy.ColorBlack
	}
	screen.Fill(toRGBA(bg))
	g.renderer.Draw(screen, g.canvas)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nVisible: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), len(g.canvas.Visible())))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.canvas.SetScreenSize(canopy.Vec2{X: float64(outsideWidth), Y: float64(outsideHeight)})
	}
	return outsideWidth, outsideHeight
}

var _ ebiten.Game = (*game)(nil)
