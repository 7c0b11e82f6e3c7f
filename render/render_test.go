package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/phanxgames/canopy"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func newTestCanvas() *canopy.Canvas {
	return canopy.NewCanvas(canopy.CanvasConfig{ScreenSize: canopy.Vec2{X: 800, Y: 600}})
}

// --- Polygon fan ---

func TestBuildPolygonFanCounts(t *testing.T) {
	pts := []canopy.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 12, Y: 8}, {X: 5, Y: 12}, {X: -2, Y: 8}}
	verts, inds := buildPolygonFan(nil, nil, pts, nil, canopy.ColorWhite)
	if len(verts) != 5 {
		t.Errorf("len(verts) = %d, want 5", len(verts))
	}
	want := []uint16{0, 1, 2, 0, 2, 3, 0, 3, 4}
	if len(inds) != len(want) {
		t.Fatalf("len(inds) = %d, want %d", len(inds), len(want))
	}
	for i := range want {
		if inds[i] != want[i] {
			t.Errorf("inds[%d] = %d, want %d", i, inds[i], want[i])
		}
	}
}

func TestBuildPolygonFanUntexturedSamplesPixelCenter(t *testing.T) {
	pts := []canopy.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	c := canopy.Color{R: 0.2, G: 0.4, B: 0.6, A: 0.8}
	verts, _ := buildPolygonFan(nil, nil, pts, nil, c)
	for i, v := range verts {
		if v.SrcX != 0.5 || v.SrcY != 0.5 {
			t.Errorf("vert[%d] src = (%v,%v), want (0.5,0.5)", i, v.SrcX, v.SrcY)
		}
		if v.ColorR != float32(c.R) || v.ColorA != float32(c.A) {
			t.Errorf("vert[%d] color = %v,%v", i, v.ColorR, v.ColorA)
		}
		if v.DstX != float32(pts[i].X) || v.DstY != float32(pts[i].Y) {
			t.Errorf("vert[%d] dst = (%v,%v), want %v", i, v.DstX, v.DstY, pts[i])
		}
	}
}

func TestBuildPolygonFanDegenerate(t *testing.T) {
	verts, inds := buildPolygonFan(nil, nil, []canopy.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}, nil, canopy.ColorWhite)
	if len(verts) != 0 || len(inds) != 0 {
		t.Errorf("two points produced %d verts, %d inds", len(verts), len(inds))
	}
}

func TestBuildPolygonFanReusesBuffers(t *testing.T) {
	tri := []canopy.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	verts, inds := buildPolygonFan(nil, nil, tri, nil, canopy.ColorWhite)
	verts, inds = buildPolygonFan(verts[:0], inds[:0], tri, nil, canopy.ColorWhite)
	if len(verts) != 3 || len(inds) != 3 {
		t.Errorf("rebuilt fan has %d verts, %d inds", len(verts), len(inds))
	}
}

// --- Texture coordinates ---

func TestTextureCoordsFollowLocalSpace(t *testing.T) {
	c := newTestCanvas()
	o := canopy.NewRectangle("tex", 10, 10)
	o.SetRotation(math.Pi / 2)
	c.Add(o)
	c.Update()

	uvs := textureCoords(nil, o.ViewVertices(), o, 64, 32)
	want := []canopy.Vec2{{X: 0, Y: 0}, {X: 64, Y: 0}, {X: 64, Y: 32}, {X: 0, Y: 32}}
	if len(uvs) != len(want) {
		t.Fatalf("len(uvs) = %d, want %d", len(uvs), len(want))
	}
	for i := range want {
		if !approxEqual(uvs[i].X, want[i].X, 1e-6) || !approxEqual(uvs[i].Y, want[i].Y, 1e-6) {
			t.Errorf("uv[%d] = %v, want %v", i, uvs[i], want[i])
		}
	}
}

func TestTextureCoordsWithoutView(t *testing.T) {
	o := canopy.NewRectangle("tex", 10, 10)
	if uvs := textureCoords(nil, o.Vertices(), o, 8, 8); uvs != nil {
		t.Errorf("uvs = %v, want nil before ApplyView", uvs)
	}
}

// --- Colors ---

func TestToRGBAPremultiplies(t *testing.T) {
	got := toRGBA(canopy.Color{R: 1, G: 0.5, B: 0, A: 0.5})
	want := color.RGBA{R: 127, G: 63, B: 0, A: 127}
	if got != want {
		t.Errorf("toRGBA = %v, want %v", got, want)
	}
}

func TestToRGBAClamps(t *testing.T) {
	got := toRGBA(canopy.Color{R: 2, G: -1, B: 0.5, A: 1})
	if got.R != 255 || got.G != 0 || got.A != 255 {
		t.Errorf("toRGBA = %v", got)
	}
}

// --- Input feed ---

func TestApplyInputDrivesCanvas(t *testing.T) {
	c := newTestCanvas()
	o := canopy.NewRectangle("o", 100, 100)
	c.Add(o)
	var events []string
	o.OnPointerEnter = func(canopy.PointerContext) { events = append(events, "enter") }
	o.OnPointerLeave = func(canopy.PointerContext) { events = append(events, "leave") }
	o.OnPointerDown = func(ctx canopy.PointerContext) {
		if ctx.Button != canopy.MouseButtonRight {
			t.Errorf("down button = %v, want right", ctx.Button)
		}
		events = append(events, "down")
	}
	o.OnPointerUp = func(canopy.PointerContext) { events = append(events, "up") }

	g := newGame(c, RunConfig{})
	center := canopy.Vec2{X: 400, Y: 300}
	g.applyInput(inputFrame{cursor: center})
	g.applyInput(inputFrame{cursor: center, pressed: [3]bool{false, false, true}})
	g.applyInput(inputFrame{cursor: center, pressed: [3]bool{false, false, true}})
	g.applyInput(inputFrame{cursor: center})
	g.applyInput(inputFrame{cursor: canopy.Vec2{X: 10, Y: 10}})

	want := []string{"enter", "down", "up", "leave"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, events[i], want[i])
		}
	}
}

func TestApplyInputStationaryCursorRefreshesHover(t *testing.T) {
	c := newTestCanvas()
	o := canopy.NewRectangle("o", 100, 100)
	c.Add(o)
	g := newGame(c, RunConfig{})
	center := canopy.Vec2{X: 400, Y: 300}

	g.applyInput(inputFrame{cursor: center})
	if c.Hovered() != o {
		t.Fatal("object not hovered")
	}
	c.Camera().SetLookAt(canopy.Vec2{X: 1000, Y: 0})
	g.applyInput(inputFrame{cursor: center})
	if c.Hovered() != nil {
		t.Error("hover not refreshed after the camera moved")
	}
}

func TestApplyInputWheelZooms(t *testing.T) {
	c := newTestCanvas()
	g := newGame(c, RunConfig{ZoomStep: 2})
	g.applyInput(inputFrame{wheel: 1})
	g.applyInput(inputFrame{wheel: -2})
	if s := c.Camera().Scale(); !approxEqual(s.X, 0.5, 1e-9) || !approxEqual(s.Y, 0.5, 1e-9) {
		t.Errorf("Scale = %v, want (0.5,0.5)", s)
	}
}

func TestNewGameDefaults(t *testing.T) {
	g := newGame(newTestCanvas(), RunConfig{ShowIndex: true})
	if g.cfg.ZoomStep != 1.1 {
		t.Errorf("ZoomStep = %v, want 1.1", g.cfg.ZoomStep)
	}
	if !g.renderer.ShowIndex {
		t.Error("ShowIndex not passed to the renderer")
	}
}

func TestLayoutResizesCanvas(t *testing.T) {
	c := newTestCanvas()
	g := newGame(c, RunConfig{Width: 800, Height: 600})
	w, h := g.Layout(1024, 768)
	if w != 1024 || h != 768 {
		t.Errorf("Layout = %d,%d", w, h)
	}
	if s := c.Camera().ScreenSize(); s != (canopy.Vec2{X: 1024, Y: 768}) {
		t.Errorf("screen size = %v, want 1024x768", s)
	}
}
