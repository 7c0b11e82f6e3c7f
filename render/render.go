// Package render draws a [canopy.Canvas] with Ebitengine and runs it in a
// window.
//
// The core canopy package never touches a graphics API. Renderer reads the
// screen-space geometry a canvas prepares on Update (the visible list and
// each object's view vertices) and turns it into DrawTriangles fans, stroked
// outlines and text. Run wraps a Renderer in an [ebiten.Game] that also
// feeds the cursor into the canvas input dispatch.
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/canopy"
)

var whitePixelImage *ebiten.Image

// whitePixel returns a lazily-initialized 1x1 white image used as the source
// for untextured fills.
func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

// Renderer draws the visible objects of a canvas. The zero value is usable.
// Buffers are reused between frames, so a Renderer must not be shared by
// concurrent draws.
type Renderer struct {
	// Face draws object labels. Nil uses basicfont.Face7x13.
	Face text.Face
	// LabelColor is used for labels with a zero Color. Zero means white.
	LabelColor canopy.Color
	// ShowIndex overlays the canvas's spatial-index node rectangles.
	ShowIndex bool
	// IndexColor is the overlay stroke color. Zero means translucent green.
	IndexColor canopy.Color

	verts []ebiten.Vertex
	inds  []uint16
	uvs   []canopy.Vec2
}

// NewRenderer returns a Renderer with default settings.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Draw renders c onto dst. Visible objects are drawn in insertion order with
// their sub-objects on top of them, each clipped to its owner.
func (r *Renderer) Draw(dst *ebiten.Image, c *canopy.Canvas) {
	for _, o := range c.Visible() {
		r.drawObject(dst, o)
	}
	if r.ShowIndex {
		r.drawIndex(dst, c)
	}
}

func (r *Renderer) drawObject(dst *ebiten.Image, o *canopy.Object) {
	if !o.Visible() || o.IsDisposed() {
		return
	}
	pts := o.ClipVertices()

	if o.Fill && len(pts) >= 3 {
		r.fill(dst, o, pts)
	}
	if o.LineWidth > 0 && o.BorderColor.A > 0 {
		strokePolygon(dst, pts, float32(o.LineWidth), o.BorderColor)
	}
	if len(o.Labels) > 0 {
		r.drawLabels(dst, o)
	}
	for _, ch := range o.Children() {
		r.drawObject(dst, ch)
	}
}

func (r *Renderer) fill(dst *ebiten.Image, o *canopy.Object, pts []canopy.Vec2) {
	src := whitePixel()
	var uvs []canopy.Vec2
	if tex, ok := o.Texture.(*ebiten.Image); ok && tex != nil {
		if r.uvs = textureCoords(r.uvs[:0], pts, o, tex.Bounds().Dx(), tex.Bounds().Dy()); r.uvs != nil {
			src = tex
			uvs = r.uvs
		}
	}
	r.verts, r.inds = buildPolygonFan(r.verts[:0], r.inds[:0], pts, uvs, o.Color)
	if len(r.inds) == 0 {
		return
	}
	dst.DrawTriangles(r.verts, r.inds, src, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	})
}

func (r *Renderer) drawLabels(dst *ebiten.Image, o *canopy.Object) {
	m := o.ViewWorldMatrix()
	if m == nil {
		return
	}
	if r.Face == nil {
		r.Face = text.NewGoXFace(basicfont.Face7x13)
	}
	def := r.LabelColor
	if def == (canopy.Color{}) {
		def = canopy.ColorWhite
	}
	for _, l := range o.Labels {
		p := m.TransformPoint(l.Offset)
		clr := l.Color
		if clr == (canopy.Color{}) {
			clr = def
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(p.X, p.Y)
		op.ColorScale.ScaleWithColor(toRGBA(clr))
		text.Draw(dst, l.Text, r.Face, op)
	}
}

func (r *Renderer) drawIndex(dst *ebiten.Image, c *canopy.Canvas) {
	clr := r.IndexColor
	if clr == (canopy.Color{}) {
		clr = canopy.Color{R: 0.2, G: 1, B: 0.4, A: 0.6}
	}
	cam := c.Camera()
	var quad [4]canopy.Vec2
	for _, rect := range c.IndexRects() {
		for i, p := range rect.Corners() {
			quad[i] = cam.WorldToScreen(p)
		}
		strokePolygon(dst, quad[:], 1, clr)
	}
}

// strokePolygon draws the closed outline of pts.
func strokePolygon(dst *ebiten.Image, pts []canopy.Vec2, width float32, c canopy.Color) {
	if len(pts) < 2 {
		return
	}
	clr := toRGBA(c)
	prev := pts[len(pts)-1]
	for _, p := range pts {
		vector.StrokeLine(dst, float32(prev.X), float32(prev.Y), float32(p.X), float32(p.Y), width, clr, true)
		prev = p
	}
}

// buildPolygonFan appends a fan triangulation of pts to verts and inds: N
// vertices, 3*(N-2) indices, hub at vertex 0. When uvs is nil every vertex
// samples the center of the white pixel.
func buildPolygonFan(verts []ebiten.Vertex, inds []uint16, pts, uvs []canopy.Vec2, c canopy.Color) ([]ebiten.Vertex, []uint16) {
	n := len(pts)
	if n < 3 {
		return verts, inds
	}
	for i, p := range pts {
		v := ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: float32(c.R),
			ColorG: float32(c.G),
			ColorB: float32(c.B),
			ColorA: float32(c.A),
		}
		if uvs != nil {
			v.SrcX = float32(uvs[i].X)
			v.SrcY = float32(uvs[i].Y)
		}
		verts = append(verts, v)
	}
	for i := 0; i < n-2; i++ {
		inds = append(inds, 0, uint16(i+1), uint16(i+2))
	}
	return verts, inds
}

// textureCoords maps screen-space points back into o's local space and
// stretches the texture over the bounding box of o's local vertices, so a
// clipped silhouette samples the same texels it would unclipped. It returns
// nil when the view transform cannot be inverted.
func textureCoords(dst, pts []canopy.Vec2, o *canopy.Object, imgW, imgH int) []canopy.Vec2 {
	m := o.ViewWorldMatrix()
	if m == nil {
		return nil
	}
	inv, err := m.Inverse()
	if err != nil {
		return nil
	}
	bb := canopy.BoundingRect(o.Vertices())
	for _, p := range pts {
		lp := inv.TransformPoint(p)
		var uv canopy.Vec2
		if bb.Width > 0 {
			uv.X = (lp.X - bb.X) / bb.Width * float64(imgW)
		}
		if bb.Height > 0 {
			uv.Y = (lp.Y - bb.Y) / bb.Height * float64(imgH)
		}
		dst = append(dst, uv)
	}
	return dst
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toRGBA converts a straight-alpha canopy color to a premultiplied
// color.RGBA.
func toRGBA(c canopy.Color) color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}
