package viz

import (
	"math"

	"github.com/san-kum/lorenzviz/internal/analysis"
	"github.com/san-kum/lorenzviz/internal/dynamo"
)

type Vec3 struct {
	X, Y, Z float64
}

// Vec3 methods.
func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Camera orbits the origin. Pitch tilts about the screen's horizontal axis,
// Yaw spins about the vertical one.
type Camera struct {
	Pitch, Yaw float64
	Distance   float64
	Zoom       float64
}

func NewCamera(pitch, yaw float64) *Camera {
	return &Camera{Pitch: pitch, Yaw: yaw, Distance: 4, Zoom: 1}
}

func (c *Camera) Orbit(d float64) { c.Yaw = math.Mod(c.Yaw+d, 2*math.Pi) }
func (c *Camera) ZoomIn()         { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()        { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint applies yaw then pitch.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.Pitch), math.Sin(c.Pitch)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// ProjectPlane maps a point onto the image plane with perspective. The
// result is roughly in [-1, 1] for points inside the unit cube. ok is false
// for points behind the camera.
func (c *Camera) ProjectPlane(p Vec3) (x, y, depth float64, ok bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	dist := c.Distance
	if dist <= 0 {
		dist = 4
	}
	if rot.Z >= dist-0.1 {
		return 0, 0, rot.Z, false
	}
	scale := dist / (dist - rot.Z)
	return rot.X * scale, rot.Y * scale, rot.Z, true
}

// Project converts a point to pixel coordinates on a sw x sh surface with
// y growing downward.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, bool) {
	px, py, _, ok := c.ProjectPlane(p)
	if !ok {
		return 0, 0, false
	}
	half := float64(min(sw, sh)) / 2.6
	sx := int(px*half) + sw/2
	sy := int(-py*half) + sh/2
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// FitTrajectory centers a Lorenz trajectory on the origin and scales its
// bounding box into [-1, 1]. The z component becomes the vertical axis.
func FitTrajectory(tr *dynamo.Trajectory) []Vec3 {
	if tr.Len() == 0 {
		return nil
	}
	ext := analysis.ComputeExtents(tr)
	center := ext.Center()
	scale := 1.0
	if size := ext.Size(); size > 0 {
		scale = 2 / size
	}

	pts := make([]Vec3, tr.Len())
	for i, p := range tr.Points {
		pts[i] = Vec3{
			X: (p[0] - center[0]) * scale,
			Y: (p[2] - center[2]) * scale,
			Z: (p[1] - center[1]) * scale,
		}
	}
	return pts
}

// DrawPolyline projects pts and joins consecutive visible points.
func DrawPolyline(c *Canvas, pts []Vec3, cam *Camera) {
	if c == nil || cam == nil || len(pts) == 0 {
		return
	}
	sw, sh := c.Pixels()
	px, py, pv := cam.Project(pts[0], sw, sh)
	if len(pts) == 1 && pv {
		c.Set(px, py)
	}
	for _, p := range pts[1:] {
		x, y, v := cam.Project(p, sw, sh)
		if v && pv {
			c.DrawLine(px, py, x, y)
		}
		px, py, pv = x, y, v
	}
}
