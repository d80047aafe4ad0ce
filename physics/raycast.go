package physics

import "github.com/jakecoffman/cp"

type RayHit struct {
	Body   Handle
	Point  cp.Vector
	Normal cp.Vector
	// Alpha is the hit's fraction of the way from the ray start to its end.
	Alpha float64
}

// Raycast returns the first non-sensor collider along from→to whose category
// is in mask.
func (w *World) Raycast(from, to cp.Vector, mask Category) (RayHit, bool) {
	if !finiteVec(from) || !finiteVec(to) {
		return RayHit{}, false
	}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
	info := w.space.SegmentQueryFirst(from, to, 0, filter)
	if info.Shape == nil {
		return RayHit{}, false
	}
	h, _ := info.Shape.UserData.(Handle)
	return RayHit{Body: h, Point: info.Point, Normal: info.Normal, Alpha: info.Alpha}, true
}
