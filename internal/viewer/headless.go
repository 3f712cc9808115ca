package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"acupoint-viewer/internal/config"
	"acupoint-viewer/internal/lasso"
	"acupoint-viewer/internal/loader"
	"acupoint-viewer/internal/picking"
	"acupoint-viewer/internal/scene"
)

// ParsePoints parses pixel samples written as "x,y x,y ..." (spaces or semicolons between points).
func ParsePoints(s string) ([]lasso.Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ';' || r == '\n' || r == '\t' })
	pts := make([]lasso.Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("viewer: point %q: want x,y", f)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
		if err != nil {
			return nil, fmt.Errorf("viewer: point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 32)
		if err != nil {
			return nil, fmt.Errorf("viewer: point %q: %w", f, err)
		}
		pts = append(pts, lasso.Point{X: float32(x), Y: float32(y)})
	}
	return pts, nil
}

// Pick loads the configured model and runs one lasso gesture through the software picking
// target, without a window. The first point is the press, the rest are drag samples.
func Pick(ctx context.Context, prefs config.Prefs, pts []lasso.Point, log *slog.Logger) ([]*scene.Landmark, error) {
	if len(pts) < 1+lasso.MinPoints {
		return nil, fmt.Errorf("viewer: a lasso needs at least %d points", 1+lasso.MinPoints)
	}
	root, err := loader.New(prefs.Model.RotateY, log).Load(ctx, prefs.Model.Source)
	if err != nil {
		return nil, err
	}
	c := New(prefs, picking.SoftAllocator, log)
	defer c.Close()
	c.SetModel(root)
	c.OnPress(pts[0])
	for _, p := range pts[1:] {
		c.OnMove(p, true)
	}
	c.OnRelease()
	if err := c.Update(); err != nil {
		return nil, err
	}
	return c.Selected(), nil
}
