package viewer

import (
	"fmt"
	"log/slog"
	"time"

	"acupoint-viewer/internal/config"
	"acupoint-viewer/internal/lasso"
	"acupoint-viewer/internal/loader"
	"acupoint-viewer/internal/mask"
	"acupoint-viewer/internal/picking"
	"acupoint-viewer/internal/scene"
	"acupoint-viewer/internal/selection"

	"github.com/go-gl/mathgl/mgl32"
)

// Controller owns the viewer state: the visible scene and its camera, the lasso gesture,
// the mask and picking pass, and the highlighted selection. Input handlers only record
// state; Update does the frame's work.
type Controller struct {
	prefs config.Prefs
	log   *slog.Logger

	root      *scene.Node
	camera    *scene.Camera
	model     *scene.Node
	landmarks *scene.Landmarks

	tracker   *lasso.Tracker
	masks     *mask.Builder
	anchor    mask.Anchor
	pick      *picking.Scene
	pass      *picking.Pass
	highlight *selection.Highlighter
	viewport  lasso.Viewport

	preview []mgl32.Vec3
	pending lasso.Polyline

	job       *loader.Job
	jobSource string
	jobDoneAt time.Time

	GridVisible bool
	// Evict, when set, receives each subtree SetModel drops: the previous model and its
	// picking mirror.
	Evict func(root *scene.Node)
}

// New returns a controller for prefs. alloc creates picking targets and is called lazily
// from Update.
func New(prefs config.Prefs, alloc picking.Allocator, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	vp := lasso.Viewport{Width: prefs.Window.Width, Height: prefs.Window.Height}
	cam := scene.NewPerspective(prefs.Camera.FovY, 1, prefs.Camera.Near, prefs.Camera.Far)
	cam.Position = mgl32.Vec3(prefs.Camera.Position)
	cam.SetViewport(prefs.Window.Width, prefs.Window.Height)

	tracker := lasso.New(vp)
	tracker.JitterPx = prefs.Lasso.JitterPx
	tracker.CollinearDot = prefs.Lasso.CollinearDot

	anchor := mask.Anchor{Depth: prefs.Picking.MaskDepth}
	c := &Controller{
		prefs:       prefs,
		log:         log,
		root:        scene.NewGroup("Scene"),
		camera:      cam,
		tracker:     tracker,
		masks:       mask.NewBuilder(log),
		anchor:      anchor,
		pick:        picking.NewScene(cam, anchor),
		pass:        picking.NewPass(alloc, log),
		highlight:   selection.NewHighlighter("Highlights"),
		viewport:    vp,
		GridVisible: prefs.GridVisible,
	}
	c.root.Add(c.highlight.Node())
	return c
}

// Root returns the visible scene graph.
func (c *Controller) Root() *scene.Node { return c.root }

// Camera returns the main camera.
func (c *Controller) Camera() *scene.Camera { return c.camera }

// Landmarks returns the ID mapping of the current model.
func (c *Controller) Landmarks() *scene.Landmarks { return c.landmarks }

// Highlights returns the marker container.
func (c *Controller) Highlights() *scene.Node { return c.highlight.Node() }

// Selected returns the landmarks of the last resolved gesture.
func (c *Controller) Selected() []*scene.Landmark { return c.highlight.Selected() }

// Viewport returns the current pixel size.
func (c *Controller) Viewport() lasso.Viewport { return c.viewport }

// SetModel replaces the displayed model, reassigns landmark IDs and rebuilds the picking
// mirror. The previous selection is cleared and the replaced subtrees go to Evict.
func (c *Controller) SetModel(root *scene.Node) {
	oldModel, oldMirror := c.model, c.pick.Root
	if oldModel != nil {
		c.root.Remove(oldModel)
	}
	c.model = root
	c.root.Add(root)
	c.landmarks = scene.AssignLandmarks(root, c.prefs.Matcher())
	c.pick.SetModel(root, c.landmarks)
	c.highlight.Rebuild(nil)
	c.log.Info("model ready", "name", root.Name, "landmarks", c.landmarks.Len())
	if c.Evict != nil {
		for _, n := range []*scene.Node{oldModel, oldMirror} {
			if n != nil {
				c.Evict(n)
			}
		}
	}
}

// Watch attaches a running load; Update installs its model when it completes.
func (c *Controller) Watch(job *loader.Job, source string) {
	c.job = job
	c.jobSource = source
	c.jobDoneAt = time.Time{}
}

// Loading reports the attached load's progress fraction (-1 when unknown) and whether a
// load is still running.
func (c *Controller) Loading() (fraction float32, running bool) {
	if c.job == nil {
		return 0, false
	}
	return c.job.Fraction(), c.jobDoneAt.IsZero()
}

// LoadFinishedAt returns when the last load completed, or the zero time.
func (c *Controller) LoadFinishedAt() time.Time { return c.jobDoneAt }

// Resize updates the viewport used for NDC conversion, the camera aspect and, on the next
// pass, the picking target size.
func (c *Controller) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.viewport = lasso.Viewport{Width: w, Height: h}
	c.tracker.SetViewport(c.viewport)
	c.camera.SetViewport(w, h)
}

// OnPress starts a lasso gesture.
func (c *Controller) OnPress(p lasso.Point) {
	c.tracker.Begin(p)
}

// OnMove feeds a pointer sample. Samples without the primary button held are ignored.
func (c *Controller) OnMove(p lasso.Point, pressed bool) {
	if !pressed {
		return
	}
	c.tracker.Extend(p)
}

// OnRelease ends the gesture. The selection is resolved on the next Update when the
// polyline has enough points.
func (c *Controller) OnRelease() {
	if !c.tracker.Active() {
		return
	}
	if line, ok := c.tracker.End(); ok {
		c.pending = line
	}
}

// Orbit rotates the main camera; yaw and pitch are in radians.
func (c *Controller) Orbit(yaw, pitch float32) {
	c.camera.Orbit(yaw, pitch)
}

// Zoom dollies the main camera, never closer than the configured minimum distance.
func (c *Controller) Zoom(factor float32) {
	c.camera.Zoom(factor, c.prefs.Camera.MinDistance)
}

// Drawing reports whether a gesture is in progress.
func (c *Controller) Drawing() bool { return c.tracker.Active() }

// Preview returns the closed lasso outline in world space on the anchored plane, or nil
// when no preview is shown.
func (c *Controller) Preview() []mgl32.Vec3 {
	if !c.tracker.Visible() {
		return nil
	}
	return c.preview
}

// Update runs once per frame: it installs a finished model load, refreshes the preview
// and, after a completed gesture, resolves the selection. A picking failure is returned
// and leaves the highlights as they were.
func (c *Controller) Update() error {
	c.pollJob()
	if c.tracker.TakeDirty() || c.tracker.Visible() {
		c.refreshPreview()
	}
	if c.pending == nil {
		return nil
	}
	line := c.pending
	c.pending = nil
	return c.resolve(line)
}

func (c *Controller) pollJob() {
	if c.job == nil || !c.jobDoneAt.IsZero() {
		return
	}
	select {
	case r := <-c.job.Done():
		c.jobDoneAt = time.Now()
		if r.Err != nil {
			c.log.Warn("keeping previous model", "source", c.jobSource, "err", r.Err)
			return
		}
		c.SetModel(r.Root)
	default:
	}
}

// refreshPreview places the polyline on the anchored plane of the current camera pose so
// the outline stays fixed on screen while the camera moves.
func (c *Controller) refreshPreview() {
	line := c.tracker.Preview()
	c.preview = c.preview[:0]
	for _, p := range line {
		c.preview = append(c.preview, c.anchor.ToWorld(c.camera, p))
	}
}

func (c *Controller) resolve(line lasso.Polyline) error {
	if c.landmarks.Len() == 0 {
		c.highlight.Rebuild(nil)
		return nil
	}
	start := time.Now()
	c.pick.Mask = c.masks.Rebuild(line)
	c.pick.SyncCamera(c.camera)
	pixels, err := c.pass.Run(c.pick, c.viewport.Width, c.viewport.Height)
	if err != nil {
		c.log.Error("selection failed", "err", err)
		return fmt.Errorf("viewer: resolve selection: %w", err)
	}
	ids := selection.CollectIDs(pixels)
	selected := selection.Resolve(ids, c.landmarks)
	c.highlight.Rebuild(selected)
	c.log.Info("selection resolved", "points", len(line), "ids", ids, "elapsed", time.Since(start))
	return nil
}

// Close releases the mask and the picking target.
func (c *Controller) Close() {
	c.masks.Release()
	c.pick.Mask = nil
	c.pass.Release()
}
