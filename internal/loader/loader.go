package loader

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"sync/atomic"

	"acupoint-viewer/internal/download"
	"acupoint-viewer/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCacheDir holds downloaded models.
const DefaultCacheDir = "assets/models"

var (
	modelColor = color.RGBA{R: 0xe0, G: 0xc0, B: 0xa8, A: 0xff}
	pointColor = color.RGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}
)

// Result is the outcome of a load job.
type Result struct {
	Source string
	Root   *scene.Node
	Err    error
}

// Job is a model load running on its own goroutine. Progress may be polled from the
// frame loop; the result arrives exactly once on Done.
type Job struct {
	loaded atomic.Int64
	total  atomic.Int64
	done   chan Result
}

// Progress returns bytes loaded and the expected total (-1 while unknown).
func (j *Job) Progress() (loaded, total int64) {
	return j.loaded.Load(), j.total.Load()
}

// Fraction returns progress in [0,1], or -1 when the total is unknown.
func (j *Job) Fraction() float32 {
	l, t := j.Progress()
	if t <= 0 {
		return -1
	}
	if l >= t {
		return 1
	}
	return float32(l) / float32(t)
}

// Done delivers the load result.
func (j *Job) Done() <-chan Result { return j.done }

func (j *Job) report(loaded, total int64) {
	j.loaded.Store(loaded)
	j.total.Store(total)
}

// Loader opens model sources: a local .obj/.zip path, an http(s) URL, or "" for the
// built-in demo hand. The loaded root is rotated RotateY degrees about +Y.
type Loader struct {
	Client   *download.Client
	CacheDir string
	RotateY  float32
	log      *slog.Logger
}

// New returns a loader caching downloads under DefaultCacheDir.
func New(rotateY float32, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{Client: download.New(), CacheDir: DefaultCacheDir, RotateY: rotateY, log: log}
}

// Start begins loading src in the background.
func (l *Loader) Start(ctx context.Context, src string) *Job {
	j := &Job{done: make(chan Result, 1)}
	j.total.Store(-1)
	go func() {
		root, err := l.load(ctx, src, j)
		if err != nil {
			l.log.Error("model load failed", "source", src, "err", err)
		} else {
			l.log.Info("model loaded", "source", src, "meshes", len(root.Children()))
		}
		j.done <- Result{Source: src, Root: root, Err: err}
	}()
	return j
}

// Load loads src synchronously.
func (l *Loader) Load(ctx context.Context, src string) (*scene.Node, error) {
	return l.load(ctx, src, &Job{})
}

func (l *Loader) load(ctx context.Context, src string, j *Job) (*scene.Node, error) {
	var (
		root *scene.Node
		err  error
	)
	switch {
	case src == "":
		root = DemoHand()
		j.report(1, 1)
	case download.IsURL(src):
		var p string
		p, err = l.Client.Fetch(ctx, src, l.CacheDir, j.report)
		if err != nil {
			return nil, err
		}
		root, err = ReadFile(p)
	default:
		info, serr := os.Stat(src)
		if serr != nil {
			return nil, fmt.Errorf("loader: %w", serr)
		}
		root, err = ReadFile(src)
		if err == nil {
			j.report(info.Size(), info.Size())
		}
	}
	if err != nil {
		return nil, err
	}
	if l.RotateY != 0 {
		root.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(l.RotateY), mgl32.Vec3{0, 1, 0})
	}
	return root, nil
}
