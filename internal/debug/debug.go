package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh FPS text every N frames to reduce allocations.
	updateInterval = 30
	// loadingLinger is how long the progress line stays after a load completes.
	loadingLinger = time.Second
	logTail       = 4
)

// Status is what the overlay shows for one frame.
type Status struct {
	LoadFraction float32 // -1 when the total size is unknown
	Loading      bool
	LoadedAt     time.Time
	Selected     []string
	Log          []string // recent log lines, oldest first
}

// Overlay draws the FPS counter (top-right), the model loading indicator and the current
// selection (top-left).
type Overlay struct {
	ShowFPS     bool
	font        rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	frameCount  uint32
	lastFpsText string
	now         func() time.Time
}

// New returns an overlay; the FPS counter is hidden unless showFPS is set.
func New(showFPS bool) *Overlay {
	return &Overlay{ShowFPS: showFPS, now: time.Now}
}

// SetFont sets the overlay font. Zero texture ID = use raylib default.
func (o *Overlay) SetFont(font rl.Font) {
	o.font = font
}

// FontDirs are searched for an overlay font, relative to the working directory.
var FontDirs = []string{"assets/fonts", "../../assets/fonts"}

// FindFont returns the first .ttf or .otf file under dirs, preferring names containing
// "Regular" (case-insensitive), or "" when there is none.
func FindFont(dirs ...string) string {
	for _, dir := range dirs {
		var regular, other []string
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}
			if strings.Contains(strings.ToLower(d.Name()), "regular") {
				regular = append(regular, path)
			} else {
				other = append(other, path)
			}
			return nil
		})
		if len(regular) > 0 {
			return regular[0]
		}
		if len(other) > 0 {
			return other[0]
		}
	}
	return ""
}

// LoadingText returns the progress line, or "" once the indicator should be gone.
func (o *Overlay) LoadingText(s Status) string {
	if !s.Loading && (s.LoadedAt.IsZero() || o.now().Sub(s.LoadedAt) > loadingLinger) {
		return ""
	}
	if s.LoadFraction < 0 {
		return "Loading model..."
	}
	return fmt.Sprintf("Loading model: %.0f%%", s.LoadFraction*100)
}

// SelectionText returns the selection summary line.
func SelectionText(names []string) string {
	switch len(names) {
	case 0:
		return "Drag with the left button to select acupoints"
	case 1:
		return "Selected: " + names[0]
	}
	const shown = 6
	if len(names) <= shown {
		return fmt.Sprintf("Selected %d: %v", len(names), names)
	}
	return fmt.Sprintf("Selected %d: %v ...", len(names), names[:shown])
}

// Draw renders the overlay. Call after the 3D view in the draw loop.
func (o *Overlay) Draw(s Status) {
	o.frameCount++
	if o.ShowFPS && (o.frameCount%updateInterval == 0 || o.lastFpsText == "") {
		o.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
	}
	if o.ShowFPS {
		w := o.measure(o.lastFpsText)
		o.text(o.lastFpsText, int32(rl.GetScreenWidth())-w-padding, padding, rl.Green)
	}

	y := int32(padding)
	if text := o.LoadingText(s); text != "" {
		o.text(text, padding, y, rl.RayWhite)
		y += lineHeight
	}
	o.text(SelectionText(s.Selected), padding, y, rl.Yellow)

	tail := Tail(s.Log, logTail)
	y = int32(rl.GetScreenHeight()) - padding - int32(len(tail))*lineHeight
	for _, line := range tail {
		o.text(line, padding, y, rl.LightGray)
		y += lineHeight
	}
}

// Tail returns at most the last n lines.
func Tail(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

func (o *Overlay) measure(text string) int32 {
	if o.font.Texture.ID != 0 {
		return int32(rl.MeasureTextEx(o.font, text, fontSize, 1).X)
	}
	return rl.MeasureText(text, fontSize)
}

func (o *Overlay) text(text string, x, y int32, c rl.Color) {
	if o.font.Texture.ID != 0 {
		rl.DrawTextEx(o.font, text, rl.NewVector2(float32(x), float32(y)), fontSize, 1, c)
		return
	}
	rl.DrawText(text, x, y, fontSize, c)
}
