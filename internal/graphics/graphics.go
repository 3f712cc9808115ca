package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window is the initial window geometry.
type Window struct {
	Width  int
	Height int
	Title  string
}

// Run opens a resizable window and runs the main loop until it is closed. Each frame it
// calls update (input, picking), then clears to background and calls draw.
// start runs once after the OpenGL context exists; shutdown runs before the window closes.
func Run(w Window, background rl.Color, start, update, draw, shutdown func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	if start != nil {
		start()
	}
	if shutdown != nil {
		defer shutdown()
	}

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(background)
		draw()
		rl.EndDrawing()
	}
}
