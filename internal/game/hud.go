package game

import (
	"fmt"
	"log"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUD font; falls back to the raylib default when missing.
var hudFont rl.Font
var hudFontLoaded bool

var (
	colorBgDark        = rl.NewColor(10, 10, 15, 255)
	colorBgPanel       = rl.NewColor(18, 18, 24, 235)
	colorBgElement     = rl.NewColor(28, 28, 38, 255)
	colorBgHover       = rl.NewColor(38, 38, 52, 255)
	colorAccent        = rl.NewColor(108, 99, 255, 255)
	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
	colorTextMuted     = rl.NewColor(119, 119, 119, 255)
	colorDim           = rl.NewColor(0, 0, 0, 140)
)

const maxBallRate = 10

func initRayguiStyle() {
	if !hudFontLoaded {
		hudFontLoaded = true
		hudFont = rl.LoadFontEx("assets/fonts/Outfit-Regular.ttf", 48, nil)
		if hudFont.Texture.ID > 0 {
			rl.SetTextureFilter(hudFont.Texture, rl.FilterBilinear)
			gui.SetFont(hudFont)
			log.Println("Game: loaded Outfit-Regular font")
		} else {
			log.Println("Game: Outfit-Regular font missing, using default")
		}
	}

	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.LINE_COLOR, gui.NewColorPropertyValue(rl.NewColor(40, 40, 55, 255)))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 18)
}

// drawTextEx draws text using the HUD font scaled to the requested size
func drawTextEx(font rl.Font, text string, x, y int32, size float32, color rl.Color) {
	if font.Texture.ID > 0 {
		rl.DrawTextEx(font, text, rl.Vector2{X: float32(x), Y: float32(y)}, size, 0, color)
	} else {
		rl.DrawText(text, x, y, int32(size), color)
	}
}

func measureText(font rl.Font, text string, size float32) int32 {
	if font.Texture.ID > 0 {
		return int32(rl.MeasureTextEx(font, text, size, 0).X)
	}
	return rl.MeasureText(text, int32(size))
}

func (g *Game) DrawUI() {
	m := g.Manager
	ctrl := m.Player()

	drawTextEx(hudFont, fmt.Sprintf("Score %d", m.Score()), 10, 10, 28, colorTextPrimary)
	drawTextEx(hudFont, livesText(m.Lives()), 10, 42, 22, rl.Red)
	drawTextEx(hudFont, fmt.Sprintf("Level %d/%d", m.Level()+1, m.LevelCount()), 10, 68, 20, colorTextSecondary)
	drawTextEx(hudFont, fmt.Sprintf("Jumps %d  %s", ctrl.JumpsRemaining(), ctrl.State()), 10, 92, 20, colorTextSecondary)
	rl.DrawFPS(int32(rl.GetScreenWidth())-90, 10)

	help := "WASD move, Space jump, right-drag or Q/E orbit, click cupcakes, Tab reach, Esc pause"
	drawTextEx(hudFont, help, 10, int32(rl.GetScreenHeight())-26, 16, colorTextMuted)

	if g.toast != "" && rl.GetTime() < g.toastUntil {
		w := measureText(hudFont, g.toast, 24)
		drawTextEx(hudFont, g.toast, (int32(rl.GetScreenWidth())-w)/2, 20, 24, colorTextPrimary)
	}

	if g.DebugMode {
		g.drawDebug()
	}

	switch {
	case m.Won():
		g.drawBanner("You win!", fmt.Sprintf("Final score %d. Press R to play again", m.Score()), rl.Lime)
	case m.Over():
		g.drawBanner("Game over", fmt.Sprintf("Score %d. Press R to restart", m.Score()), rl.Red)
	case m.Paused():
		g.drawPauseMenu()
	}
}

func livesText(n int) string {
	if n <= 0 {
		return "Lives -"
	}
	return "Lives " + strings.Repeat("o", n)
}

func (g *Game) drawDebug() {
	m := g.Manager
	w := m.World()
	body := m.Player().Body()
	y := int32(124)
	line := func(text string) {
		rl.DrawText(text, 10, y, 16, rl.Green)
		y += 20
	}
	if body != nil {
		line(fmt.Sprintf("Pos: (%.2f, %.2f, %.2f)", body.Position.X, body.Position.Y, body.Position.Z))
		line(fmt.Sprintf("Vel: (%.2f, %.2f, %.2f)", body.Velocity.X, body.Velocity.Y, body.Velocity.Z))
	}
	line(fmt.Sprintf("Coyote: %.3f s", m.Player().CoyoteRemaining()))
	line(fmt.Sprintf("Bodies: %d (%d dynamic)", w.BodyCount(), w.DynamicBodyCount()))
	line(fmt.Sprintf("Balls: %d at %.1f/s  Cupcakes: %d", m.Balls().Count(), m.BallRate(), m.Cupcakes().Count()))
	line(fmt.Sprintf("Spawner clock: %.1f s  Sim: %.1f s", m.Balls().Elapsed(), w.Time()))
	line(fmt.Sprintf("Update:  %.2f ms", g.updateMs))
	line(fmt.Sprintf("Draw:    %.2f ms", g.drawMs))
	rl.DrawText(fmt.Sprintf("Total:   %.2f ms", g.updateMs+g.drawMs), 10, y, 16, rl.Lime)
}

func (g *Game) drawBanner(title, subtitle string, color rl.Color) {
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, sw, sh, colorDim)

	tw := measureText(hudFont, title, 48)
	drawTextEx(hudFont, title, (sw-tw)/2, sh/2-60, 48, color)
	stw := measureText(hudFont, subtitle, 20)
	drawTextEx(hudFont, subtitle, (sw-stw)/2, sh/2, 20, colorTextSecondary)
}

func (g *Game) drawPauseMenu() {
	m := g.Manager
	sw, sh := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, int32(sw), int32(sh), colorDim)

	panel := rl.Rectangle{X: sw/2 - 160, Y: sh/2 - 150, Width: 320, Height: 300}
	rl.DrawRectangleRounded(panel, 0.08, 8, colorBgPanel)
	rl.DrawRectangleRoundedLinesEx(panel, 0.08, 8, 1, colorAccent)
	drawTextEx(hudFont, "Paused", int32(panel.X)+20, int32(panel.Y)+16, 28, colorTextPrimary)

	x := panel.X + 20
	w := panel.Width - 40
	y := panel.Y + 60

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 32}, "Resume") {
		m.Resume()
	}
	y += 42
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 32}, "Restart") {
		g.restart()
	}
	y += 42
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 32}, "Quit") {
		g.quit = true
	}
	y += 50

	rate := m.BallRate()
	next := gui.Slider(rl.Rectangle{X: x + 70, Y: y, Width: w - 120, Height: 20}, "Balls/s", fmt.Sprintf("%.1f", rate), rate, 0, maxBallRate)
	if next != rate {
		m.SetBallRate(next)
	}
	y += 34

	g.ShowReach = gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 20, Height: 20}, "Show reachable columns", g.ShowReach)
}
