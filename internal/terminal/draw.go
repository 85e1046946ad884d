package terminal

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/cxd309/race-engine/internal/geom"
)

// hudRows is the number of screen rows above the race area.
const hudRows = 2

var (
	styleDefault    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleGrass      = styleDefault.Foreground(tcell.ColorGreen)
	styleTrack      = styleDefault.Foreground(tcell.ColorGray)
	styleCheckpoint = styleDefault.Foreground(tcell.ColorYellow)
	styleNext       = styleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleGate       = styleDefault.Foreground(tcell.ColorWhite).Bold(true)
	stylePlayer     = styleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleOpponent   = styleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleHUD        = styleDefault.Foreground(tcell.ColorAqua)
	styleTitle      = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleGameOver   = styleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// viewport maps world coordinates onto the race area of the screen.
type viewport struct {
	world      geom.Point // world width and height
	cols, rows int        // race area size in cells
}

func (g *Game) viewport() viewport {
	w, h := g.screen.Size()
	b := g.session.Bounds()
	return viewport{
		world: geom.Point{X: b.Width, Y: b.Height},
		cols:  w,
		rows:  max(h-hudRows, 1),
	}
}

// cell returns the screen cell for world point p, clamped to the race area.
func (v viewport) cell(p geom.Point) (int, int) {
	x := int(math.Floor(p.X / v.world.X * float64(v.cols)))
	y := int(math.Floor(p.Y / v.world.Y * float64(v.rows)))
	return min(max(x, 0), v.cols-1), hudRows + min(max(y, 0), v.rows-1)
}

// DrawText puts text on the screen starting at column x of row y.
func DrawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// drawCentered puts text in the middle of row y.
func drawCentered(s tcell.Screen, y int, text string, style tcell.Style) {
	w, _ := s.Size()
	DrawText(s, max((w-len([]rune(text)))/2, 0), y, text, style)
}

// DrawLine draws a straight line of r between two cells, endpoints included.
func DrawLine(s tcell.Screen, x1, y1, x2, y2 int, r rune, style tcell.Style) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		s.SetContent(x1, y1, r, nil, style)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// fillRect fills the cells covered by world rectangle r.
func (v viewport) fillRect(s tcell.Screen, r geom.Rect, ch rune, style tcell.Style) {
	x1, y1 := v.cell(r.Min())
	x2, y2 := v.cell(r.Max())
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			s.SetContent(x, y, ch, nil, style)
		}
	}
}

// Draw renders the current state and shows it.
func (g *Game) Draw() {
	g.screen.SetStyle(styleDefault)
	g.screen.Clear()
	switch g.state {
	case StateTitle:
		g.drawTitle()
	case StatePlaying:
		g.drawRace()
	case StateGameOver:
		g.drawGameOver()
	}
	g.screen.Show()
}

func (g *Game) drawTitle() {
	_, h := g.screen.Size()
	drawCentered(g.screen, h/3, "TERMINAL RACER", styleTitle)
	drawCentered(g.screen, h*2/3, "Press ENTER to Start", styleDefault)
	drawCentered(g.screen, h*2/3+1, "Arrows or WASD to drive, Esc to quit", styleHUD)
}

func (g *Game) drawGameOver() {
	_, h := g.screen.Size()
	drawCentered(g.screen, h/3, "GAME OVER", styleGameOver)
	drawCentered(g.screen, h/2, fmt.Sprintf("Laps Completed: %d", g.session.Progress().Completed()), styleDefault)
	if best, ok := g.session.Progress().BestLap(); ok {
		drawCentered(g.screen, h/2+1, fmt.Sprintf("Best Lap: %.2fs", best.Seconds()), styleDefault)
	}
	drawCentered(g.screen, h*2/3, "Press R to Restart", styleDefault)
}

func (g *Game) drawRace() {
	v := g.viewport()
	s := g.screen

	for y := hudRows; y < hudRows+v.rows; y++ {
		for x := 0; x < v.cols; x++ {
			s.SetContent(x, y, '.', nil, styleGrass)
		}
	}

	tr := g.session.Track()
	poly := tr.Polygon()
	for _, seg := range tr.Segments() {
		x1, y1 := v.cell(poly[seg.From])
		x2, y2 := v.cell(poly[seg.To])
		DrawLine(s, x1, y1, x2, y2, '#', styleTrack)
	}

	prog := g.session.Progress()
	next := prog.Next(tr.NumCheckpoints())
	for i, cp := range tr.Checkpoints() {
		style, ch := styleCheckpoint, '+'
		switch {
		case i == next:
			style, ch = styleNext, '*'
		case i == 0:
			style, ch = styleGate, '='
		}
		v.fillRect(s, cp, ch, style)
	}

	for _, o := range g.session.Opponents() {
		x, y := v.cell(o.Position)
		s.SetContent(x, y, 'O', nil, styleOpponent)
	}

	player := g.session.Player()
	x, y := v.cell(player.Position())
	s.SetContent(x, y, headingRune(player.Pose.Heading), nil, stylePlayer)

	g.drawHUD()
}

// drawHUD writes the lap counter, checkpoints left, lap times and the status
// message above the race area.
func (g *Game) drawHUD() {
	prog := g.session.Progress()
	w, _ := g.screen.Size()
	left := prog.Remaining(g.session.Track().NumCheckpoints())
	DrawText(g.screen, 0, 0, fmt.Sprintf("Lap: %d  Checkpoints Left: %d", prog.Lap, left), styleHUD)
	if last, ok := prog.LastLap(); ok {
		DrawText(g.screen, 0, 1, fmt.Sprintf("Last Lap: %.2fs", last.Seconds()), styleHUD)
	}
	cur := fmt.Sprintf("Time: %.2fs", prog.Current(g.session.Elapsed()).Seconds())
	DrawText(g.screen, max(w-len(cur), 0), 0, cur, styleHUD)
	if g.status != nil {
		if msg := g.status.Message(); msg != "" {
			DrawText(g.screen, max(w-len([]rune(msg)), 0), 1, msg, styleHUD)
		}
	}
}

// headingRune returns an arrow for a heading in degrees.
func headingRune(heading float64) rune {
	arrows := []rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}
	h := math.Mod(heading, 360)
	if h < 0 {
		h += 360
	}
	return arrows[int(math.Round(h/45))%len(arrows)]
}
