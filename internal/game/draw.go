package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

var (
	colorBackground = color.RGBA{R: 6, G: 8, B: 16, A: 255}
	colorInfluence  = color.RGBA{R: 90, G: 110, B: 170, A: 60}
	colorTerrain    = colornames.Sienna
	colorRim        = colornames.Peru
	colorPreview    = colornames.Lightyellow
	colorShield     = colornames.Aqua
	colorDanger     = colornames.Red
	colorTimer      = colornames.Limegreen
	colorHealthBack = color.RGBA{R: 40, G: 10, B: 10, A: 200}
	colorHealth     = colornames.Lime
)

// extraTeamColors cycles for teams other than red and blue.
var extraTeamColors = []color.RGBA{
	colornames.Gold, colornames.Orchid, colornames.Mediumseagreen, colornames.Orange,
}

// teamColor maps a team name to its render colour.
func teamColor(team string) color.Color {
	switch team {
	case "red":
		return colornames.Tomato
	case "blue":
		return colornames.Dodgerblue
	case "", "--":
		return colornames.Gray
	}
	h := 0
	for _, r := range team {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return extraTeamColors[h%len(extraTeamColors)]
}

// drawWorld renders influence rings, terrain, characters, projectiles and
// the aim preview.
func (g *Game) drawWorld(screen *ebiten.Image) {
	s := g.session
	for _, src := range s.Field.Sources() {
		x, y := g.worldToScreen(src.Pos())
		vector.StrokeCircle(screen, x, y, float32(src.Radius()*g.camZoom), 1.0, colorInfluence, true)
	}

	for _, t := range s.World.Terrains() {
		cell := float32(t.CellSize() * g.camZoom)
		t.ForEachSolid(func(c Vec2) {
			x, y := g.worldToScreen(c)
			vector.FillRect(screen, x-cell/2, y-cell/2, cell+0.5, cell+0.5, colorTerrain, false)
		})
		x, y := g.worldToScreen(t.Center)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %.0f%%", t.PlanetID, t.Remaining()*100), int(x)-24, int(y)-6)
	}

	for _, c := range s.Characters {
		if !c.Alive() {
			continue
		}
		g.drawCharacter(screen, c)
	}

	for _, p := range s.Projectiles() {
		x, y := g.worldToScreen(p.Pos())
		r := float32(max(p.Body.Radius*g.camZoom, 2))
		col := color.Color(colornames.White)
		if p.Fused() {
			col = colornames.Orange
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%.1f", p.FuseLeft()), int(x)+4, int(y)-14)
		}
		vector.FillCircle(screen, x, y, r, col, true)
	}

	preview := s.Preview()
	for i, p := range preview {
		x, y := g.worldToScreen(p)
		// Every other point, fading with distance along the path.
		if i%2 == 1 {
			continue
		}
		a := uint8(255 - 200*i/max(len(preview), 1))
		col := colorPreview
		col.A = a
		vector.FillCircle(screen, x, y, 2, col, true)
	}
	if armed := s.Active().Loadout.Armed(); armed != nil && armed.Dragging() {
		x0, y0 := g.worldToScreen(armed.DragStart())
		x1, y1 := g.worldToScreen(s.Active().Muzzle())
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, colorRim, true)
	}
}

func (g *Game) drawCharacter(screen *ebiten.Image, c *Character) {
	x, y := g.worldToScreen(c.Pos())
	r := float32(c.Body.Radius * g.camZoom)
	vector.FillCircle(screen, x, y, r, teamColor(c.Team), true)

	// Up axis, so surface alignment is visible.
	hx, hy := g.worldToScreen(c.Pos().Add(c.Gravity.Up().Scale(c.Body.Radius * 1.6)))
	vector.StrokeLine(screen, x, y, hx, hy, 2, colornames.White, true)

	if c.Health.Shielded() {
		vector.StrokeCircle(screen, x, y, r+4, 2, colorShield, true)
	}
	if c.Active() {
		vector.StrokeCircle(screen, x, y, r+8, 1, colornames.Yellow, true)
	}

	// Health bar above the head.
	const barW, barH = 30, 4
	bx, by := x-barW/2, y-r-12
	vector.FillRect(screen, bx, by, barW, barH, colorHealthBack, false)
	vector.FillRect(screen, bx, by, float32(barW*c.Health.Fraction()), barH, colorHealth, false)
	ebitenutil.DebugPrintAt(screen, c.Label(), int(bx), int(by)-16)
}

// drawHUD renders turn, timer and the active character's slots.
func (g *Game) drawHUD(screen *ebiten.Image) {
	s := g.session
	c := s.Active()
	tc := s.Turns

	lines := []string{
		fmt.Sprintf("TURN %d  %s (%s)  hp %.0f/%.0f", s.TurnCount(), c.Label(), c.Team, c.Health.Current(), c.Health.Max()),
		fmt.Sprintf("time %.1fs", tc.Remaining()),
	}
	jump := fmt.Sprintf("jumps %d", c.Gravity.JumpCount())
	if c.Gravity.SuperJumpArmed() {
		jump += "  SUPER"
	}
	if src := c.Gravity.Attached(); src != nil {
		jump += "  on " + src.ID()
	} else {
		jump += "  airborne"
	}
	lines = append(lines, jump)
	for _, slot := range c.Loadout.Slots() {
		i := slot.Slot()
		mark := " "
		switch slot.State() {
		case SlotAwaitingConfirm:
			mark = "?"
		case SlotArmed:
			mark = "*"
		}
		line := fmt.Sprintf("[%d]%s %-10s ammo %-3s", i+1, mark, i, ammoString(c.Resources().Remaining(i)))
		if cd := slot.Cooldown(); cd > 0 {
			line += fmt.Sprintf(" cd %.1f", cd)
		}
		if slot.Disabled() {
			line += " OFF"
		}
		lines = append(lines, line)
	}
	if c.Resources().TurnSkillUsed() {
		lines = append(lines, "skill used this turn")
	}
	if s.Over() {
		lines = append(lines, strings.ToUpper(s.Outcome().Description)+"  R=restart")
	}
	if g.paused {
		lines = append(lines, "PAUSED")
	}
	if g.bot != nil {
		lines = append(lines, "BOT playing  B=take over")
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}
	lines = append(lines, "Enter=confirm Esc=cancel Tab=next  drag=aim  C=copy log  H=hud")

	// Render into hudBuf at 1x, then scale up.
	const lineH = 12 // debug font line height at 1x
	const charW = 6  // debug font char width at 1x
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2 + 6)
	bx, by := float32(4), float32(4)

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 20, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, teamColor(c.Team), false)

	// Turn timer bar, red inside the danger window.
	barCol := colorTimer
	if tc.Danger() && len(tc.Characters()) > 1 {
		barCol = colorDanger
	}
	frac := float32(tc.Remaining() / tc.Duration())
	vector.FillRect(g.hudBuf, bx+padX, by+boxH-6, (boxW-2*padX)*frac, 3, barCol, false)

	for i, line := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}
