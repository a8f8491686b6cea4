package game

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudScale is the integer upscale factor applied to HUD text.
const hudScale = 2

// pixelsPerUnit is the default camera zoom: screen pixels per world unit.
const pixelsPerUnit = 28.0

// Game adapts a Session to ebiten.Game: it polls keys and the mouse into
// InputFrames, owns the camera and renders the match.
type Game struct {
	settings Settings
	level    *Level
	session  *Session

	width      int
	height     int
	gameWidth  int // playfield width (event panel takes the rest)
	gameHeight int

	bindings map[Action][]ebiten.Key
	prevKeys map[ebiten.Key]bool

	prevMouseLeft bool

	// Camera centre in world space and zoom in pixels per world unit.
	camX, camY float64
	camZoom    float64

	// Camera shake, driven through the Shaker interface.
	shakeLeft float64
	shakeMag  float64
	shakeOff  Vec2 // world units, re-rolled every frame
	shakeRng  *rand.Rand

	showHUD bool
	paused  bool
	bot     *Bot // nil = human plays the active character
	status  string

	hudBuf  *ebiten.Image
	metrics *Metrics // outlives restarts so a scrape endpoint keeps one registry

	// Analytics reporter: collects match stats periodically.
	reporter *SimReporter
}

// New builds the windowed game from settings.
func New(settings Settings) (*Game, error) {
	lvl, err := LoadLevel(settings.LevelPath)
	if err != nil {
		return nil, err
	}
	bindings, err := parseBindings(settings.Keys)
	if err != nil {
		return nil, err
	}
	g := &Game{
		settings:   settings,
		level:      lvl,
		width:      settings.Window.Width,
		height:     settings.Window.Height,
		gameWidth:  settings.Window.Width - feedPanelWidth,
		gameHeight: settings.Window.Height,
		bindings:   bindings,
		prevKeys:   make(map[ebiten.Key]bool),
		camZoom:    pixelsPerUnit,
		shakeRng:   rand.New(rand.NewSource(settings.Seed + 9999)),
		showHUD:    true,
		metrics:    NewMetrics(settings.Metrics.Namespace),
	}
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	if err := g.restart(); err != nil {
		return nil, err
	}
	return g, nil
}

// restart begins a fresh match on the same level.
func (g *Game) restart() error {
	s, err := NewSession(g.level, SessionOptions{
		TickRate:     g.settings.TickRate,
		TurnDuration: g.settings.TurnDuration,
		Seed:         g.settings.Seed,
		Verbose:      g.settings.VerboseLog,
		Metrics:      g.metrics,
		Shaker:       g,
	})
	if err != nil {
		return err
	}
	g.session = s
	g.reporter = NewSimReporter(reportWindowTicks, false)
	g.shakeLeft = 0
	g.status = ""
	if g.bot != nil {
		g.bot = NewBot(g.settings.Seed)
	}
	return nil
}

// Metrics is the registry every match of this window reports to.
func (g *Game) Metrics() *Metrics { return g.metrics }

// parseBindings converts action → key-name settings into ebiten keys.
func parseBindings(keys map[string][]string) (map[Action][]ebiten.Key, error) {
	out := make(map[Action][]ebiten.Key, len(keys))
	for name, names := range keys {
		a, err := ParseAction(name)
		if err != nil {
			return nil, err
		}
		for _, kn := range names {
			var k ebiten.Key
			if err := k.UnmarshalText([]byte(kn)); err != nil {
				return nil, fmt.Errorf("%w: key %q for %s: %v", ErrInvalidConfig, kn, name, err)
			}
			out[a] = append(out[a], k)
		}
	}
	return out, nil
}

// Shake implements Shaker. Overlapping shakes keep the stronger one.
func (g *Game) Shake(duration, magnitude float64) {
	g.shakeLeft = max(g.shakeLeft, duration)
	g.shakeMag = max(g.shakeMag, magnitude)
}

func (g *Game) Update() error {
	in := g.handleInput()

	dt := g.session.DT()
	g.shakeOff = Vec2{}
	if g.shakeLeft > 0 {
		g.shakeLeft -= dt
		g.shakeOff = Vec2{X: g.shakeRng.Float64()*2 - 1, Y: g.shakeRng.Float64()*2 - 1}.Scale(g.shakeMag)
		if g.shakeLeft <= 0 {
			g.shakeLeft, g.shakeMag = 0, 0
		}
	}

	if g.paused || g.session.Over() {
		return nil
	}
	if g.bot != nil {
		in = g.bot.Next(g.session)
	}
	g.session.Update(in)

	// Analytics: collect a report every ~1s.
	if g.session.Tick()%g.settings.TickRate == 0 {
		g.reporter.Collect(g.session)
	}
	return nil
}

// pressedEdge reports a key that went down this frame and records it.
func (g *Game) pressedEdge(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

// handleInput turns this frame's keyboard and mouse state into an
// InputFrame and handles client-only keys (edge-triggered).
func (g *Game) handleInput() InputFrame {
	var in InputFrame
	currentKeys := map[ebiten.Key]bool{}

	for a, keys := range g.bindings {
		for _, k := range keys {
			switch a {
			case ActionLeft:
				if ebiten.IsKeyPressed(k) {
					in.Horizontal = -1
				}
			case ActionRight:
				if ebiten.IsKeyPressed(k) {
					in.Horizontal = 1
				}
			default:
				if g.pressedEdge(currentKeys, k) {
					in.Press(a)
				}
			}
		}
	}
	if in.Pressed(ActionCopyLog) {
		g.copyLog()
	}

	// H: toggle HUD. P: pause. B: toggle bot. R: restart once the match is over.
	if g.pressedEdge(currentKeys, ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.pressedEdge(currentKeys, ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.pressedEdge(currentKeys, ebiten.KeyB) {
		if g.bot == nil {
			g.bot = NewBot(g.settings.Seed)
		} else {
			g.bot = nil
		}
	}
	if g.pressedEdge(currentKeys, ebiten.KeyR) && g.session.Over() {
		if err := g.restart(); err != nil {
			log.Printf("[Game] restart: %v", err)
		}
	}

	// Camera zoom: mouse wheel or =/- keys.
	const zoomMin, zoomMax = 8.0, 96.0
	_, wy := ebiten.Wheel()
	if wy != 0 {
		g.camZoom *= math.Pow(1.12, wy)
	}
	if g.pressedEdge(currentKeys, ebiten.KeyEqual) {
		g.camZoom *= 1.25
	}
	if g.pressedEdge(currentKeys, ebiten.KeyMinus) {
		g.camZoom /= 1.25
	}
	g.camZoom = math.Max(zoomMin, math.Min(zoomMax, g.camZoom))

	// Mouse: left button drag in world space.
	mx, my := ebiten.CursorPosition()
	in.Mouse = g.screenToWorld(float64(mx), float64(my))
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.MouseDown = down
	in.MousePressed = down && !g.prevMouseLeft
	in.MouseReleased = !down && g.prevMouseLeft
	g.prevMouseLeft = down

	g.prevKeys = currentKeys
	return in
}

func (g *Game) copyLog() {
	text := g.session.Log.Format()
	if err := setClipboardText(text); err != nil {
		g.status = "copy failed: " + err.Error()
		log.Printf("[Game] clipboard: %v", err)
		return
	}
	g.status = fmt.Sprintf("copied %d log entries", len(g.session.Log.Entries()))
}

// worldToScreen maps a world point (Y up) to playfield pixels (Y down),
// including camera shake.
func (g *Game) worldToScreen(p Vec2) (float32, float32) {
	p = p.Add(g.shakeOff)
	sx := float64(g.gameWidth)/2 + (p.X-g.camX)*g.camZoom
	sy := float64(g.gameHeight)/2 - (p.Y-g.camY)*g.camZoom
	return float32(sx), float32(sy)
}

func (g *Game) screenToWorld(x, y float64) Vec2 {
	return Vec2{
		X: g.camX + (x-float64(g.gameWidth)/2)/g.camZoom,
		Y: g.camY - (y-float64(g.gameHeight)/2)/g.camZoom,
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	g.drawWorld(screen)
	g.session.Feed.Draw(screen, g.gameWidth, g.height)
	if g.showHUD {
		g.drawHUD(screen)
	}
	if g.camZoom != pixelsPerUnit {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("zoom: %.1fx", g.camZoom/pixelsPerUnit), 6, g.gameHeight-18)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
