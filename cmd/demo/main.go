// Command demo is an interactive playground for the movement core: a small
// tile level, one character, keyboard control, optional scripted bot input,
// and click-to-navigate path following. Tuning is hot-reloaded from YAML.
package main

import (
	"flag"
	"image/color"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp/v2"
	"golang.org/x/image/colornames"

	"github.com/milk9111/platformkit/config"
	"github.com/milk9111/platformkit/controller"
	"github.com/milk9111/platformkit/nav"
	"github.com/milk9111/platformkit/physics"
	"github.com/milk9111/platformkit/physics/chipmunk"
	"github.com/milk9111/platformkit/script"
)

const (
	tileSize    = 32.0 // pixels per world unit
	gravityY    = -30.0
	fixedDt     = 1.0 / 60.0
	actorRadius = 0.45
)

// level is row 0 at the top of the screen; '#' is terrain, '-' a one-way
// platform, 'P' the spawn point.
var level = []string{
	"########################################",
	"#......................................#",
	"#......................................#",
	"#..........----........................#",
	"#......................................#",
	"#....P..........................####...#",
	"#...........--------...........##......#",
	"#..####....................#..##.......#",
	"#.............#..........###.##........#",
	"#.............##........####.##........#",
	"########################################",
}

type Game struct {
	space     *chipmunk.Space
	actor     *chipmunk.Actor
	char      *controller.Character
	follower  *nav.Follower
	grid      *nav.Grid
	scenario  *script.Scenario
	watcher   *config.Watcher
	tuningFile string

	frames   int
	dropHeld bool
}

func main() {
	tuningPath := flag.String("tuning", "", "path to a tuning YAML file (hot reloaded)")
	scriptPath := flag.String("script", "", "tengo scenario script to drive the character")
	flag.Parse()

	g, err := newGame(*tuningPath, *scriptPath)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(len(level[0])*tileSize, len(level)*tileSize)
	ebiten.SetWindowTitle("platformkit demo")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

func newGame(tuningPath, scriptPath string) (*Game, error) {
	tuning := config.Default()
	if tuningPath != "" {
		t, err := config.Load(tuningPath)
		if err != nil {
			return nil, err
		}
		tuning = t
	}

	space := chipmunk.NewSpace(cp.Vector{X: 0, Y: gravityY})
	buildTerrain(space)

	spawn := spawnPoint()
	actor := space.NewActor(spawn, actorRadius, 1, tuning.SkinWidth)
	char := controller.New(actor, tuning)

	grid := &nav.Grid{
		CellSize: 1,
		Width:    len(level[0]),
		Height:   len(level),
		Blocked:  cellBlocked,
	}

	g := &Game{
		space:    space,
		actor:    actor,
		char:     char,
		follower: nav.NewFollower(grid),
		grid:     grid,
	}
	g.follower.Tolerance = 0.6
	char.FollowPath(g.follower)

	if scriptPath != "" {
		sc, err := script.Load(scriptPath)
		if err != nil {
			return nil, err
		}
		g.scenario = sc
	}

	if tuningPath != "" {
		w, err := config.NewWatcher(filepath.Dir(tuningPath))
		if err != nil {
			log.Printf("demo: tuning watch disabled: %v", err)
		} else {
			g.watcher = w
			g.tuningFile = tuningPath
		}
	}

	return g, nil
}

func (g *Game) Update() error {
	g.frames++

	g.reloadTuning()

	if g.scenario != nil {
		if err := g.scenario.Step(g.frames, g.char); err != nil {
			log.Printf("demo: scenario: %v", err)
			g.scenario = nil
		}
	} else {
		g.handleInput()
	}

	g.char.Update(fixedDt)
	g.space.Step(fixedDt)
	return nil
}

func (g *Game) handleInput() {
	var move cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		move.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		move.X += 1
	}
	if g.char.Flying() {
		if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
			move.Y += 1
		}
		if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
			move.Y -= 1
		}
	}
	if (move.X != 0 || move.Y != 0) && g.follower.Active() {
		// manual input overrides any active path
		g.follower.Cancel()
	}
	g.char.SetMoveDirection(move)

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.char.RequestJump()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.char.SetFlying(!g.char.Flying())
	}

	// Hold S/Down on the ground to drop through one-way platforms.
	drop := !g.char.Flying() &&
		(ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown))
	if drop != g.dropHeld {
		g.dropHeld = drop
		g.char.Gate().SetIgnorePlatforms(drop)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		goal := screenToWorld(mx, my)
		g.follower.RequestPath(g.char.Position(), goal)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.char.SetPosition(spawnPoint())
	}
}

func (g *Game) reloadTuning() {
	if g.watcher == nil {
		return
	}
	select {
	case path, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		if path != g.tuningFile {
			return
		}
		t, err := config.Load(path)
		if err != nil {
			log.Printf("demo: reload tuning: %v", err)
			return
		}
		g.char.SetTuning(t)
		log.Printf("demo: tuning reloaded from %s", path)
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("demo: tuning watch: %v", err)
		}
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x20, 0x24, 0x2c, 0xff})

	for y, row := range level {
		for x, ch := range row {
			sx := float64(x) * tileSize
			sy := float64(y) * tileSize
			switch ch {
			case '#':
				ebitenutil.DrawRect(screen, sx, sy, tileSize, tileSize, colornames.Dimgray)
			case '-':
				ebitenutil.DrawRect(screen, sx, sy, tileSize, tileSize/4, colornames.Peru)
			}
		}
	}

	// remaining waypoints
	for _, wp := range g.follower.Path() {
		px, py := worldToScreen(wp)
		ebitenutil.DrawRect(screen, px-2, py-2, 4, 4, colornames.Skyblue)
	}

	pos := g.char.Position()
	px, py := worldToScreen(pos)
	col := colornames.Crimson
	if g.char.Grounded() {
		col = colornames.Limegreen
	}
	ebitenutil.DrawCircle(screen, px, py, actorRadius*tileSize, col)

	look := g.char.LookDirection()
	ebitenutil.DrawLine(screen, px, py,
		px+look.X*tileSize, py-look.Y*tileSize, colornames.White)

	ebitenutil.DebugPrint(screen,
		"arrows/AD move, space jump, S drop, F fly, click navigate, R respawn\n"+
			"state: "+g.char.State())
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return len(level[0]) * tileSize, len(level) * tileSize
}

// buildTerrain converts the tile map into static colliders, merging
// horizontal runs into single boxes.
func buildTerrain(space *chipmunk.Space) {
	h := len(level)
	for y, row := range level {
		x := 0
		for x < len(row) {
			ch := row[x]
			if ch != '#' && ch != '-' {
				x++
				continue
			}
			run := 1
			for x+run < len(row) && row[x+run] == ch {
				run++
			}
			// world Y is flipped: tile row 0 is the top
			wy := float64(h - 1 - y)
			wx := float64(x)
			if ch == '#' {
				space.AddBox(physics.LayerTerrain, cp.BB{
					L: wx, B: wy, R: wx + float64(run), T: wy + 1,
				})
			} else {
				space.AddBox(physics.LayerPlatform, cp.BB{
					L: wx, B: wy + 0.75, R: wx + float64(run), T: wy + 1,
				})
			}
			x += run
		}
	}
}

func cellBlocked(x, y int) bool {
	// nav grid uses world coordinates (Y up)
	row := len(level) - 1 - y
	if row < 0 || row >= len(level) || x < 0 || x >= len(level[row]) {
		return true
	}
	return level[row][x] == '#'
}

func spawnPoint() cp.Vector {
	for y, row := range level {
		for x, ch := range row {
			if ch == 'P' {
				return cp.Vector{X: float64(x) + 0.5, Y: float64(len(level)-1-y) + 0.5}
			}
		}
	}
	return cp.Vector{X: 2, Y: 2}
}

func worldToScreen(v cp.Vector) (float64, float64) {
	return v.X * tileSize, (float64(len(level)) - v.Y) * tileSize
}

func screenToWorld(x, y int) cp.Vector {
	return cp.Vector{
		X: float64(x) / tileSize,
		Y: float64(len(level)) - float64(y)/tileSize,
	}
}
