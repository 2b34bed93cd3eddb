package main

import (
	"context"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/sequencer/control"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/binding"
	"github.com/milk9111/sequencer/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 640
	baseHeight = 360
)

// Game shows the timeline in a window and maps keys to transport commands.
type Game struct {
	ctx    context.Context
	app    *App
	once   bool
	debug  bool
	picked ecs.Entity
	name   string
}

func NewGame(ctx context.Context, app *App, once, debug bool) *Game {
	return &Game{ctx: ctx, app: app, once: once, debug: debug}
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	g.handleInput()
	g.app.Frame()

	if g.once && g.app.Ended() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) handleInput() {
	q := g.app.queue
	seq := g.app.Sequencer()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if seq != nil && seq.Playing() {
			q.Push(control.Command{Op: control.OpPause})
		} else {
			q.Push(control.Command{Op: control.OpPlay})
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		q.Push(control.Command{Op: control.OpStop})
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		q.Push(control.Command{Op: control.OpStep, Value: control.DefaultStep})
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		q.Push(control.Command{Op: control.OpStep, Value: -control.DefaultStep})
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		q.Push(control.Command{Op: control.OpReload})
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		if seq != nil {
			next := (seq.Group() + 1) % len(seq.Groups())
			q.Push(control.Command{Op: control.OpGroup, Group: fmt.Sprint(next)})
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.pick()
	}
}

func (g *Game) pick() {
	x, y := ebiten.CursorPosition()
	r := g.app.render
	p := cp.Vector{X: float64(x)/r.Zoom - r.OriginX, Y: float64(y)/r.Zoom - r.OriginY}

	e, ok := g.app.physics.Pick(p)
	if !ok {
		g.picked, g.name = 0, ""
		return
	}
	g.picked = e
	g.name = binding.NewObject(g.app.world, e).String()
	log.Printf("sequencer: picked %s at %.0f,%.0f", g.name, p.X, p.Y)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.app.render.Draw(g.app.world, screen)
	if g.debug {
		g.drawBodies(screen)
	}

	status := "no timeline"
	if seq := g.app.Sequencer(); seq != nil {
		status = fmt.Sprintf("%s  %s  %.2f / %.2fs  group %s",
			g.app.reloader.Name(), seq.State(), seq.Time(), seq.Length(), seq.Groups()[seq.Group()])
		if seq.Recording() {
			status += "  REC"
		}
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nentities: %d  FPS: %.1f", status, len(ecs.Entities(g.app.world)), ebiten.ActualFPS()))
	if g.name != "" && ecs.IsAlive(g.app.world, g.picked) {
		ebitenutil.DebugPrintAt(screen, "picked: "+g.name, 0, baseHeight-16)
	}
	ebitenutil.DebugPrintAt(screen, "space play/pause  s stop  <- -> step  g group  r reload", 0, baseHeight-32)
}

// drawBodies outlines every physics body, the picked one in orange and
// inactive ones in gray.
func (g *Game) drawBodies(screen *ebiten.Image) {
	r := g.app.render
	ecs.ForEach2(g.app.world, component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, t *component.Transform, pb *component.PhysicsBody) {
		clr := colornames.Lime
		switch {
		case e == g.picked:
			clr = colornames.Orange
		case !binding.NewObject(g.app.world, e).ActiveSelf():
			clr = colornames.Gray
		}
		x := (t.X - pb.Width/2 + r.OriginX) * r.Zoom
		y := (t.Y - pb.Height/2 + r.OriginY) * r.Zoom
		vector.StrokeRect(screen, float32(x), float32(y), float32(pb.Width*r.Zoom), float32(pb.Height*r.Zoom), 1, clr, false)
	})
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
