package system

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/sequencer/ecs"
	"github.com/milk9111/sequencer/ecs/component"
)

// RenderSystem draws active sprites at their transforms, in entity order.
type RenderSystem struct {
	OriginX float64
	OriginY float64
	Zoom    float64
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{Zoom: 1}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	zoom := r.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	var entities []ecs.Entity
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.SpriteComponent.Kind(), func(e ecs.Entity, _ *component.Transform, s *component.Sprite) {
		if s.Image != nil && activeSelf(w, e) {
			entities = append(entities, e)
		}
	})
	sort.SliceStable(entities, func(i, j int) bool {
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		s, _ := ecs.Get(w, e, component.SpriteComponent.Kind())

		img := s.Image
		if s.UseSource {
			if sub, ok := s.Image.SubImage(s.Source).(*ebiten.Image); ok {
				img = sub
			}
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-s.OriginX, -s.OriginY)

		sx := t.ScaleX
		if sx == 0 {
			sx = 1
		}
		sy := t.ScaleY
		if sy == 0 {
			sy = 1
		}

		op.GeoM.Scale(sx, sy)
		op.GeoM.Rotate(t.Rotation)
		op.GeoM.Scale(zoom, zoom)
		op.GeoM.Translate((t.X+r.OriginX)*zoom, (t.Y+r.OriginY)*zoom)

		screen.DrawImage(img, op)
	}
}
