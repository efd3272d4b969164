package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/springjoint/ecs"
	"github.com/milk9111/springjoint/ecs/component"
)

// InputSystem turns viewer key presses into request entities: F5 saves, F9
// loads, R reloads the level and Delete cuts the constraint nearest the
// cursor.
type InputSystem struct {
	savePath string
	view     *DebugView
}

func NewInputSystem(savePath string, view *DebugView) *InputSystem {
	return &InputSystem{savePath: savePath, view: view}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		addRequest(w, component.SaveRequestComponent.Kind(), &component.SaveRequest{Path: i.savePath})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		addRequest(w, component.LoadRequestComponent.Kind(), &component.LoadRequest{Path: i.savePath})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		addRequest(w, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		cx, cy := ebiten.CursorPosition()
		x, y := float64(cx), float64(cy)
		if i.view != nil {
			zoom := i.view.Zoom
			if zoom <= 0 {
				zoom = 1
			}
			x = x/zoom + i.view.X
			y = y/zoom + i.view.Y
		}
		if e, ok := NearestConstraint(w, x, y); ok {
			if err := ecs.Add(w, e, component.ConstraintDestroyRequestComponent.Kind(), &component.ConstraintDestroyRequest{}); err != nil {
				panic("input system: add destroy request: " + err.Error())
			}
		}
	}
}

func addRequest[T any](w *ecs.World, kind component.ComponentKind[T], req *T) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, kind, req); err != nil {
		panic("system: add request: " + err.Error())
	}
}

// NearestConstraint finds the constraint entity whose placement is closest
// to the world point (x, y).
func NearestConstraint(w *ecs.World, x, y float64) (ecs.Entity, bool) {
	var (
		best     ecs.Entity
		bestDist = math.Inf(1)
		found    bool
	)
	ecs.ForEach(w, component.ConstraintComponent.Kind(), func(e ecs.Entity, comp *component.Constraint) {
		if comp.Value == nil {
			return
		}
		p := comp.Value.Common().Transform.Position
		if d := math.Hypot(p.X-x, p.Y-y); d < bestDist {
			best, bestDist, found = e, d, true
		}
	})
	return best, found
}
