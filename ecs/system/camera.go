package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/springjoint/ecs"
	"github.com/milk9111/springjoint/ecs/component"
)

const (
	cameraPanSpeed = 6.0
	cameraZoomStep = 1.02
	cameraMinZoom  = 0.25
	cameraMaxZoom  = 4.0
)

// CameraSystem moves the debug view. Arrow keys pan, +/- zoom, and when a
// target name is set the view centers on that entity instead.
type CameraSystem struct {
	view       *DebugView
	targetName string
	screenW    float64
	screenH    float64
}

func NewCameraSystem(view *DebugView, targetName string, screenW, screenH float64) *CameraSystem {
	return &CameraSystem{view: view, targetName: targetName, screenW: screenW, screenH: screenH}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if cs == nil || cs.view == nil || w == nil {
		return
	}
	if cs.view.Zoom <= 0 {
		cs.view.Zoom = 1
	}

	if ebiten.IsKeyPressed(ebiten.KeyEqual) || ebiten.IsKeyPressed(ebiten.KeyKPAdd) {
		cs.view.Zoom = min(cs.view.Zoom*cameraZoomStep, cameraMaxZoom)
	}
	if ebiten.IsKeyPressed(ebiten.KeyMinus) || ebiten.IsKeyPressed(ebiten.KeyKPSubtract) {
		cs.view.Zoom = max(cs.view.Zoom/cameraZoomStep, cameraMinZoom)
	}

	if cs.targetName != "" {
		if e, ok := FindNamed(w, cs.targetName); ok {
			if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
				cs.center(t.X, t.Y)
				return
			}
		}
	}

	step := cameraPanSpeed / cs.view.Zoom
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		cs.view.X -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		cs.view.X += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		cs.view.Y -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		cs.view.Y += step
	}
}

func (cs *CameraSystem) center(x, y float64) {
	cs.view.X = x - cs.screenW/(2*cs.view.Zoom)
	cs.view.Y = y - cs.screenH/(2*cs.view.Zoom)
}
