package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/springjoint/constraint"
	"github.com/milk9111/springjoint/ecs"
	"github.com/milk9111/springjoint/ecs/system"
	"github.com/milk9111/springjoint/levels"
	"github.com/milk9111/springjoint/physics"
	"github.com/milk9111/springjoint/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	frames int
	debug  bool

	world     *ecs.World
	scheduler *ecs.Scheduler
	physics   *system.PhysicsSystem
	view      *system.DebugView
	watcher   *prefabs.Watcher
}

func NewGame(levelName, savePath, follow string, watch, debug bool) (*Game, error) {
	reg := constraint.DefaultRegistry()
	engine := physics.NewChipmunk(nil)

	physicsSystem := system.NewPhysicsSystem(engine)
	constraintSystem := system.NewConstraintSystem(engine)
	physicsSystem.AddPrestep(constraintSystem)

	view := &system.DebugView{Zoom: 1}
	scheduler := ecs.NewScheduler(
		system.NewInputSystem(savePath, view),
		system.NewCameraSystem(view, follow, baseWidth, baseHeight),
		system.NewPersistenceSystem(levelName, reg, physicsSystem, constraintSystem),
		physicsSystem,
	)

	g := &Game{
		debug:     debug,
		world:     ecs.NewWorld(),
		scheduler: scheduler,
		physics:   physicsSystem,
		view:      view,
	}

	if watch {
		watcher, err := prefabs.NewWatcher(prefabs.Dir, levels.Dir)
		if err != nil {
			log.Printf("hot reload disabled: %v", err)
		} else {
			g.watcher = watcher
			scheduler.Add(system.NewHotReloadSystem(watcher.Events, watcher.Errors))
		}
	}

	return g, nil
}

func (g *Game) Update() error {
	g.frames++
	g.scheduler.Update(g.world)

	for _, evt := range g.world.Events().Drain() {
		if ce, ok := evt.Data.(ecs.ConstraintEvent); ok {
			log.Printf("%s: %q %s", evt.Type, ce.Name, ce.Reason)
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	system.DrawPhysicsDebug(g.physics.Space(), *g.view, screen)
	if g.debug {
		system.DrawConstraintDebug(g.world, screen)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f  F5 save  F9 load  R reload  Del cut  arrows pan  +/- zoom", ebiten.ActualFPS()), 10, baseHeight-20)
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
