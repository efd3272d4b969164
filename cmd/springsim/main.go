package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/springjoint/constraint"
	"github.com/milk9111/springjoint/ecs"
	"github.com/milk9111/springjoint/ecs/system"
	"github.com/milk9111/springjoint/physics"
)

func main() {
	levelName := flag.String("level", "pendulum", "level name in levels/ (basename, .json optional)")
	frames := flag.Int("frames", 600, "number of physics steps to run")
	dt := flag.Float64("dt", system.DefaultStep, "physics step")
	savePath := flag.String("save", "", "write constraints to this file after stepping")
	loadPath := flag.String("load", "", "replace the level's constraints with this save before stepping")
	every := flag.Int("every", 0, "print a report every N frames (0 prints only the final one)")
	flag.Parse()

	reg := constraint.DefaultRegistry()
	engine := physics.NewChipmunk(nil)
	physicsSystem := system.NewPhysicsSystem(engine)
	physicsSystem.SetStep(*dt)
	constraintSystem := system.NewConstraintSystem(engine)
	physicsSystem.AddPrestep(constraintSystem)
	persistence := system.NewPersistenceSystem(*levelName, reg, physicsSystem, constraintSystem)

	w := ecs.NewWorld()
	persistence.Update(w)

	if *loadPath != "" {
		if err := persistence.LoadFile(w, *loadPath, constraint.LoadRestoreGame); err != nil {
			log.Fatalf("springsim: %v", err)
		}
	}

	scheduler := ecs.NewScheduler(persistence, physicsSystem)
	for i := 1; i <= *frames; i++ {
		scheduler.Update(w)
		for _, evt := range w.Events().Drain() {
			if ce, ok := evt.Data.(ecs.ConstraintEvent); ok {
				log.Printf("frame %d: %s: %q %s", i, evt.Type, ce.Name, ce.Reason)
			}
		}
		if *every > 0 && i%*every == 0 {
			fmt.Printf("frame %d\n%s", i, system.ConstraintReport(w))
		}
	}
	fmt.Printf("final\n%s", system.ConstraintReport(w))

	if *savePath != "" {
		if err := persistence.SaveFile(w, *savePath, constraint.SaveNone); err != nil {
			log.Fatalf("springsim: %v", err)
		}
		fmt.Fprintf(os.Stderr, "saved constraints to %s\n", *savePath)
	}
}
