package system

import (
	"log"

	"github.com/milk9111/springjoint/ecs"
	"github.com/milk9111/springjoint/ecs/component"
)

// HotReloadSystem requests a level reload whenever a watched prefab or level
// file changes. It never blocks on the channels.
type HotReloadSystem struct {
	events <-chan string
	errors <-chan error
}

func NewHotReloadSystem(events <-chan string, errors <-chan error) *HotReloadSystem {
	return &HotReloadSystem{events: events, errors: errors}
}

func (h *HotReloadSystem) Update(w *ecs.World) {
	if h == nil || w == nil {
		return
	}

	changed := ""
	for {
		select {
		case name, ok := <-h.events:
			if !ok {
				h.events = nil
				continue
			}
			changed = name
			continue
		case err, ok := <-h.errors:
			if !ok {
				h.errors = nil
				continue
			}
			log.Printf("HotReloadSystem: watcher: %v", err)
			continue
		default:
		}
		break
	}

	if changed == "" {
		return
	}
	log.Printf("HotReloadSystem: %s changed, reloading", changed)
	addRequest(w, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{})
}
