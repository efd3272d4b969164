package entity

import (
	"fmt"
	"path/filepath"

	"github.com/milk9111/springjoint/common"
	"github.com/milk9111/springjoint/constraint"
	"github.com/milk9111/springjoint/ecs"
	"github.com/milk9111/springjoint/levels"
)

// LoadLevelToWorld builds one entity per level entry from its prefab.
func LoadLevelToWorld(world *ecs.World, reg *constraint.Registry, lvl *levels.Level) error {
	if lvl == nil {
		return fmt.Errorf("load level: level is nil")
	}

	seen := make(map[string]int, len(lvl.Entities))
	for i, ent := range lvl.Entities {
		if ent.Name != "" {
			if prev, ok := seen[ent.Name]; ok {
				return fmt.Errorf("load level: entity %d: name %q already used by entity %d", i, ent.Name, prev)
			}
			seen[ent.Name] = i
		}

		if _, err := BuildEntity(world, reg, prefabFile(ent.Type), overridesFor(ent)); err != nil {
			return fmt.Errorf("load level: entity %d: %w", i, err)
		}
	}

	return nil
}

func prefabFile(typ string) string {
	if filepath.Ext(typ) == "" {
		return typ + ".yaml"
	}
	return typ
}

func overridesFor(ent levels.Entity) Overrides {
	pos := common.Vec3{X: ent.X, Y: ent.Y, Z: ent.Z}
	return Overrides{
		Name:     ent.Name,
		Position: &pos,
		Rotation: ent.Rotation,
		Props:    ent.Props,
	}
}
