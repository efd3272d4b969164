package system

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/milk9111/springjoint/constraint"
	"github.com/milk9111/springjoint/ecs"
	"github.com/milk9111/springjoint/ecs/component"
	"github.com/milk9111/springjoint/ecs/entity"
	"github.com/milk9111/springjoint/levels"
)

const (
	saveMagic   uint32 = 0x53505247 // "SPRG"
	saveVersion uint32 = 1
)

var (
	ErrBadSaveMagic   = errors.New("persistence: not a constraint save")
	ErrBadSaveVersion = errors.New("persistence: unsupported save version")
)

// PersistenceSystem loads the level on first update, rebuilds it on reload
// requests, and saves or restores constraints through the message stream.
type PersistenceSystem struct {
	levelName    string
	registry     *constraint.Registry
	physics      *PhysicsSystem
	constraints  *ConstraintSystem
	initialized  bool
	loadSequence uint64
}

func NewPersistenceSystem(levelName string, registry *constraint.Registry, physics *PhysicsSystem, constraints *ConstraintSystem) *PersistenceSystem {
	return &PersistenceSystem{
		levelName:   levelName,
		registry:    registry,
		physics:     physics,
		constraints: constraints,
	}
}

// LoadSequence counts completed level loads.
func (p *PersistenceSystem) LoadSequence() uint64 {
	return p.loadSequence
}

func (p *PersistenceSystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}

	if !p.initialized {
		if err := p.reloadWorld(w); err != nil {
			panic("persistence system: initial load failed: " + err.Error())
		}
		p.initialized = true
		return
	}

	if _, ok := ecs.First(w, component.ReloadRequestComponent.Kind()); ok {
		if err := p.reloadWorld(w); err != nil {
			panic("persistence system: reload failed: " + err.Error())
		}
		return
	}

	ecs.ForEach(w, component.SaveRequestComponent.Kind(), func(e ecs.Entity, req *component.SaveRequest) {
		if err := p.SaveFile(w, req.Path, constraint.SaveNone); err != nil {
			log.Printf("PersistenceSystem: save %s: %v", req.Path, err)
		}
		ecs.DestroyEntity(w, e)
	})

	ecs.ForEach(w, component.LoadRequestComponent.Kind(), func(e ecs.Entity, req *component.LoadRequest) {
		ecs.DestroyEntity(w, e)
		if err := p.LoadFile(w, req.Path, constraint.LoadRestoreGame); err != nil {
			log.Printf("PersistenceSystem: load %s: %v", req.Path, err)
		}
	})
}

func (p *PersistenceSystem) reloadWorld(w *ecs.World) error {
	switch {
	case p.physics != nil:
		p.physics.Reset(w)
	case p.constraints != nil:
		p.constraints.Reset(w)
	}
	for _, e := range ecs.Entities(w) {
		ecs.DestroyEntity(w, e)
	}

	name := p.levelName
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	level, err := levels.LoadLevelFromFS(name)
	if err != nil {
		return fmt.Errorf("load level %q: %w", name, err)
	}
	if err := entity.LoadLevelToWorld(w, p.registry, level); err != nil {
		return fmt.Errorf("build level %q: %w", name, err)
	}

	p.loadSequence++
	return nil
}

// Save writes every constraint entity to out.
func (p *PersistenceSystem) Save(w *ecs.World, out io.Writer, flags constraint.SaveFlags) error {
	ents := ecs.Query(w, component.ConstraintComponent.Kind())

	msg := constraint.NewMessage()
	msg.WriteUint32(saveMagic)
	msg.WriteUint32(saveVersion)
	msg.WriteUint32(uint32(flags))

	entries := make([][]byte, 0, len(ents))
	types := make([]string, 0, len(ents))
	for _, e := range ents {
		comp, ok := ecs.Get(w, e, component.ConstraintComponent.Kind())
		if !ok || comp.Value == nil {
			continue
		}
		payload := constraint.NewMessage()
		comp.Value.Save(payload, flags)
		types = append(types, comp.Type)
		entries = append(entries, payload.Bytes())
	}

	msg.WriteUint32(uint32(len(entries)))
	for i, payload := range entries {
		msg.WriteString(types[i])
		msg.WriteBytes(payload)
	}

	if _, err := out.Write(msg.Bytes()); err != nil {
		return fmt.Errorf("persistence: write: %w", err)
	}
	return nil
}

// Load replaces every constraint entity with the ones stored in in. Nothing
// changes when the stream is malformed.
func (p *PersistenceSystem) Load(w *ecs.World, in io.Reader, flags constraint.LoadFlags) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("persistence: read: %w", err)
	}
	msg := constraint.NewMessageFrom(data)

	if magic := msg.ReadUint32(); msg.Err() == nil && magic != saveMagic {
		return ErrBadSaveMagic
	}
	if version := msg.ReadUint32(); msg.Err() == nil && version != saveVersion {
		return fmt.Errorf("%w: %d", ErrBadSaveVersion, version)
	}
	msg.ReadUint32() // save flags, informational
	count := msg.ReadUint32()
	if err := msg.Err(); err != nil {
		return fmt.Errorf("persistence: header: %w", err)
	}

	loaded := make([]*component.Constraint, 0, min(int(count), 1024))
	for i := uint32(0); i < count; i++ {
		typ := msg.ReadString()
		payload := msg.ReadBytes()
		if err := msg.Err(); err != nil {
			return fmt.Errorf("persistence: entry %d: %w", i, err)
		}
		c, err := p.registry.New(typ)
		if err != nil {
			return fmt.Errorf("persistence: entry %d: %w", i, err)
		}
		if err := c.Load(constraint.NewMessageFrom(bytes.Clone(payload)), flags); err != nil {
			return fmt.Errorf("persistence: entry %d: %w", i, err)
		}
		loaded = append(loaded, &component.Constraint{Type: typ, Value: c})
	}

	for _, e := range ecs.Query(w, component.ConstraintComponent.Kind()) {
		if p.constraints != nil {
			p.constraints.release(w, e, "replaced by load")
		}
		ecs.DestroyEntity(w, e)
	}

	for _, comp := range loaded {
		base := comp.Value.Common()
		e := ecs.CreateEntity(w)
		if base.Name != "" {
			if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Name: base.Name}); err != nil {
				return fmt.Errorf("persistence: add name: %w", err)
			}
		}
		pos := base.Transform.Position
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y, Z: pos.Z, ScaleX: 1, ScaleY: 1, Rotation: base.Transform.Rotation.AngleZ()}); err != nil {
			return fmt.Errorf("persistence: add transform: %w", err)
		}
		if err := ecs.Add(w, e, component.ConstraintComponent.Kind(), comp); err != nil {
			return fmt.Errorf("persistence: add constraint: %w", err)
		}
	}

	w.Events().Push(ecs.Event{Type: ecs.EventConstraintsRestored, Data: len(loaded)})
	return nil
}

func (p *PersistenceSystem) SaveFile(w *ecs.World, path string, flags constraint.SaveFlags) error {
	var buf bytes.Buffer
	if err := p.Save(w, &buf, flags); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("persistence: create dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("persistence: write %s: %w", path, err)
	}
	return nil
}

func (p *PersistenceSystem) LoadFile(w *ecs.World, path string, flags constraint.LoadFlags) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("persistence: open %s: %w", path, err)
	}
	defer f.Close()
	return p.Load(w, f, flags)
}
