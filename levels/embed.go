package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var LevelsFS embed.FS

// Dir is where on-disk levels override the embedded copies.
var Dir = "levels"

type Level struct {
	Name     string   `json:"name,omitempty"`
	Entities []Entity `json:"entities,omitempty"`
}

// Entity places one prefab. Type names the prefab file, with or without its
// .yaml extension. Props are layered over the prefab's constraint props.
type Entity struct {
	Type     string         `json:"type"`
	Name     string         `json:"name,omitempty"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Z        float64        `json:"z,omitempty"`
	Rotation *float64       `json:"rotation,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := os.ReadFile(filepath.Join(Dir, name))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	return &lvl, nil
}
