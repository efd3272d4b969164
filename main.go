package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	levelName := flag.String("level", "pendulum", "level name in levels/ (basename, .json optional)")
	savePath := flag.String("save", "saves/constraints.sav", "file written by F5 and read by F9")
	follow := flag.String("follow", "", "name of an entity the camera keeps centered")
	watch := flag.Bool("watch", true, "reload the level when prefab or level files change on disk")
	debug := flag.Bool("debug", true, "print constraint state over the scene")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("springjoint")

	game, err := NewGame(*levelName, *savePath, *follow, *watch, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
