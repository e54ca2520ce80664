package main

import (
	"github.com/robotalks/arduino.go/pkg/cli/sh"
	"github.com/robotalks/arduino.go/pkg/config"

	_ "github.com/robotalks/arduino.go/pkg/cli/cmds/pins"
)

//go-build: CGO_ENABLED=0

func init() {
	config.SetupFlags()
}

func main() {
	sh.Main()
}
