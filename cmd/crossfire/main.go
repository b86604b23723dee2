package main

import (
	"github.com/crossfire-game/crossfire-go/internal/cli"
)

func main() {
	cli.Execute()
}
