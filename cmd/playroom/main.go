package main

import (
	"github.com/playroom-games/playroom/internal/cli"
)

func main() {
	cli.Execute()
}
