package main

import (
	"log"

	"github.com/modernice/parlance/internal/cli"
)

func main() {
	log.SetFlags(0)
	cli.New().Run()
}
