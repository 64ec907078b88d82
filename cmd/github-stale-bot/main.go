package main

import (
	"github.com/fabien-marty/github-stale-bot/internal/infra/controllers/cli"
)

func main() {
	cli.Main()
}
