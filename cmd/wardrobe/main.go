package main

import (
	"github.com/wardrobe-project/wardrobe/internal/cli"
	"github.com/wardrobe-project/wardrobe/pkg/logging"
)

func main() {
	defer logging.Sync()
	cli.Execute()
}
