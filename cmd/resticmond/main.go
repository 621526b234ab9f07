package main

import (
	"github.com/resticmon/resticmon/pkg/cli"
)

func main() {
	cli.Execute()
}
