package main

import (
	"storefront-bridge/internal/cli"
)

func main() {
	cli.Execute()
}
