package main

import (
	"github.com/prawira/storefront/cmd"
)

func main() {
	cmd.Start()
}
