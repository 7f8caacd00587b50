// Command bconduit-echo serves a handler that echoes every request back as plain text.
package main

import (
	"github.com/advdv/bconduit/bserve"
	"github.com/advdv/bconduit/internal/example"
)

func main() {
	bserve.NewApp[bserve.BaseEnvironment](example.Echo()).Run()
}
