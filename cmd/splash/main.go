package main

import "github.com/splashgfx/termsplash/cmd/splash/cmd"

func main() {
	cmd.Execute()
}
