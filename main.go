// The main package for the discovery executable.
package main

import (
	"github.com/joho/godotenv"

	"github.com/JakeFAU/employee-discovery/cmd"
)

func main() {
	// A missing .env is normal; settings then come from the environment.
	_ = godotenv.Load()
	cmd.Execute()
}
