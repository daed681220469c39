package main

import (
	"github.com/joho/godotenv"
	"github.com/khanhnv2901/macsecscan/cmd"
)

var execCmd = cmd.Execute

func main() {
	// MACSECSCAN_* settings may come from a local .env file.
	_ = godotenv.Load()
	execCmd()
}
