package main

import (
	"github.com/joho/godotenv"

	"github.com/Lyzr-Apps/ai-newsbot-smart-studio/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// .env is optional; a missing file is fine.
	_ = godotenv.Load()

	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
