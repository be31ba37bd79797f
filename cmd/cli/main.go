// chatstat - Chat Transcript Statistics
//
// chatstat parses exported group chat transcripts and reports who talks,
// when, and how.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ccollicutt/chatstat/internal/cli"
)

func main() {
	// A missing .env file is not an error
	_ = godotenv.Load()
	os.Exit(cli.Execute())
}
