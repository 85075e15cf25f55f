package main

import (
	"github.com/joho/godotenv"
	"github.com/vedsharma/soar/cmd"
)

func main() {
	// SOAR_PATH may live in a workspace .env file
	_ = godotenv.Load()

	cmd.Execute()
}
