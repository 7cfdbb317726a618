package main

import (
	"log"
	"os"

	"gitlab.com/aoterocom/AOFuturesBot/bot"
)

func main() {
	if err := bot.NewBot(os.Stdout).App().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
