// Command healthcheck connects to Discord with the configured token and
// exits 0 once the gateway reports ready, 1 otherwise. Suitable as a
// container health probe.
package main

import (
	"log"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

const readyTimeout = 15 * time.Second

func main() {
	godotenv.Load()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		log.Println("[healthcheck] DISCORD_TOKEN not set")
		os.Exit(1)
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Printf("[healthcheck] session: %v", err)
		os.Exit(1)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	ready := make(chan struct{})
	session.AddHandlerOnce(func(_ *discordgo.Session, _ *discordgo.Ready) {
		close(ready)
	})

	if err := session.Open(); err != nil {
		log.Printf("[healthcheck] connect: %v", err)
		os.Exit(1)
	}
	defer session.Close()

	select {
	case <-ready:
		log.Println("[healthcheck] OK")
	case <-time.After(readyTimeout):
		log.Println("[healthcheck] timed out waiting for gateway ready")
		os.Exit(1)
	}
}
