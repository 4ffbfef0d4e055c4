// Command invite prints the OAuth2 URL that adds the bot to a server
// with the permissions the calendar needs.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	appID := os.Getenv("DISCORD_APP_ID")
	if appID == "" {
		log.Fatal("DISCORD_APP_ID environment variable required")
	}

	permissions := discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionManageMessages |
		discordgo.PermissionEmbedLinks |
		discordgo.PermissionReadMessageHistory

	fmt.Printf("https://discord.com/api/oauth2/authorize?client_id=%s&permissions=%d&scope=bot%%20applications.commands\n",
		appID, permissions)
}
