//go:build !test

/* bot_runtime.go
 * Contains runtime-only Discord bot methods that use *discordgo.Session directly.
 * Delegates to testable handlers in handlers.go to avoid code duplication.
 * Authors: Zachary Bower
 */

package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Run starts the Discord bot and listens for messages until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	// create a session
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return err
	}

	// add a event handler
	discord.AddHandler(b.newMessage)

	// open session
	if err := discord.Open(); err != nil {
		return err
	}
	defer discord.Close() // close session, after function termination

	b.Logger.Info("Smallie bot started", "admins", len(b.Admins))
	<-ctx.Done()
	return nil
}

// newMessage delegates to the testable newMessageHandler
// *discordgo.Session implements DiscordSession interface
func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}
