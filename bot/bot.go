/* bot.go
 * Contains the operator bot: command dispatch, argument parsing and admin gating. Requires a discord bot token and an
 * API pointer, both of which are passed in from main.go
 * Authors: Zachary Bower
 */

package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"smallie/api/api"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
)

type Bot struct {
	BotToken string
	APIPtr   *api.API
	Admins   map[string]bool // Discord user ids allowed to run admin commands
	Logger   *slog.Logger
	now      func() time.Time
}

// NewBot creates a bot. adminIDs are the Discord user ids allowed to run admin commands.
func NewBot(botToken string, apiPtr *api.API, adminIDs []string) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}

	admins := make(map[string]bool, len(adminIDs))
	for _, id := range adminIDs {
		if id = strings.TrimSpace(id); id != "" {
			admins[id] = true
		}
	}
	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
		Admins:   admins,
		Logger:   slog.Default(),
		now:      time.Now,
	}, nil
}

// newMessageHandler routes a message to its command handler
// Preconditions: Receives the session, the message and the bot's own user id
// Postconditions: At most one reply is sent to the message's channel
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	//To prevent bot from responding to its own message, if the message author id matches the bot's then just return
	if message.Author == nil || message.Author.ID == botUserID {
		return
	}

	content := message.Content
	switch {
	case startsWith(content, "$help"):
		b.helpMessageHandler(session, message)
	case startsWith(content, "$leaderboard"):
		b.leaderboardHandler(session, message)
	case startsWith(content, "$top"):
		b.topHandler(session, message)
	case startsWith(content, "$task"):
		b.taskHandler(session, message)
	case startsWith(content, "$countdown"):
		b.countdownHandler(session, message)
	case startsWith(content, "$prizefund"):
		b.prizeFundHandler(session, message)
	case startsWith(content, "$contestant"):
		b.contestantHandler(session, message)
	case startsWith(content, "$quote"):
		b.quoteHandler(session, message)

	// Admin commands
	case startsWith(content, "$applications"):
		b.adminOnly(session, message, b.applicationsHandler)
	case startsWith(content, "$approve"):
		b.adminOnly(session, message, b.approveHandler)
	case startsWith(content, "$reject"):
		b.adminOnly(session, message, b.rejectHandler)
	case startsWith(content, "$eliminate"):
		b.adminOnly(session, message, b.eliminateHandler)
	case startsWith(content, "$payout"):
		b.adminOnly(session, message, b.payoutHandler)
	case startsWith(content, "$stats"):
		b.adminOnly(session, message, b.statsHandler)
	}
}

// adminOnly runs handler only when the author is a configured admin
func (b *Bot) adminOnly(session DiscordSession, message *discordgo.MessageCreate, handler func(DiscordSession, *discordgo.MessageCreate)) {
	if !b.Admins[message.Author.ID] {
		b.reply(session, message.ChannelID, "This command is only available to admins")
		return
	}
	handler(session, message)
}

// commandArgs splits a command into its arguments, dropping the command itself. Quoted arguments may contain spaces,
// e.g. $contestant "Ada Obi"
func commandArgs(content string) []string {
	//we use splitter here instead of go's build in splitter because now we can have names that contain spaces
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	parts, err := spaceSplitter.Split(strings.TrimSpace(content))
	if err != nil || len(parts) == 0 {
		return nil
	}
	args := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		part = strings.TrimSpace(strings.Trim(part, "\"“”"))
		if part != "" {
			args = append(args, part)
		}
	}
	return args
}

// hasConfirm reports whether the word confirm appears in args
func hasConfirm(args []string) bool {
	for _, arg := range args {
		if strings.EqualFold(arg, "confirm") {
			return true
		}
	}
	return false
}

// errorReply turns an api error into a channel reply. Unexpected errors are logged and not echoed.
func (b *Bot) errorReply(action string, err error) string {
	switch {
	case errors.Is(err, api.ErrConfirmationRequired):
		return fmt.Sprintf("%s. Add `confirm` to the command to go ahead", err)
	case errors.Is(err, api.ErrValidation), errors.Is(err, api.ErrNotFound), errors.Is(err, api.ErrInvalidState),
		errors.Is(err, api.ErrRailUnavailable):
		return fmt.Sprintf("Could not %s: %s", action, err)
	default:
		b.Logger.Error("bot command failed", "action", action, "error", err)
		return fmt.Sprintf("An error occured trying to %s", action)
	}
}

// Helper function to check if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}
