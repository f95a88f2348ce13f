/* session_interface.go
 * Contains the Discord session interface the handlers reply through, and the reply helper that splits long replies
 * to fit Discord's message limit
 * Authors: Zachary Bower
 */

package bot

import (
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// maxMessageLength is Discord's limit on the content of a single message, in characters
const maxMessageLength = 2000

// DiscordSession is the part of *discordgo.Session the bot sends replies through
type DiscordSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ DiscordSession = (*discordgo.Session)(nil)

// reply sends content to a channel, split over several messages when it is longer than Discord allows. A failed send
// is logged and the remaining parts are dropped
func (b *Bot) reply(session DiscordSession, channelID string, content string) {
	for _, part := range splitMessage(content, maxMessageLength) {
		if _, err := session.ChannelMessageSend(channelID, part); err != nil {
			b.Logger.Warn("failed to send discord message", "channel", channelID, "error", err)
			return
		}
	}
}

// splitMessage breaks content into parts of at most limit characters. Parts end on a line break where possible;
// a single line longer than limit is cut
func splitMessage(content string, limit int) []string {
	if utf8.RuneCountInString(content) <= limit {
		return []string{content}
	}
	var parts []string
	var current strings.Builder
	size := 0
	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
			size = 0
		}
	}
	for _, line := range strings.SplitAfter(content, "\n") {
		runes := []rune(line)
		if size+len(runes) > limit {
			flush()
		}
		for len(runes) > limit {
			parts = append(parts, string(runes[:limit]))
			runes = runes[limit:]
		}
		current.WriteString(string(runes))
		size += len(runes)
	}
	flush()
	return parts
}
