/* mock_session.go
 * Contains an in-memory DiscordSession for the handler tests
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// MockDiscordSession records every reply by channel. Sends to a channel listed in FailChannels return an error, and
// once FailAfter messages have been accepted every later send fails
type MockDiscordSession struct {
	SentMessages []MockMessage
	FailChannels map[string]bool
	FailAfter    int
}

// MockMessage is one message sent through the mock
type MockMessage struct {
	ChannelID string
	Content   string
}

// ChannelMessageSend records the message, or fails as configured
func (m *MockDiscordSession) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.FailChannels[channelID] {
		return nil, fmt.Errorf("channel %s unavailable", channelID)
	}
	if m.FailAfter > 0 && len(m.SentMessages) >= m.FailAfter {
		return nil, fmt.Errorf("rate limited after %d messages", m.FailAfter)
	}
	m.SentMessages = append(m.SentMessages, MockMessage{ChannelID: channelID, Content: content})
	return &discordgo.Message{
		ID:        fmt.Sprintf("mock%d", len(m.SentMessages)),
		ChannelID: channelID,
		Content:   content,
	}, nil
}

// GetLastMessage returns the last message sent, or an empty MockMessage if none
func (m *MockDiscordSession) GetLastMessage() MockMessage {
	if len(m.SentMessages) == 0 {
		return MockMessage{}
	}
	return m.SentMessages[len(m.SentMessages)-1]
}

// MessagesFor returns the content sent to one channel, oldest first
func (m *MockDiscordSession) MessagesFor(channelID string) []string {
	var res []string
	for _, msg := range m.SentMessages {
		if msg.ChannelID == channelID {
			res = append(res, msg.Content)
		}
	}
	return res
}

func NewMockDiscordSession() *MockDiscordSession {
	return &MockDiscordSession{SentMessages: make([]MockMessage, 0)}
}
