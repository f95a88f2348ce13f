/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"smallie/api/logic"
	"smallie/api/shared"
	"smallie/api/store"

	"github.com/bwmarrin/discordgo"
)

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Smallie Bot\n")
	res.WriteString("`$leaderboard`: every contestant ranked by votes\n")
	res.WriteString("`$top`: the top 5 contestants still in the competition\n")
	res.WriteString("`$contestant name`: a contestant's profile and votes. Names with spaces need quotes (e.g. \"Ada Obi\")\n")
	res.WriteString("`$quote n`: the price of n votes\n")
	res.WriteString("`$task`: today's challenge\n")
	res.WriteString("`$countdown`: time left until voting closes at 9 PM WAT\n")
	res.WriteString("`$prizefund`: the final prize pool so far\n")
	if b.Admins[message.Author.ID] {
		res.WriteString("\nAdmin commands:\n")
		res.WriteString("`$applications [pending|approved|rejected]`: list signups\n")
		res.WriteString("`$approve id confirm` / `$reject id confirm`: decide on a signup\n")
		res.WriteString("`$eliminate contestantId confirm`: toggle a contestant's elimination\n")
		res.WriteString("`$payout daily|final [request|crypto confirm]`: preview, open or send a payout\n")
		res.WriteString("`$stats`: totals and the last seven days of voting\n")
	}
	b.reply(session, message.ChannelID, res.String())
}

// leaderboardHandler handles the $leaderboard command
func (b *Bot) leaderboardHandler(session DiscordSession, message *discordgo.MessageCreate) {
	board, err := b.APIPtr.Leaderboard(context.Background())
	if err != nil {
		b.reply(session, message.ChannelID, b.errorReply("get the leaderboard", err))
		return
	}
	if len(board) == 0 {
		b.reply(session, message.ChannelID, "No contestants yet")
		return
	}
	b.reply(session, message.ChannelID, "Leaderboard:\n"+formatStandings(board))
}

// topHandler handles the $top command
func (b *Bot) topHandler(session DiscordSession, message *discordgo.MessageCreate) {
	top, err := b.APIPtr.TopContestants(context.Background(), logic.TopContestantCount)
	if err != nil {
		b.reply(session, message.ChannelID, b.errorReply("get the top contestants", err))
		return
	}
	if len(top) == 0 {
		b.reply(session, message.ChannelID, "No contestants are left in the competition")
		return
	}
	b.reply(session, message.ChannelID, fmt.Sprintf("Top %d:\n%s", len(top), formatStandings(top)))
}

// contestantHandler handles the $contestant command, matching the name approximately
func (b *Bot) contestantHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) == 0 {
		b.reply(session, message.ChannelID, "Usage: `$contestant name`")
		return
	}
	c, err := b.APIPtr.SearchContestant(context.Background(), strings.Join(args, " "))
	if err != nil {
		b.reply(session, message.ChannelID, b.errorReply("find that contestant", err))
		return
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("#%d %s (%d) from %s\n", c.ID, c.Name, c.Age, c.Location))
	res.WriteString(fmt.Sprintf("Votes: %d\n", c.Votes))
	if c.Eliminated {
		res.WriteString("Status: eliminated\n")
	}
	if c.Bio != "" {
		res.WriteString(c.Bio + "\n")
	}
	b.reply(session, message.ChannelID, res.String())
}

// quoteHandler handles the $quote command
func (b *Bot) quoteHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) != 1 {
		b.reply(session, message.ChannelID, "Usage: `$quote n`")
		return
	}
	count, err := strconv.Atoi(args[0])
	if err != nil {
		b.reply(session, message.ChannelID, "The number of votes must be a whole number")
		return
	}
	q, err := b.APIPtr.Quote(count)
	if err != nil {
		b.reply(session, message.ChannelID, b.errorReply("price those votes", err))
		return
	}
	res := fmt.Sprintf("%d votes cost $%s (₦%s)", q.Count, q.USD(), q.TotalNGN.String())
	if logic.RequiresEmail(count) {
		res += ". An email address is required for 5 or more votes"
	}
	b.reply(session, message.ChannelID, res)
}

// taskHandler handles the $task command
func (b *Bot) taskHandler(session DiscordSession, message *discordgo.MessageCreate) {
	task, err := b.APIPtr.CurrentTask(context.Background(), b.now())
	if err != nil {
		b.reply(session, message.ChannelID, b.errorReply("get today's task", err))
		return
	}
	header := "Today's task"
	if task.Day > 0 {
		header = fmt.Sprintf("Day %d task", task.Day)
	}
	b.reply(session, message.ChannelID, fmt.Sprintf("%s: **%s**\n%s", header, task.Title, task.Description))
}

// countdownHandler handles the $countdown command
func (b *Bot) countdownHandler(session DiscordSession, message *discordgo.MessageCreate) {
	cd := b.APIPtr.Countdown(b.now())
	b.reply(session, message.ChannelID,
		fmt.Sprintf("Voting closes in %02d:%02d:%02d (task progress %.0f%%)", cd.Hours, cd.Minutes, cd.Seconds, cd.Progress))
}

// prizeFundHandler handles the $prizefund command
func (b *Bot) prizeFundHandler(session DiscordSession, message *discordgo.MessageCreate) {
	fund, err := b.APIPtr.PrizeFund(context.Background())
	if err != nil {
		b.reply(session, message.ChannelID, b.errorReply("get the prize fund", err))
		return
	}
	b.reply(session, message.ChannelID, fmt.Sprintf("Prize fund: $%s (₦%s) from %d votes",
		fund.PoolUSD.StringFixed(2), fund.PoolNGN.String(), fund.TotalVotes))
}

// applicationsHandler handles the $applications command
func (b *Bot) applicationsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	status := shared.ApplicationPending
	if args := commandArgs(message.Content); len(args) > 0 {
		status = strings.ToLower(args[0])
	}
	apps, err := b.APIPtr.ListApplications(context.Background(), status)
	if err != nil {
		b.reply(session, message.ChannelID, b.errorReply("list applications", err))
		return
	}
	if len(apps) == 0 {
		b.reply(session, message.ChannelID, fmt.Sprintf("No %s applications", status))
		return
	}
	var res strings.Builder
	res.WriteString(fmt.Sprintf("%d %s applications:\n", len(apps), status))
	for _, app := range apps {
		res.WriteString(fmt.Sprintf("- `%s` %s <%s> %s\n", app.ID.Hex(), app.Name, app.Email, app.Location))
	}
	b.reply(session, message.ChannelID, res.String())
}

// approveHandler handles the $approve command
func (b *Bot) approveHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) == 0 {
		b.reply(session, message.ChannelID, "Usage: `$approve applicationId confirm`")
		return
	}
	c, err := b.APIPtr.ApproveApplication(context.Background(), args[0], hasConfirm(args[1:]))
	if err != nil {
		b.reply(session, message.ChannelID, b.errorReply("approve the application", err))
		return
	}
	b.Logger.Info("application approved from discord", "admin", message.Author.ID, "contestant", c.ID)
	b.reply(session, message.ChannelID, fmt.Sprintf("%s is now contestant #%d", c.Name, c.ID))
}

// rejectHandler handles the $reject command
func (b *Bot) rejectHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) == 0 {
		b.reply(session, message.ChannelID, "Usage: `$reject applicationId confirm`")
		return
	}
	if err := b.APIPtr.RejectApplication(context.Background(), args[0], hasConfirm(args[1:])); err != nil {
		b.reply(session, message.ChannelID, b.errorReply("reject the application", err))
		return
	}
	b.reply(session, message.ChannelID, "Application rejected")
}

// eliminateHandler handles the $eliminate command
func (b *Bot) eliminateHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) == 0 {
		b.reply(session, message.ChannelID, "Usage: `$eliminate contestantId confirm`")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		b.reply(session, message.ChannelID, "The contestant id must be a number")
		return
	}
	c, err := b.APIPtr.ToggleElimination(context.Background(), id, hasConfirm(args[1:]))
	if err != nil {
		b.reply(session, message.ChannelID, b.errorReply("change that contestant", err))
		return
	}
	state := "back in the competition"
	if c.Eliminated {
		state = "eliminated"
	}
	b.reply(session, message.ChannelID, fmt.Sprintf("%s is now %s", c.Name, state))
}

// payoutHandler handles the $payout command: a preview by default, `request` to open a payout request and
// `crypto confirm` to send the leader's share through the crypto rail
func (b *Bot) payoutHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) == 0 {
		b.reply(session, message.ChannelID, "Usage: `$payout daily|final [request|crypto confirm]`")
		return
	}
	scope := strings.ToLower(args[0])
	action := ""
	if len(args) > 1 {
		action = strings.ToLower(args[1])
	}
	ctx := context.Background()

	switch action {
	case "":
		preview, err := b.APIPtr.PreviewPayout(ctx, scope, b.now())
		if err != nil {
			b.reply(session, message.ChannelID, b.errorReply("preview the payout", err))
			return
		}
		var res strings.Builder
		res.WriteString(fmt.Sprintf("%s payout: pool $%s (₦%s) from %d votes\n", scope,
			preview.PoolUSD.StringFixed(2), preview.PoolNGN.String(), preview.TotalVotes))
		if len(preview.Recipients) == 0 {
			res.WriteString("No votes in scope yet\n")
		}
		for _, r := range preview.Recipients {
			res.WriteString(fmt.Sprintf("- %s: %s $%.2f (%d votes)\n", r.Place, r.Name, r.Payout, r.Votes))
		}
		b.reply(session, message.ChannelID, res.String())
	case "request":
		req, err := b.APIPtr.OpenPayoutRequest(ctx, scope, b.now())
		if err != nil {
			b.reply(session, message.ChannelID, b.errorReply("open the payout request", err))
			return
		}
		b.reply(session, message.ChannelID, fmt.Sprintf("Payout request opened for %s: ₦%.0f (%.4f SOL)",
			req.Recipient.Name, req.Amount, req.AmountSol))
	case "crypto":
		b.reply(session, message.ChannelID, b.cryptoPayoutReply(ctx, scope, hasConfirm(args[2:])))
	default:
		b.reply(session, message.ChannelID, fmt.Sprintf("Unknown payout action %q", action))
	}
}

func (b *Bot) cryptoPayoutReply(ctx context.Context, scope string, confirmed bool) string {
	payment, err := b.APIPtr.TriggerCryptoPayout(ctx, scope, b.now(), confirmed)
	if err != nil {
		return b.errorReply("send the crypto payout", err)
	}
	res := fmt.Sprintf("Sent %.4f SOL to %s. Signature %s, block %d", payment.Amount, payment.Name, payment.Signature,
		payment.Block)
	if payment.Simulated {
		res += " (simulated)"
	}
	return res
}

// statsHandler handles the $stats command
func (b *Bot) statsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	stats, err := b.APIPtr.Stats(context.Background(), b.now())
	if err != nil {
		b.reply(session, message.ChannelID, b.errorReply("load the stats", err))
		return
	}
	var res strings.Builder
	res.WriteString(fmt.Sprintf("%d votes, $%s revenue, $%s final pool, %d active contestants\n", stats.TotalVotes,
		stats.RevenueUSD.StringFixed(2), stats.PoolUSD.StringFixed(2), stats.ActiveContestants))
	for _, day := range stats.Days {
		res.WriteString(fmt.Sprintf("%s: %d votes, daily payout $%s", day.Date, day.Votes, day.PayoutUSD.StringFixed(2)))
		if day.Leader != "" {
			res.WriteString(fmt.Sprintf(", led by %s (%d)", day.Leader, day.LeaderVote))
		}
		res.WriteString("\n")
	}
	b.reply(session, message.ChannelID, res.String())
}

// formatStandings renders contestants as a numbered list
func formatStandings(contestants []store.Contestant) string {
	var res strings.Builder
	for i, c := range contestants {
		res.WriteString(fmt.Sprintf("%d. %s - %d votes", i+1, c.Name, c.Votes))
		if c.Eliminated {
			res.WriteString(" (eliminated)")
		}
		res.WriteString("\n")
	}
	return res.String()
}
