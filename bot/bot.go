package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"lotto/bot/common"
	"lotto/bot/features/balance"
	"lotto/bot/features/lottery"
	"lotto/events"
	"lotto/service"
)

// Config holds bot configuration
type Config struct {
	Token             string
	GuildID           string
	AnnounceChannelID string
}

type Bot struct {
	config         Config
	session        *discordgo.Session
	lotteryFeature *lottery.Feature
	balanceFeature *balance.Feature
	eventBus       *events.Bus
}

func New(config Config, lotteryService service.LotteryService, accountService service.AccountService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:         config,
		session:        dg,
		lotteryFeature: lottery.New(lotteryService, accountService),
		balanceFeature: balance.New(accountService),
		eventBus:       eventBus,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Announce draws and price changes to the configured channel
	if bot.config.AnnounceChannelID != "" {
		eventBus.Subscribe(events.EventTypeWinnerSelected, func(ctx context.Context, event events.Event) {
			if e, ok := event.(events.WinnerSelectedEvent); ok {
				bot.announceWinner(e)
			}
		})
		eventBus.Subscribe(events.EventTypeTicketPriceUpdated, func(ctx context.Context, event events.Event) {
			if e, ok := event.(events.TicketPriceUpdatedEvent); ok {
				bot.announcePriceChange(e)
			}
		})
		log.Info("Lottery announcements enabled")
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance":
		b.balanceFeature.HandleCommand(s, i)
	case "lottery":
		b.lotteryFeature.HandleCommand(s, i)
	}
}

func (b *Bot) announceWinner(e events.WinnerSelectedEvent) {
	message := fmt.Sprintf("🎉 Round **%d** is over! <@%d> wins **%s bits** (%d tickets were sold). A new round has begun.",
		e.RoundID, e.WinnerDiscordID, common.FormatBalance(e.Prize), e.EntrantCount)
	if _, err := b.session.ChannelMessageSend(b.config.AnnounceChannelID, message); err != nil {
		log.Errorf("Failed to announce winner for round %d: %v", e.RoundID, err)
	}
}

func (b *Bot) announcePriceChange(e events.TicketPriceUpdatedEvent) {
	message := fmt.Sprintf("🎟️ Ticket price changed from **%s** to **%s bits**.",
		common.FormatBalance(e.OldPrice), common.FormatBalance(e.NewPrice))
	if _, err := b.session.ChannelMessageSend(b.config.AnnounceChannelID, message); err != nil {
		log.Errorf("Failed to announce price change: %v", err)
	}
}
