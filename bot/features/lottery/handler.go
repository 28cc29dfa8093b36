package lottery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"lotto/bot/common"
	"lotto/service"
)

// handleEnter buys one ticket at the current price. The exact-payment rule
// lives in the service; the bot always offers the advertised price.
func (f *Feature) handleEnter(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := f.accountService.GetOrCreateAccount(ctx, discordID, i.Member.User.Username); err != nil {
		log.Errorf("Error getting account %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to access your account. Please try again.")
		return
	}

	state, err := f.lotteryService.GetRoundInfo(ctx)
	if err != nil {
		log.Errorf("Error getting round info: %v", err)
		common.RespondWithError(s, i, "Unable to read the current round. Please try again.")
		return
	}

	entrant, err := f.lotteryService.Enter(ctx, discordID, state.TicketPrice)
	if err != nil {
		if strings.Contains(err.Error(), "insufficient balance") {
			common.RespondWithError(s, i, fmt.Sprintf("You need **%s bits** for a ticket.", common.FormatBalance(state.TicketPrice)))
			return
		}
		log.Errorf("Error entering lottery for %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to enter the lottery. Please try again.")
		return
	}

	common.RespondWithSuccess(s, i,
		fmt.Sprintf("You entered round **%d** for **%s bits**. Good luck!",
			entrant.RoundID, common.FormatBalance(entrant.PaidAmount)), false)
}

func (f *Feature) handlePot(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	state, err := f.lotteryService.GetRoundInfo(ctx)
	if err != nil {
		log.Errorf("Error getting round info: %v", err)
		common.RespondWithError(s, i, "Unable to read the current round. Please try again.")
		return
	}

	count, err := f.lotteryService.GetEntrantCount(ctx)
	if err != nil {
		log.Errorf("Error counting entrants: %v", err)
		common.RespondWithError(s, i, "Unable to read the current round. Please try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎟️ Lottery Round %d", state.RoundID),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Pot", Value: fmt.Sprintf("%s bits", common.FormatBalance(state.Pool)), Inline: true},
			{Name: "Ticket price", Value: fmt.Sprintf("%s bits", common.FormatBalance(state.TicketPrice)), Inline: true},
			{Name: "Tickets sold", Value: strconv.Itoa(count), Inline: true},
		},
	}
	common.RespondWithEmbed(s, i, embed, false)
}

func (f *Feature) handlePlayers(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	entrants, err := f.lotteryService.GetEntrants(ctx)
	if err != nil {
		log.Errorf("Error getting entrants: %v", err)
		common.RespondWithError(s, i, "Unable to list entrants. Please try again.")
		return
	}

	if len(entrants) == 0 {
		common.RespondWithSuccess(s, i, "No tickets sold yet this round.", true)
		return
	}

	var sb strings.Builder
	for idx, entrant := range entrants {
		fmt.Fprintf(&sb, "%d. <@%d>\n", idx+1, entrant.DiscordID)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Entrants (%d tickets)", len(entrants)),
		Description: sb.String(),
	}
	common.RespondWithEmbed(s, i, embed, false)
}

func (f *Feature) handleWinner(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a round number")
		return
	}
	roundID := options[0].IntValue()

	winnerID, err := f.lotteryService.GetWinner(ctx, roundID)
	if err != nil {
		log.Errorf("Error getting winner for round %d: %v", roundID, err)
		common.RespondWithError(s, i, "Unable to look up the winner. Please try again.")
		return
	}

	if winnerID == 0 {
		common.RespondWithSuccess(s, i, fmt.Sprintf("No winner recorded for round %d.", roundID), true)
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Round %d winner: <@%d>", roundID, winnerID), false)
}

func (f *Feature) handleDraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.lotteryService.SelectWinner(ctx, discordID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			common.RespondWithError(s, i, "Only the lottery owner can draw a winner.")
		case errors.Is(err, service.ErrNoEntrants):
			common.RespondWithError(s, i, "No entrants this round; nothing to draw.")
		case errors.Is(err, service.ErrPayoutFailed):
			log.Errorf("Payout failed for draw by %d: %v", discordID, err)
			common.RespondWithError(s, i, "Payout failed; the round was not closed.")
		default:
			log.Errorf("Error drawing winner: %v", err)
			common.RespondWithError(s, i, "Unable to draw a winner. Please try again.")
		}
		return
	}

	common.RespondWithSuccess(s, i,
		fmt.Sprintf("🎉 Round **%d** winner: <@%d> takes **%s bits** (%d tickets sold)!",
			result.RoundID, result.WinnerDiscordID, common.FormatBalance(result.Prize), result.EntrantCount), false)
}

func (f *Feature) handleSetPrice(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	discordID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify the new ticket price")
		return
	}
	newPrice := options[0].IntValue()

	if err := f.lotteryService.UpdateTicketPrice(ctx, discordID, newPrice); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			common.RespondWithError(s, i, "Only the lottery owner can change the ticket price.")
		case errors.Is(err, service.ErrInvalidPrice):
			common.RespondWithError(s, i, "The ticket price must be positive.")
		default:
			log.Errorf("Error updating ticket price: %v", err)
			common.RespondWithError(s, i, "Unable to update the price. Please try again.")
		}
		return
	}

	common.RespondWithSuccess(s, i,
		fmt.Sprintf("Ticket price set to **%s bits** for future entries.", common.FormatBalance(newPrice)), false)
}
