package lottery

import (
	"github.com/bwmarrin/discordgo"

	"lotto/bot/common"

	"lotto/service"
)

type Feature struct {
	lotteryService service.LotteryService
	accountService service.AccountService
}

func New(lotteryService service.LotteryService, accountService service.AccountService) *Feature {
	return &Feature{
		lotteryService: lotteryService,
		accountService: accountService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand")
		return
	}

	switch options[0].Name {
	case "enter":
		f.handleEnter(s, i)
	case "pot":
		f.handlePot(s, i)
	case "players":
		f.handlePlayers(s, i)
	case "winner":
		f.handleWinner(s, i, options[0].Options)
	case "draw":
		f.handleDraw(s, i)
	case "setprice":
		f.handleSetPrice(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}
