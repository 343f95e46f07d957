// Package discordbot runs the guild bot surface: the /grantaccess slash
// command buyers use to link their Discord account to a purchase.
package discordbot

import (
	"context"
	"fmt"
	"time"

	"mamba-store/internal/client"
	"mamba-store/internal/config"
	"mamba-store/internal/service"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

type Bot struct {
	discord *client.DiscordClient
	cfg     config.Discord
	access  service.AccessService
	logger  zerolog.Logger
}

func New(discord *client.DiscordClient, cfg config.Discord, access service.AccessService, logger zerolog.Logger) *Bot {
	return &Bot{
		discord: discord,
		cfg:     cfg,
		access:  access,
		logger:  logger,
	}
}

// Start opens the gateway connection and registers the guild slash command.
func (b *Bot) Start() error {
	session := b.discord.Session()
	if session == nil {
		return client.ErrDiscordNotConfigured
	}

	session.AddHandler(b.handleInteraction)

	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	command := &discordgo.ApplicationCommand{
		Name:        "grantaccess",
		Description: "Request MambaReceipts access",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "email",
				Description: "Email associated with your purchase",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "orderid",
				Description: "Your order ID from the purchase",
				Required:    true,
			},
		},
	}

	appID := b.cfg.ClientID
	if appID == "" {
		appID = session.State.User.ID
	}

	if _, err := session.ApplicationCommandCreate(appID, b.cfg.GuildID, command); err != nil {
		return fmt.Errorf("register slash command: %w", err)
	}

	b.logger.Info().Msg("discord bot started")
	return nil
}

func (b *Bot) Close() error {
	session := b.discord.Session()
	if session == nil {
		return nil
	}
	return session.Close()
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name != "grantaccess" {
		return
	}

	var email, orderID string
	for _, opt := range data.Options {
		switch opt.Name {
		case "email":
			email = opt.StringValue()
		case "orderid":
			orderID = opt.StringValue()
		}
	}

	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	expiresAt, err := b.access.GrantAccess(ctx, service.GrantAccessInput{
		Email:         email,
		DiscordUserID: userID,
		OrderID:       orderID,
	})

	var content string
	if err != nil {
		b.logger.Error().Err(err).Str("email", email).Msg("grantaccess command failed")
		content = fmt.Sprintf("❌ Error granting access: %v", err)
	} else {
		content = fmt.Sprintf("✅ Access granted! Your MambaReceipts access is active until %s. Check your roles!", expiresAt.Format("02.01.2006"))
	}

	respondErr := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if respondErr != nil {
		b.logger.Error().Err(respondErr).Msg("interaction respond failed")
	}
}
