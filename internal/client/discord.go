package client

import (
	"context"
	"errors"
	"fmt"

	"mamba-store/internal/config"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

var ErrDiscordNotConfigured = errors.New("discord bot not configured")

// DiscordClient owns the bot gateway session. A missing token yields a
// disabled client whose role operations fail softly, so the storefront runs
// without the Discord integration.
type DiscordClient struct {
	session *discordgo.Session
	cfg     config.Discord
	logger  zerolog.Logger
}

func NewDiscordClient(cfg config.Discord, logger zerolog.Logger) (*DiscordClient, error) {
	c := &DiscordClient{
		cfg:    cfg,
		logger: logger,
	}

	if !cfg.Configured() {
		logger.Warn().Msg("discord bot token missing, discord integration disabled")
		return c, nil
	}

	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMembers

	c.session = session
	return c, nil
}

// Session exposes the underlying gateway session, nil when disabled.
func (c *DiscordClient) Session() *discordgo.Session {
	return c.session
}

func (c *DiscordClient) GrantRole(ctx context.Context, discordUserID string) error {
	if c.session == nil {
		c.logger.Warn().Str("discord_user_id", discordUserID).Msg("discord disabled, skipping role grant")
		return ErrDiscordNotConfigured
	}
	if err := c.session.GuildMemberRoleAdd(c.cfg.GuildID, discordUserID, c.cfg.RoleID); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

func (c *DiscordClient) RevokeRole(ctx context.Context, discordUserID string) error {
	if c.session == nil {
		c.logger.Warn().Str("discord_user_id", discordUserID).Msg("discord disabled, skipping role revoke")
		return ErrDiscordNotConfigured
	}
	if err := c.session.GuildMemberRoleRemove(c.cfg.GuildID, discordUserID, c.cfg.RoleID); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	return nil
}
