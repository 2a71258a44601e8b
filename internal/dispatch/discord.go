package dispatch

import (
	"context"
	"strings"

	"semaforo-srv/internal/model"
	"semaforo-srv/pkg/discord"
)

type discordTransport struct {
	d discord.IDiscord
}

// NewDiscordTransport delivers alerts to a Discord webhook channel, the
// operator-facing surface. Recipient users/roles are shown as embed fields
// since the webhook has no per-user addressing.
func NewDiscordTransport(d discord.IDiscord) Transport {
	return &discordTransport{d: d}
}

func (t *discordTransport) Send(ctx context.Context, a model.Alert) error {
	var fields []discord.EmbedField
	if a.CampaignID != nil {
		fields = append(fields, discord.EmbedField{Name: "Cuña", Value: *a.CampaignID, Inline: true})
	}
	fields = append(fields, discord.EmbedField{Name: "Tipo", Value: a.Type.String(), Inline: true})
	if len(a.Recipients.Users) > 0 {
		fields = append(fields, discord.EmbedField{
			Name: "Responsables", Value: strings.Join(a.Recipients.Users, ", "),
		})
	}
	if len(a.Recipients.Roles) > 0 {
		fields = append(fields, discord.EmbedField{
			Name: "Roles", Value: strings.Join(a.Recipients.Roles, ", "), Inline: true,
		})
	}

	return t.d.SendEmbed(ctx, discord.MessageOptions{
		Type:        messageTypeFor(a.Severity),
		Title:       a.Title,
		Description: a.Body,
		Fields:      fields,
		Timestamp:   a.ScheduledFor,
	})
}

func messageTypeFor(s model.AlertSeverity) discord.MessageType {
	switch s {
	case model.SeverityCritical, model.SeverityError:
		return discord.MessageTypeError
	case model.SeverityWarning:
		return discord.MessageTypeWarning
	default:
		return discord.MessageTypeInfo
	}
}
