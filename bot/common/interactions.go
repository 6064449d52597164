package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// UserID returns the numeric Discord ID of the interaction's invoker
func UserID(i *discordgo.InteractionCreate) int64 {
	if i.Member == nil || i.Member.User == nil {
		return 0
	}
	id, _ := strconv.ParseInt(i.Member.User.ID, 10, 64)
	return id
}

// DisplayName returns the invoker's nickname, falling back to username
func DisplayName(i *discordgo.InteractionCreate) string {
	if i.Member == nil {
		return ""
	}
	if i.Member.Nick != "" {
		return i.Member.Nick
	}
	if i.Member.User != nil {
		return i.Member.User.Username
	}
	return ""
}

// MemberRoleIDs returns the invoker's guild roles as numeric IDs
func MemberRoleIDs(i *discordgo.InteractionCreate) []int64 {
	if i.Member == nil {
		return nil
	}
	ids := make([]int64, 0, len(i.Member.Roles))
	for _, role := range i.Member.Roles {
		if id, err := strconv.ParseInt(role, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsMod reports whether the invoker carries the mod role or has the
// administrator permission
func IsMod(i *discordgo.InteractionCreate, modRoleID int64) bool {
	if i.Member == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	for _, role := range i.Member.Roles {
		if id, err := strconv.ParseInt(role, 10, 64); err == nil && id == modRoleID && modRoleID != 0 {
			return true
		}
	}
	return false
}

// ParseSnowflake parses a Discord snowflake ID string
func ParseSnowflake(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id != 0
}

// OptionMap indexes an interaction's options by name
func OptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}
