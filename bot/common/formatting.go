package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatNumber formats an integer with thousand separators
func FormatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	negative := strings.HasPrefix(str, "-")
	if negative {
		str = str[1:]
	}

	length := len(str)
	if length > 3 {
		var result strings.Builder
		for i, digit := range str {
			if i > 0 && (length-i)%3 == 0 {
				result.WriteRune(',')
			}
			result.WriteRune(digit)
		}
		str = result.String()
	}

	if negative {
		return "-" + str
	}
	return str
}

// Mention formats a user mention from a numeric Discord ID
func Mention(discordID int64) string {
	return fmt.Sprintf("<@%d>", discordID)
}

// RoleMention formats a role mention from a numeric role ID
func RoleMention(roleID int64) string {
	return fmt.Sprintf("<@&%d>", roleID)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that
// displays in the reader's local timezone. Format types: "t" = short
// time, "f" = short date/time, "R" = relative time.
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// MentionList joins user mentions with commas
func MentionList(discordIDs []int64) string {
	mentions := make([]string, len(discordIDs))
	for i, id := range discordIDs {
		mentions[i] = Mention(id)
	}
	return strings.Join(mentions, ", ")
}
