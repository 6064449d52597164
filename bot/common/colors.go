package common

// Embed colors
const (
	ColorPrimary = 0x5865f2
	ColorSuccess = 0x57f287
	ColorWarning = 0xfee75c
	ColorError   = 0xed4245
)
