package tui

import "github.com/gdamore/tcell/v2"

// Color constants for the terminal theme
var (
	ColorUserText      = tcell.NewRGBColor(255, 176, 0)   // Warm amber - user messages
	ColorAssistantText = tcell.NewRGBColor(0, 255, 135)   // Mint green - assistant messages
	ColorBannerText    = tcell.NewRGBColor(169, 169, 169) // Gray - status banners
	ColorErrorText     = tcell.NewRGBColor(255, 99, 71)   // Tomato - error responses
	ColorFileText      = tcell.NewRGBColor(127, 255, 212) // Aquamarine - analyzed-files footer
	ColorPrompt        = tcell.NewRGBColor(255, 165, 0)   // Orange - input prompt
	ColorStatusReady   = tcell.NewRGBColor(144, 238, 144) // Light green - ready status
	ColorStatusBusy    = tcell.NewRGBColor(255, 218, 185) // Peach - streaming status
	ColorStatusOffline = tcell.NewRGBColor(211, 211, 211) // Light gray - offline status
)

// Style presets combining colors with text attributes
var (
	StyleDefault       = tcell.StyleDefault.Background(tcell.ColorBlack)
	StyleUserText      = StyleDefault.Foreground(ColorUserText)
	StyleAssistantText = StyleDefault.Foreground(ColorAssistantText)
	StyleBannerText    = StyleDefault.Foreground(ColorBannerText).Italic(true)
	StyleErrorText     = StyleDefault.Foreground(ColorErrorText)
	StyleFileText      = StyleDefault.Foreground(ColorFileText).Dim(true)
	StylePrompt        = StyleDefault.Foreground(ColorPrompt).Bold(true)
	StyleStatusReady   = StyleDefault.Foreground(ColorStatusReady)
	StyleStatusBusy    = StyleDefault.Foreground(ColorStatusBusy)
	StyleStatusOffline = StyleDefault.Foreground(ColorStatusOffline)
)
