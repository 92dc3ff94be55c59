package ui

import "github.com/pterm/pterm"

const LogoASCII = `
   ┌─────────────────────┐
   │  ┌───┐  ┌───┐       │
   │  │ d │──│ c │  devc │
   │  └───┘  └───┘       │
   └─────────────────────┘
`

// PrintBanner is shown before the interactive menu.
func PrintBanner() {
	pterm.DefaultCenter.Println(pterm.NewRGB(0, 122, 204).Sprint(LogoASCII))
}
