package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vastu/internal/ui/theme"
)

const bannerArt = `
 ██╗   ██╗ █████╗ ███████╗████████╗██╗   ██╗
 ██║   ██║██╔══██╗██╔════╝╚══██╔══╝██║   ██║
 ██║   ██║███████║███████╗   ██║   ██║   ██║
 ╚██╗ ██╔╝██╔══██║╚════██║   ██║   ██║   ██║
  ╚████╔╝ ██║  ██║███████║   ██║   ╚██████╔╝
   ╚═══╝  ╚═╝  ╚═╝╚══════╝   ╚═╝    ╚═════╝`

const bannerCompact = "V A S T U"

// RenderBanner returns the banner in the primary color, falling back to
// spaced letters below 46 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 46 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
