package banner

import (
	"nbkit/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

func GetString() string {
	renderer := lipgloss.DefaultRenderer()

	style := renderer.NewStyle().
		Foreground(styles.ColorBanner).
		Bold(true)

	ascii := `
        __    __   _ __ 
  ____ / /_  / /__(_) /_
 / __ \/ __ \/ //_/ / __/
/ / / / /_/ / ,< / / /_  
/_/ /_/_.___/_/|_/_/\__/  `

	return "\n" + style.Render(ascii) + "\n"
}
