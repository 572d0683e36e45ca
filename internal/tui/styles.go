package tui

import "github.com/charmbracelet/lipgloss"

// palette is one theme's color table.
type palette struct {
	primary       lipgloss.Color
	secondary     lipgloss.Color
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	userMessage   lipgloss.Color
	border        lipgloss.Color
	danger        lipgloss.Color
}

var lightPalette = palette{
	primary:       lipgloss.Color("#7c4dff"),
	secondary:     lipgloss.Color("#b388ff"),
	textPrimary:   lipgloss.Color("#333333"),
	textSecondary: lipgloss.Color("#666666"),
	userMessage:   lipgloss.Color("#7c4dff"),
	border:        lipgloss.Color("#e0e0e0"),
	danger:        lipgloss.Color("#ff4444"),
}

var darkPalette = palette{
	primary:       lipgloss.Color("#9d74ff"),
	secondary:     lipgloss.Color("#b388ff"),
	textPrimary:   lipgloss.Color("#e0e0e0"),
	textSecondary: lipgloss.Color("#aaaaaa"),
	userMessage:   lipgloss.Color("#9d74ff"),
	border:        lipgloss.Color("#444444"),
	danger:        lipgloss.Color("#ff4444"),
}

// styles holds the lipgloss styles derived from the active palette.
type styles struct {
	logo          lipgloss.Style
	sidebar       lipgloss.Style
	newChat       lipgloss.Style
	historyTitle  lipgloss.Style
	historyItem   lipgloss.Style
	historyActive lipgloss.Style
	historyCursor lipgloss.Style

	header     lipgloss.Style
	userLabel  lipgloss.Style
	aiLabel    lipgloss.Style
	attachment lipgloss.Style
	typing     lipgloss.Style
	notice     lipgloss.Style
	errNotice  lipgloss.Style
	disclaimer lipgloss.Style
	help       lipgloss.Style

	introTitle lipgloss.Style
	introText  lipgloss.Style

	modalBox   lipgloss.Style
	modalTitle lipgloss.Style
	modalHint  lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	return styles{
		logo: lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(p.border).
			PaddingRight(1),
		newChat:      lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		historyTitle: lipgloss.NewStyle().Foreground(p.textSecondary),
		historyItem:  lipgloss.NewStyle().Foreground(p.textPrimary),
		historyActive: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),
		historyCursor: lipgloss.NewStyle().Foreground(p.secondary),

		header: lipgloss.NewStyle().
			Foreground(p.textPrimary).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(p.border),
		userLabel:  lipgloss.NewStyle().Foreground(p.userMessage).Bold(true),
		aiLabel:    lipgloss.NewStyle().Foreground(p.secondary).Bold(true),
		attachment: lipgloss.NewStyle().Foreground(p.textSecondary).Italic(true),
		typing:     lipgloss.NewStyle().Foreground(p.primary),
		notice:     lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		errNotice:  lipgloss.NewStyle().Foreground(p.danger).Bold(true),
		disclaimer: lipgloss.NewStyle().Foreground(p.textSecondary).Italic(true),
		help:       lipgloss.NewStyle().Foreground(p.textSecondary),

		introTitle: lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		introText:  lipgloss.NewStyle().Foreground(p.textSecondary),

		modalBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2),
		modalTitle: lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		modalHint:  lipgloss.NewStyle().Foreground(p.textSecondary),
	}
}
