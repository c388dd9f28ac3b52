// Package themes holds the color palettes for the terminal UI.
package themes

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type ThemeName string

const (
	ThemeSolarized ThemeName = "solarized"
	ThemeGruvbox   ThemeName = "gruvbox"
	ThemeZenburn   ThemeName = "zenburn"
	ThemeCyberpunk ThemeName = "cyberpunk"
	ThemeRandom    ThemeName = "random"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = ThemeSolarized

var themeNames = []ThemeName{ThemeRandom, ThemeSolarized, ThemeGruvbox, ThemeZenburn, ThemeCyberpunk}

// Theme represents a color theme for tview applications.
// SuccessColor and ErrorColor tint the translation status line.
type Theme struct {
	Name                        ThemeName
	PrimitiveBackgroundColor    tcell.Color
	ContrastBackgroundColor     tcell.Color
	MoreContrastBackgroundColor tcell.Color
	BorderColor                 tcell.Color
	TitleColor                  tcell.Color
	PrimaryTextColor            tcell.Color
	SecondaryTextColor          tcell.Color
	TertiaryTextColor           tcell.Color
	InverseTextColor            tcell.Color
	SuccessColor                tcell.Color
	ErrorColor                  tcell.Color
}

// palette lists colors as 0xRRGGBB in Theme field order after Name.
type palette [11]int32

var palettes = map[ThemeName]palette{
	// Solarized Dark
	ThemeSolarized: {0x002b36, 0x073642, 0x586e75, 0x839496, 0x93a1a1, 0x839496, 0xb58900, 0x2aa198, 0xfdf6e3, 0x859900, 0xdc322f},
	// https://github.com/morhetz/gruvbox
	ThemeGruvbox: {0x282828, 0x3c3836, 0x504945, 0x928374, 0xfbf1c7, 0xebdbb2, 0xd79921, 0x689d6a, 0xfbf1c7, 0x98971a, 0xcc241d},
	ThemeZenburn: {0x3f3f3f, 0x303030, 0x272727, 0xdcdccc, 0xffffff, 0xdcdccc, 0xe3ceab, 0x93e0e3, 0xffffff, 0x7f9f7f, 0xcc9393},
	// Neon on dark purple
	ThemeCyberpunk: {0x100d23, 0x1e1d45, 0x0c0a19, 0x00ffff, 0x00ffff, 0x00ff9c, 0xffff00, 0x00ffff, 0x00ffff, 0x00ff6a, 0xff00ff},
}

func (p palette) theme(name ThemeName) *Theme {
	c := func(i int) tcell.Color { return tcell.NewHexColor(p[i]) }
	return &Theme{
		Name:                        name,
		PrimitiveBackgroundColor:    c(0),
		ContrastBackgroundColor:     c(1),
		MoreContrastBackgroundColor: c(2),
		BorderColor:                 c(3),
		TitleColor:                  c(4),
		PrimaryTextColor:            c(5),
		SecondaryTextColor:          c(6),
		TertiaryTextColor:           c(7),
		InverseTextColor:            c(8),
		SuccessColor:                c(9),
		ErrorColor:                  c(10),
	}
}

// Names returns the accepted theme names.
func Names() []string {
	names := make([]string, len(themeNames))
	for i, n := range themeNames {
		names[i] = string(n)
	}
	return names
}

// Lookup returns the theme with the given name, ignoring case.
func Lookup(themeNameStr string) (*Theme, error) {
	themeName := ThemeName(strings.ToLower(strings.TrimSpace(themeNameStr)))
	if themeName == "" {
		themeName = DefaultTheme
	}
	if !slices.Contains(themeNames, themeName) {
		return nil, fmt.Errorf("invalid theme name: %s", themeNameStr)
	}
	if themeName == ThemeRandom {
		return NewRandom(), nil
	}
	return palettes[themeName].theme(themeName), nil
}

// ApplyByName looks up a theme and applies it.
func ApplyByName(app *tview.Application, themeNameStr string) (*Theme, error) {
	theme, err := Lookup(themeNameStr)
	if err != nil {
		return nil, err
	}
	theme.Apply(app)
	return theme, nil
}

// NewRandom returns one of the concrete themes at random.
func NewRandom() *Theme {
	concrete := themeNames[1:]
	themeName := concrete[rand.IntN(len(concrete))] // #nosec G404 // no need for cryptographically secure random number generator
	return palettes[themeName].theme(themeName)
}

// Default returns the default theme.
func Default() *Theme {
	return palettes[DefaultTheme].theme(DefaultTheme)
}

// Apply applies the theme to tview.Styles (global styles).
// The app parameter is accepted for API consistency but styles are always applied globally.
func (t *Theme) Apply(app *tview.Application) {
	tview.Styles.PrimitiveBackgroundColor = t.PrimitiveBackgroundColor
	tview.Styles.ContrastBackgroundColor = t.ContrastBackgroundColor
	tview.Styles.MoreContrastBackgroundColor = t.MoreContrastBackgroundColor
	tview.Styles.BorderColor = t.BorderColor
	tview.Styles.TitleColor = t.TitleColor
	tview.Styles.GraphicsColor = t.BorderColor
	tview.Styles.PrimaryTextColor = t.PrimaryTextColor
	tview.Styles.SecondaryTextColor = t.SecondaryTextColor
	tview.Styles.TertiaryTextColor = t.TertiaryTextColor
	tview.Styles.InverseTextColor = t.InverseTextColor
	tview.Styles.ContrastSecondaryTextColor = t.PrimaryTextColor
}
