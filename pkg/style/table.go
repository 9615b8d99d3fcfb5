package style

import (
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/c9s/harmonic/pkg/types"
)

func NewDefaultTableStyle() *table.Style {
	style := table.Style{
		Name:    "StyleRounded",
		Box:     table.StyleBoxRounded,
		Format:  table.FormatOptionsDefault,
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
		Color:   table.ColorOptionsYellowWhiteOnBlack,
	}
	style.Color.Row = text.Colors{text.FgHiYellow, text.BgHiBlack}
	style.Color.RowAlternate = text.Colors{text.FgYellow, text.BgBlack}
	return &style
}

var (
	bullishSprint = color.New(color.FgHiGreen).SprintFunc()
	bearishSprint = color.New(color.FgHiRed).SprintFunc()
)

// Direction renders a pattern direction with the conventional
// green/red coloring when enabled.
func Direction(d types.Direction, withColor bool) string {
	if !withColor {
		return string(d)
	}

	if d == types.DirectionBullish {
		return bullishSprint(string(d))
	}

	return bearishSprint(string(d))
}
