package cmd

import (
	"github.com/fatih/color"

	"github.com/TFMV/cigraph/models"
)

var (
	brand  = color.New(color.FgHiMagenta, color.Bold)
	subtle = color.New(color.FgHiBlack)
	warn   = color.New(color.FgYellow)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

// labelColors approximates the canvas palette on a terminal.
var labelColors = map[string]*color.Color{
	models.LabelCompany:    color.New(color.FgBlue),
	models.LabelProduct:    color.New(color.FgMagenta),
	models.LabelPartner:    color.New(color.FgGreen),
	models.LabelRegion:     color.New(color.FgYellow),
	models.LabelInvestment: color.New(color.FgRed),
}

func labelColor(label string) *color.Color {
	if c, ok := labelColors[label]; ok {
		return c
	}
	return subtle
}
