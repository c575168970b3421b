package parser

import (
	"regexp"
	"strconv"

	"github.com/jeanthielis/relatorio-retidos/internal/model"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// ClassifyLine maps a furnace/line identifier such as "Forno 10" to its production line.
// Only the first run of digits counts; no digits or an unknown code gives model.LineOthers.
func ClassifyLine(raw any) model.Line {
	digits := digitRun.FindString(Stringify(raw))
	if digits == "" {
		return model.LineOthers
	}
	code, err := strconv.Atoi(digits)
	if err != nil {
		return model.LineOthers
	}
	switch code {
	case 10, 11:
		return model.LineFour
	case 12, 13:
		return model.LineSix
	default:
		return model.LineOthers
	}
}
