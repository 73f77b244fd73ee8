package leaderboardservice

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
)

// ErrNoStandings is returned when there is nothing to chart.
var ErrNoStandings = errors.New("no standings to chart")

// ChartPalette colours a rendered chart.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Leader     drawing.Color
	Text       drawing.Color
}

// DefaultChartPalette is used by the HTTP surface.
var DefaultChartPalette = ChartPalette{
	Background: drawing.ColorFromHex("1b1f23"),
	Bar:        drawing.ColorFromHex("5f7f6e"),
	Leader:     drawing.ColorFromHex("d4a72c"),
	Text:       drawing.ColorFromHex("e6e6e6"),
}

// GenerateStandingsChart renders standings as a PNG bar chart, one bar per
// player in rank order. The leader's bar uses the accent colour.
func GenerateStandingsChart(standings []leaderboarddomain.Standing, palette ChartPalette) ([]byte, error) {
	if len(standings) == 0 {
		return nil, ErrNoStandings
	}

	bars := make([]chart.Value, len(standings))
	var top float64
	for i, s := range standings {
		fill := palette.Bar
		if s.Rank == 1 {
			fill = palette.Leader
		}
		v := float64(s.Score)
		if v > top {
			top = v
		}
		bars[i] = chart.Value{
			Label: fmt.Sprintf("#%d %s", s.Rank, s.Username),
			Value: v,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
				StrokeWidth: 1,
			},
		}
	}
	// go-chart refuses a zero-height range, e.g. when nobody has scored yet.
	if top == 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:  "Top Scores",
		Width:  800,
		Height: 400,
		TitleStyle: chart.Style{
			FontColor: palette.Text,
		},
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Style{
			FontColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.Text,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		BarWidth: 80,
		Bars:     bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
