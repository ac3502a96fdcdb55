package testdata

import (
	"encoding/json"
	"math"
	"time"

	"git.lost.host/meutraa/xylo/internal/game"
)

// data is a short generated chart in the cache file layout.
const data = `{
  "notes": [
    {"time": 0.5108390022675737, "lane": 2},
    {"time": 0.7662585034013606, "lane": 0},
    {"time": 1.0216780045351474, "lane": 3},
    {"time": 1.2770975056689343, "lane": 2},
    {"time": 1.3931972789115647, "lane": 1},
    {"time": 1.7646258503401361, "lane": 0},
    {"time": 2.0200453514739228, "lane": 3},
    {"time": 2.2755102040816326, "lane": 1},
    {"time": 2.5309297052154196, "lane": 2},
    {"time": 3.0417233560090703, "lane": 0}
  ],
  "tempo": 117.45383522727273,
  "duration": 3.5
}`

type fixture struct {
	Notes []struct {
		Time float64 `json:"time"`
		Lane int     `json:"lane"`
	} `json:"notes"`
	Tempo    float64 `json:"tempo"`
	Duration float64 `json:"duration"`
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func GetChart() (*game.Chart, error) {
	var f fixture
	if err := json.Unmarshal([]byte(data), &f); nil != err {
		return nil, err
	}
	chart := &game.Chart{Tempo: f.Tempo, Duration: seconds(f.Duration)}
	for _, n := range f.Notes {
		chart.Notes = append(chart.Notes, &game.Note{Lane: n.Lane, Time: seconds(n.Time)})
	}
	return chart, nil
}
