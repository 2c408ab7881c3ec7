// meta/meta.go
package meta

import (
	"fmt"
	"strings"
	"time"
)

// ARENA_GAMES defines the number of games per arena matchup.
const ARENA_GAMES = 20

// ARENA_PARALLEL defines how many arena games run at once.
const ARENA_PARALLEL = 4

// ARENA_DIR defines where arena records are written.
const ARENA_DIR = "experiments"

// SAMPLE_ROWS defines the default number of generated CSV rows.
const SAMPLE_ROWS = 1000

// Difficulty is a named search budget offered in the play menu.
type Difficulty struct {
	Name        string
	Description string
	Time        time.Duration
	C           float64
}

var (
	Easy   = Difficulty{Name: "Easy", Description: "AI thinks 1s (beatable)", Time: 1 * time.Second, C: 1.5}
	Medium = Difficulty{Name: "Medium", Description: "AI thinks 3s (challenging)", Time: 3 * time.Second, C: 2.5}
	Hard   = Difficulty{Name: "Hard", Description: "AI thinks 6s (nearly unbeatable)", Time: 6 * time.Second, C: 3.5}
)

// Difficulties in menu order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

func DifficultyByName(name string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("unknown difficulty %q", name)
}
