package sampledata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var (
	FirstNames = []string{"Mohamed", "Sara", "John", "Emily", "Hakim", "Anna", "Youssef", "David", "Lina", "Omar"}
	LastNames  = []string{"Smith", "Johnson", "Brown", "Garcia", "Martinez", "Williams", "Hassan", "Takagi", "Chen", "Ahmed"}
	Countries  = []string{"USA", "Morocco", "France", "Japan", "Germany", "Canada", "UK", "Spain", "Italy", "Brazil"}
)

const (
	MinHeight = 140.0 // cm
	MaxHeight = 215.0
)

var Header = []string{"index", "person_name", "country", "height"}

type Person struct {
	Index   int
	Name    string
	Country string
	Height  float64
}

func (p Person) record() []string {
	return []string{
		strconv.Itoa(p.Index),
		p.Name,
		p.Country,
		strconv.FormatFloat(p.Height, 'f', 2, 64),
	}
}

func randomPerson(index int, rng *rand.Rand) Person {
	return Person{
		Index:   index,
		Name:    FirstNames[rng.Intn(len(FirstNames))] + " " + LastNames[rng.Intn(len(LastNames))],
		Country: Countries[rng.Intn(len(Countries))],
		Height:  MinHeight + rng.Float64()*(MaxHeight-MinHeight),
	}
}

// Generate writes a header and rows random people numbered from 1.
func Generate(w io.Writer, rows int, rng *rand.Rand) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 1; i <= rows; i++ {
		if err := writer.Write(randomPerson(i, rng).record()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile generates rows into path. A zero seed uses the clock.
func WriteFile(path string, rows int, seed uint64) error {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := Generate(f, rows, rand.New(rand.NewSource(seed))); err != nil {
		return fmt.Errorf("failed to generate %s: %w", path, err)
	}

	log.Info().Msgf("generated %d rows in %s", rows, path)
	return f.Close()
}
