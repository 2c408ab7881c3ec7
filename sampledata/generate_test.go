package sampledata

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestGenerate(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Generate(buf, 200, rand.New(rand.NewSource(1))))

	rows, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 201)
	require.Equal(t, Header, rows[0])

	for i, row := range rows[1:] {
		require.Equal(t, strconv.Itoa(i+1), row[0])

		name := strings.SplitN(row[1], " ", 2)
		require.True(t, lo.Contains(FirstNames, name[0]), row[1])
		require.True(t, lo.Contains(LastNames, name[1]), row[1])
		require.True(t, lo.Contains(Countries, row[2]), row[2])

		height, err := strconv.ParseFloat(row[3], 64)
		require.NoError(t, err)
		require.GreaterOrEqual(t, height, MinHeight)
		require.LessOrEqual(t, height, MaxHeight)
		require.Regexp(t, `^\d+\.\d{2}$`, row[3])
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, b := &bytes.Buffer{}, &bytes.Buffer{}
	require.NoError(t, Generate(a, 50, rand.New(rand.NewSource(9))))
	require.NoError(t, Generate(b, 50, rand.New(rand.NewSource(9))))
	require.Equal(t, a.String(), b.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, WriteFile(path, 3, 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 4, strings.Count(string(data), "\n"))

	require.Error(t, WriteFile(filepath.Join(t.TempDir(), "missing", "people.csv"), 3, 1))
}
