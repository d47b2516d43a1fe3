// Package gendata generates the synthetic CSV fixtures original_source's
// makeData.py built for exercising the join planner and bulk LOAD: an
// identity relation whose join column is as selective as the primary key,
// a constant relation whose join column collapses every row into one
// bucket, and a pair of randomized relations shaped like makeData.py's
// df1/df2 (letter/color, name/state/year).
package gendata

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
)

var colors = []string{
	"Red", "Green", "Blue", "Yellow", "Orange", "Purple", "Pink", "Cyan",
	"Magenta", "Turquoise", "Lavender", "Brown", "Gray", "Black", "White",
}

var states = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado",
	"Connecticut", "Delaware", "Florida", "Georgia", "Hawaii", "Idaho",
	"Illinois", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana",
	"Maine", "Maryland", "Massachusetts", "Michigan", "Minnesota",
	"Mississippi", "Missouri", "Montana", "Nebraska", "Nevada",
}

// IdentityRelation writes n rows (i, i) under header x1,x2 to path — every
// row is its own join partner, the most selective case the planner sees.
func IdentityRelation(path string, n int) error {
	return writeRows(path, []string{"x1", "x2"}, n, func(i int) []string {
		v := strconv.Itoa(i)
		return []string{v, v}
	})
}

// ConstantRelation writes n rows (i, 1) under header x1,x2 to path — every
// row shares one join-column value, collapsing the join into a single
// giant bucket and forcing a nested-loop worst case.
func ConstantRelation(path string, n int) error {
	return writeRows(path, []string{"x1", "x2"}, n, func(i int) []string {
		return []string{strconv.Itoa(i), "1"}
	})
}

// LetterColorRelation writes n rows of (3-letter key, random 0-100, random
// color) under header Letter,Number,Color — shaped like makeData.py's df1.
func LetterColorRelation(path string, n int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	return writeRows(path, []string{"Letter", "Number", "Color"}, n, func(i int) []string {
		return []string{letterKey(i), strconv.Itoa(rng.Intn(101)), colors[rng.Intn(len(colors))]}
	})
}

// NameStateRelation writes n rows of (3-letter key, decimal 0-1, random
// state, random year) under header name,decimal,state,year — shaped like
// makeData.py's df2, including its "only some keys appear" sparsity.
func NameStateRelation(path string, n int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	return writeRows(path, []string{"name", "decimal", "state", "year"}, n, func(i int) []string {
		if rng.Intn(11) >= 4 {
			return nil // sparse: most keys are skipped, mirroring makeData.py's `< 4` filter
		}
		return []string{
			letterKey(i),
			strconv.FormatFloat(float64(rng.Intn(101))/100, 'f', 2, 64),
			states[rng.Intn(len(states))],
			strconv.Itoa(1900 + rng.Intn(124)),
		}
	})
}

// letterKey maps i to a 3-letter lowercase key (aaa, aab, ... zzz), the same
// base-26 keyspace itertools.product(letters, letters, letters) enumerates.
func letterKey(i int) string {
	const base = 26
	a := (i / (base * base)) % base
	b := (i / base) % base
	c := i % base
	return string([]byte{byte('a' + a), byte('a' + b), byte('a' + c)})
}

func writeRows(path string, header []string, n int, row func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gendata: cannot create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 1; i <= n; i++ {
		rec := row(i)
		if rec == nil {
			continue
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
