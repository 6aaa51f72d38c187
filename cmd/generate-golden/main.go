package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// GoldenData represents a single test case in the golden file: the exact
// column sums c_n = Σ_{m=n..M} (−1)^n C(m,n)/(m+1) of the standard array.
type GoldenData struct {
	Order      int      `json:"order"`
	ColumnSums []string `json:"column_sums"`
}

func main() {
	outputDir := flag.String("out", "internal/hasse/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "hasse_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	// The orders picked by the truncation rules at common precisions,
	// plus the small ones checked by hand.
	orders := []int{0, 1, 2, 3, 4, 6, 8, 10, 12, 16, 24}

	var data []GoldenData

	fmt.Println("Generating golden data...")

	for _, m := range orders {
		sums := exactColumnSums(m)
		entry := GoldenData{Order: m, ColumnSums: make([]string, len(sums))}
		for n, s := range sums {
			entry.ColumnSums[n] = s.RatString()
		}
		data = append(data, entry)
		fmt.Printf("Generated M=%d\n", m)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

// exactColumnSums computes the column sums of order M in exact rational
// arithmetic. This serves as our "Oracle" for the float builder.
func exactColumnSums(order int) []*big.Rat {
	sums := make([]*big.Rat, order+1)
	binom := new(big.Int)
	for n := 0; n <= order; n++ {
		sum := new(big.Rat)
		for m := n; m <= order; m++ {
			binom.Binomial(int64(m), int64(n))
			term := new(big.Rat).SetFrac(binom, big.NewInt(int64(m+1)))
			sum.Add(sum, term)
		}
		if n%2 == 1 {
			sum.Neg(sum)
		}
		sums[n] = sum
	}
	return sums
}
