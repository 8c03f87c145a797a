package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV loads a classification dataset from a CSV file.
// labelCol is the index of the integer class column; a negative value
// counts from the end (-1 is the last column). All other columns are
// parsed as float features. hasHeader skips the first line if true.
func LoadCSV(filename string, labelCol int, hasHeader bool) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file, labelCol, hasHeader)
}

// ReadCSV parses a classification dataset from r. See LoadCSV.
func ReadCSV(r io.Reader, labelCol int, hasHeader bool) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv file is empty: %w", ErrEmpty)
	}

	startRow := 0
	if hasHeader {
		startRow = 1
	}

	if len(records) <= startRow {
		return nil, fmt.Errorf("csv file has no data rows: %w", ErrEmpty)
	}

	numCols := len(records[0])
	if numCols < 2 {
		return nil, fmt.Errorf("csv needs at least one feature and one label column, got %d columns", numCols)
	}
	if labelCol < 0 {
		labelCol += numCols
	}
	if labelCol < 0 || labelCol >= numCols {
		return nil, fmt.Errorf("label column %d out of range for %d columns", labelCol, numCols)
	}

	numSamples := len(records) - startRow
	ds := &Dataset{
		Inputs: make([][]float64, numSamples),
		Labels: make([]int, numSamples),
	}

	for i := startRow; i < len(records); i++ {
		record := records[i]
		if len(record) != numCols {
			return nil, fmt.Errorf("inconsistent number of columns at row %d", i)
		}

		sampleRow := make([]float64, 0, numCols-1)
		for j, valStr := range record {
			valStr = strings.TrimSpace(valStr)
			if j == labelCol {
				label, err := strconv.Atoi(valStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse label at row %d, col %d: %w", i, j, err)
				}
				if label < 0 {
					return nil, fmt.Errorf("negative label %d at row %d", label, i)
				}
				ds.Labels[i-startRow] = label
				continue
			}
			val, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value at row %d, col %d: %w", i, j, err)
			}
			sampleRow = append(sampleRow, val)
		}
		ds.Inputs[i-startRow] = sampleRow
	}

	return ds, nil
}
