package export

import (
	"encoding/csv"
	"strings"

	"github.com/dashspectre/dashspectre/internal/models"
)

// Cells re-parses the CSV rendering into a header and row cells for
// terminal display, so table previews and file exports always agree.
func Cells(c models.Classification) (header []string, rows [][]string) {
	text := ToCSV(c)
	if text == "" {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		return nil, nil
	}
	return records[0], records[1:]
}
