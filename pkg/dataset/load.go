package dataset

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/orbitdash/pkg/errors"
)

// Columns maps logical fields to CSV header names.
type Columns struct {
	Year       string
	Country    string
	ObjectType string
	Status     string
	Name       string
}

// DefaultColumns returns the header names of the bundled LEO dataset.
func DefaultColumns() Columns {
	return Columns{
		Year:       "launch_year",
		Country:    "owner_clean",
		ObjectType: "object_type",
		Status:     "status",
		Name:       "name",
	}
}

func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Year == "" {
		c.Year = d.Year
	}
	if c.Country == "" {
		c.Country = d.Country
	}
	if c.ObjectType == "" {
		c.ObjectType = d.ObjectType
	}
	if c.Status == "" {
		c.Status = d.Status
	}
	if c.Name == "" {
		c.Name = d.Name
	}
	return c
}

// fields returns header name -> logical field.
func (c Columns) fields() map[string]string {
	c = c.withDefaults()
	return map[string]string{
		c.Year:       FieldYear,
		c.Country:    FieldCountry,
		c.ObjectType: FieldObjectType,
		c.Status:     FieldStatus,
		c.Name:       FieldName,
	}
}

// Load reads CSV with a header row from r. Columns not named by cols are
// ignored. Cells are auto-typed (see [RawRow]). Lines that fail to parse are
// skipped; short lines leave the missing fields nil.
func Load(ctx context.Context, r io.Reader, cols Columns) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}

	byHeader := cols.fields()
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = byHeader[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))]
	}

	var rows []RawRow
	for line := 0; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if stderrors.As(err, &pe) {
				continue
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV")
		}
		row := make(RawRow, len(byHeader))
		for i, key := range keys {
			if key == "" {
				continue
			}
			if i < len(rec) {
				row[key] = autoType(rec[i])
			} else {
				row[key] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadFile opens path and calls [Load].
func LoadFile(ctx context.Context, path string, cols Columns) ([]RawRow, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open dataset %s", path)
	}
	defer f.Close()
	return Load(ctx, f, cols)
}

// autoType converts numeric text to float64 and empty text to nil.
func autoType(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	return s
}
