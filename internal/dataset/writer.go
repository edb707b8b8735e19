package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"catalog-api/internal/database"
)

const (
	CategoriesFile   = "categories.csv"
	ItemsFile        = "items.csv"
	CategoryIDsFile  = "category_ids.csv"
	ItemIDsFile      = "item_ids.csv"
	SmallPayloadFile = "items_payload_small.jsonl"
	LargePayloadFile = "items_payload_large.jsonl"
	SeedSQLFile      = "seed.sql"

	sqlBatchRows = 500
)

// WriteFiles generates every dataset file into dir and returns the names written.
// seed.sql is only produced when withSQL is set.
func WriteFiles(dir string, opts Options, withSQL bool, dialect database.Dialect) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	jobs := []fileJob{
		{CategoriesFile, func(w io.Writer) error { return WriteCategoriesCSV(w, opts.Categories) }},
		{CategoryIDsFile, func(w io.Writer) error { return WriteIDsCSV(w, opts.Categories) }},
		{ItemsFile, func(w io.Writer) error { return WriteItemsCSV(w, opts) }},
		{ItemIDsFile, func(w io.Writer) error { return WriteIDsCSV(w, opts.Items) }},
	}
	if withSQL {
		jobs = append(jobs, fileJob{SeedSQLFile, func(w io.Writer) error { return WriteSeedSQL(w, opts, dialect) }})
	}

	var written []string
	for _, job := range jobs {
		if err := writeFile(filepath.Join(dir, job.name), job.write); err != nil {
			return written, err
		}
		written = append(written, job.name)
	}

	// both payload files come from one pass over the items
	small, err := os.Create(filepath.Join(dir, SmallPayloadFile))
	if err != nil {
		return written, err
	}
	large, err := os.Create(filepath.Join(dir, LargePayloadFile))
	if err != nil {
		_ = small.Close()
		return written, err
	}
	smallBuf, largeBuf := bufio.NewWriter(small), bufio.NewWriter(large)

	err = WritePayloads(smallBuf, largeBuf, opts)
	err = errors.Join(err, smallBuf.Flush(), largeBuf.Flush(), small.Close(), large.Close())
	if err != nil {
		return written, fmt.Errorf("write payloads: %w", err)
	}
	return append(written, SmallPayloadFile, LargePayloadFile), nil
}

type fileJob struct {
	name  string
	write func(io.Writer) error
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(f)

	err = write(buf)
	err = errors.Join(err, buf.Flush(), f.Close())
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func WriteCategoriesCSV(w io.Writer, n int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "code", "name"}); err != nil {
		return err
	}
	for c := range Categories(n) {
		if err := cw.Write([]string{strconv.FormatInt(c.ID, 10), c.Code, c.Name}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteItemsCSV(w io.Writer, opts Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "sku", "name", "price", "stock", "category_id", "description"}); err != nil {
		return err
	}
	for it := range Items(opts) {
		record := []string{
			strconv.FormatInt(it.ID, 10),
			it.SKU,
			it.Name,
			it.Price.StringFixed(2),
			strconv.Itoa(it.Stock),
			strconv.FormatInt(it.CategoryID, 10),
			"",
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteIDsCSV writes 1..n under an id header
func WriteIDsCSV(w io.Writer, n int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id"}); err != nil {
		return err
	}
	for i := 1; i <= n; i++ {
		if err := cw.Write([]string{strconv.Itoa(i)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePayloads writes one small and one large create body per item, one JSON document per line
func WritePayloads(small, large io.Writer, opts Options) error {
	for it := range Items(opts) {
		s, err := SmallPayload(it, opts.SmallBytes)
		if err != nil {
			return fmt.Errorf("item %d: %w", it.ID, err)
		}
		l, err := LargePayload(it, opts.LargeBytes)
		if err != nil {
			return fmt.Errorf("item %d: %w", it.ID, err)
		}
		if _, err := small.Write(append(s, '\n')); err != nil {
			return err
		}
		if _, err := large.Write(append(l, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// WriteSeedSQL writes batched multi-row INSERTs with explicit ids in one transaction.
// On postgres the id sequences are moved past the seeded rows.
func WriteSeedSQL(w io.Writer, opts Options, dialect database.Dialect) error {
	bw := &errWriter{w: w}

	bw.printf("-- catalog seed: %d categories, %d items, seed %d\n", opts.Categories, opts.Items, opts.Seed)
	bw.printf("BEGIN;\n")

	var rows []string
	flush := func(head string) {
		if len(rows) == 0 {
			return
		}
		bw.printf("%s\n%s;\n", head, strings.Join(rows, ",\n"))
		rows = rows[:0]
	}

	const categoryHead = "INSERT INTO category (id, code, name, updated_at) VALUES"
	for c := range Categories(opts.Categories) {
		rows = append(rows, fmt.Sprintf("(%d, %s, %s, CURRENT_TIMESTAMP)", c.ID, quote(c.Code), quote(c.Name)))
		if len(rows) == sqlBatchRows {
			flush(categoryHead)
		}
	}
	flush(categoryHead)

	const itemHead = "INSERT INTO item (id, sku, name, price, stock, category_id, updated_at) VALUES"
	for it := range Items(opts) {
		rows = append(rows, fmt.Sprintf("(%d, %s, %s, %s, %d, %d, CURRENT_TIMESTAMP)",
			it.ID, quote(it.SKU), quote(it.Name), it.Price.StringFixed(2), it.Stock, it.CategoryID))
		if len(rows) == sqlBatchRows {
			flush(itemHead)
		}
	}
	flush(itemHead)

	if dialect == database.Postgres {
		bw.printf("SELECT setval(pg_get_serial_sequence('category', 'id'), GREATEST((SELECT MAX(id) FROM category), 1));\n")
		bw.printf("SELECT setval(pg_get_serial_sequence('item', 'id'), GREATEST((SELECT MAX(id) FROM item), 1));\n")
	}
	bw.printf("COMMIT;\n")

	return bw.err
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// errWriter keeps the first write error and skips later writes
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
