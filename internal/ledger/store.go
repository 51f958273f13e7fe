package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/finsight-dev/finsight/internal/model"
)

// Ledger file names inside a store.
const (
	MonthFileName   = "transactions.csv"
	UndatedFileName = "undated.csv"
)

// Store keeps one ledger per calendar month under root/YYYY/MM/.
type Store struct {
	root string
}

// NewStore creates a Store rooted at root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

type monthKey struct {
	year  int
	month time.Month
}

// WriteMonths partitions txns by month and writes each month's ledger,
// replacing any existing file. Transactions without a valid date go to
// undated.csv at the root. Returns the written paths, oldest month first.
func (s *Store) WriteMonths(txns []model.Transaction) ([]string, error) {
	months := make(map[monthKey][]model.Transaction)
	var keys []monthKey
	var undated []model.Transaction
	for _, txn := range txns {
		if !txn.Date.IsValid() {
			undated = append(undated, txn)
			continue
		}
		k := monthKey{txn.Date.Year, txn.Date.Month}
		if _, ok := months[k]; !ok {
			keys = append(keys, k)
		}
		months[k] = append(months[k], txn)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	var paths []string
	for _, k := range keys {
		path := s.monthPath(k.year, k.month)
		if err := writeFile(path, months[k]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	if len(undated) > 0 {
		path := filepath.Join(s.root, UndatedFileName)
		if err := writeFile(path, undated); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ReadMonth reads the ledger for a month. A missing month is empty.
func (s *Store) ReadMonth(year int, month time.Month) ([]model.Transaction, error) {
	return readFile(s.monthPath(year, month))
}

// ReadAll reads every month ledger, oldest first, followed by undated.csv.
func (s *Store) ReadAll() ([]model.Transaction, error) {
	keys, err := s.months()
	if err != nil {
		return nil, err
	}
	var txns []model.Transaction
	for _, k := range keys {
		month, err := s.ReadMonth(k.year, k.month)
		if err != nil {
			return nil, err
		}
		txns = append(txns, month...)
	}
	undated, err := readFile(filepath.Join(s.root, UndatedFileName))
	if err != nil {
		return nil, err
	}
	return append(txns, undated...), nil
}

// months lists the YYYY/MM directories under root in order. Entries that
// are not year or month numbers are ignored.
func (s *Store) months() ([]monthKey, error) {
	years, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading ledger dir: %w", err)
	}
	var keys []monthKey
	for _, y := range years {
		year, err := strconv.Atoi(y.Name())
		if err != nil || !y.IsDir() || len(y.Name()) != 4 {
			continue
		}
		months, err := os.ReadDir(filepath.Join(s.root, y.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading ledger year %s: %w", y.Name(), err)
		}
		for _, m := range months {
			month, err := strconv.Atoi(m.Name())
			if err != nil || !m.IsDir() || month < 1 || month > 12 {
				continue
			}
			keys = append(keys, monthKey{year, time.Month(month)})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	return keys, nil
}

func (s *Store) monthPath(year int, month time.Month) string {
	return filepath.Join(s.root, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", int(month)), MonthFileName)
}

func writeFile(path string, txns []model.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger %s: %w", path, err)
	}
	if err := WriteTransactions(f, txns); err != nil {
		f.Close()
		return fmt.Errorf("writing ledger %s: %w", path, err)
	}
	return f.Close()
}

func readFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return txns, nil
}
