// Package logfile keeps a contest log as newline-delimited JSON: an optional
// metadata line carrying the contest class, then one QSO per line.
package logfile

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shrimpsizemoose/trekker/logger"
	"github.com/valyala/fastjson"

	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/store"
)

const (
	// metadataKey marks the first line as metadata instead of a QSO.
	metadataKey = "class"

	DefaultBackupSuffix = "~"

	maxLineSize = 1 << 20
)

var ErrMalformedLogLine = errors.New("malformed log line")

// LineError reports the line that stopped a load.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("log line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() []error {
	return []error{ErrMalformedLogLine, e.Err}
}

type metadata struct {
	Class *string `json:"class"`
}

type lineKind int

const (
	lineRecord lineKind = iota
	lineMetadata
)

// firstLine is the outcome of peeking at the first line of a log file.
type firstLine struct {
	kind  lineKind
	class string
}

// peekFirstLine decides whether the first line is metadata or a QSO.
func peekFirstLine(line []byte) (firstLine, error) {
	v, err := fastjson.ParseBytes(line)
	if err != nil {
		return firstLine{}, err
	}
	if v.Type() != fastjson.TypeObject || !v.Exists(metadataKey) {
		return firstLine{kind: lineRecord}, nil
	}

	class := v.Get(metadataKey)
	switch class.Type() {
	case fastjson.TypeNull:
		return firstLine{kind: lineMetadata}, nil
	case fastjson.TypeString:
		return firstLine{kind: lineMetadata, class: string(class.GetStringBytes())}, nil
	default:
		return firstLine{}, fmt.Errorf("%s must be a string, got %s", metadataKey, class.Type())
	}
}

func decodeQSO(line []byte) (*models.QSO, error) {
	if !bytes.HasPrefix(line, []byte("{")) {
		return nil, errors.New("not a JSON object")
	}
	var q models.QSO
	if err := json.Unmarshal(line, &q); err != nil {
		return nil, err
	}
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

type Store struct {
	BackupSuffix string
}

func New() *Store {
	return &Store{BackupSuffix: DefaultBackupSuffix}
}

var _ store.LogStore = (*Store)(nil)

// Load reads the whole log. Any line that does not decode fails the load;
// a partially loaded contest log is not returned.
func (s *Store) Load(path string) (*models.Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	defer f.Close()

	log := &models.Log{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	peeked := false
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if !peeked {
			peeked = true
			first, err := peekFirstLine(line)
			if err != nil {
				return nil, &LineError{Line: lineNo, Err: err}
			}
			if first.kind == lineMetadata {
				log.Class = first.class
				continue
			}
		}

		q, err := decodeQSO(line)
		if err != nil {
			return nil, &LineError{Line: lineNo, Err: err}
		}
		log.Add(q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}

	logger.Debug.Printf("Loaded %d QSOs from %s (class %q)", log.Len(), path, log.Class)
	return log, nil
}

// Save renames an existing file at path to the backup name and writes the
// log anew. A crash between the two steps leaves only the backup.
func (s *Store) Save(path string, log *models.Log) error {
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+s.BackupSuffix); err != nil {
			return fmt.Errorf("failed to back up log: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat log: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create log: %w", err)
	}

	if err := writeLog(bufio.NewWriter(f), log); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write log: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync log: %w", err)
	}
	return f.Close()
}

func writeLog(w *bufio.Writer, log *models.Log) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if log.Class != "" {
		class := log.Class
		if err := enc.Encode(metadata{Class: &class}); err != nil {
			return err
		}
	}
	for _, q := range log.QSOs {
		if err := enc.Encode(q); err != nil {
			return err
		}
	}
	return w.Flush()
}
