package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"procdiff/core/database"
	"procdiff/core/storage"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

var (
	// ErrUnsupportedFormat indicates a file extension no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrNoStorage indicates an s3:// location without a configured storage client.
	ErrNoStorage = errors.New("storage client not configured")

	// ErrNoDatabase indicates a db:// location without a database connection.
	ErrNoDatabase = errors.New("database not configured")
)

// Table is a decoded sheet: a header row and the data rows below it.
type Table struct {
	Header []string
	Rows   [][]string
}

// Kind identifies where a location points.
type Kind string

const (
	// KindFile is a local file path.
	KindFile Kind = "file"
	// KindObject is an object in a storage bucket (s3://bucket/key).
	KindObject Kind = "object"
	// KindTable is a database table (db://table).
	KindTable Kind = "table"
)

// Location is a parsed source URI.
type Location struct {
	Kind Kind
	// Bucket is set for KindObject.
	Bucket string
	// Path is the file path, object key or table name.
	Path string
}

// ParseURI splits a source URI into its location.
func ParseURI(uri string) (Location, error) {
	switch {
	case strings.HasPrefix(uri, "s3://"):
		rest := strings.TrimPrefix(uri, "s3://")
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return Location{}, fmt.Errorf("invalid object location %q: want s3://bucket/key", uri)
		}
		return Location{Kind: KindObject, Bucket: bucket, Path: key}, nil
	case strings.HasPrefix(uri, "db://"):
		table := strings.TrimPrefix(uri, "db://")
		if err := database.ValidateTableName(table); err != nil {
			return Location{}, fmt.Errorf("invalid table location %q: %w", uri, err)
		}
		return Location{Kind: KindTable, Path: table}, nil
	case uri == "":
		return Location{}, fmt.Errorf("empty source location")
	default:
		return Location{Kind: KindFile, Path: uri}, nil
	}
}

// Opener reads tables from local files, storage objects and database tables.
// Either dependency may be nil; locations that need it then fail.
type Opener struct {
	client storage.Client
	db     *gorm.DB
}

// NewOpener creates a new opener.
func NewOpener(client storage.Client, db *gorm.DB) *Opener {
	return &Opener{client: client, db: db}
}

// Open reads the table at uri. Files and objects are decoded by extension.
func (o *Opener) Open(ctx context.Context, uri string) (*Table, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	if loc.Kind == KindTable {
		if o.db == nil {
			return nil, ErrNoDatabase
		}
		return ReadTable(ctx, o.db, loc.Path)
	}

	data, err := o.read(ctx, loc)
	if err != nil {
		return nil, err
	}
	return Decode(loc.Path, bytes.NewReader(data))
}

// ReadAll returns the raw bytes of a file or object location.
func (o *Opener) ReadAll(ctx context.Context, uri string) ([]byte, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if loc.Kind == KindTable {
		return nil, fmt.Errorf("%w: cannot read table %s as a file", ErrUnsupportedFormat, loc.Path)
	}
	return o.read(ctx, loc)
}

func (o *Opener) read(ctx context.Context, loc Location) ([]byte, error) {
	switch loc.Kind {
	case KindObject:
		if o.client == nil {
			return nil, ErrNoStorage
		}
		reader, err := o.client.GetObject(ctx, loc.Bucket, loc.Path, minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get object %s/%s: %w", loc.Bucket, loc.Path, err)
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to read object %s/%s: %w", loc.Bucket, loc.Path, err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(loc.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return data, nil
	}
}

// Decode parses r according to the extension of name.
func Decode(name string, r io.Reader) (*Table, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// split turns all rows into a header and data rows. An empty input yields an empty table.
func split(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}
	return &Table{Header: rows[0], Rows: rows[1:]}
}
