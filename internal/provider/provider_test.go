package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/pyqhub/mcp-server/internal/config"
)

func TestEmbeddedProvider(t *testing.T) {
	p := NewEmbedded()

	data, err := p.ReadFile(context.Background(), "syllabus.json")
	if err != nil {
		t.Fatalf("ReadFile(syllabus.json) error: %v", err)
	}
	if !json.Valid(data) {
		t.Error("embedded syllabus is not valid JSON")
	}

	if _, err := p.ReadFile(context.Background(), "question_1.json"); err != nil {
		t.Errorf("ReadFile(question_1.json) error: %v", err)
	}

	_, err = p.ReadFile(context.Background(), "question_99.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDirProvider(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "question_1.json"), []byte(`[]`), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	p := NewDir(dir)
	data, err := p.ReadFile(context.Background(), "question_1.json")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("ReadFile() = %q, want []", data)
	}

	if _, err := p.ReadFile(context.Background(), "syllabus.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want ErrNotFound", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.ReadFile(ctx, "question_1.json"); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadFile(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestHTTPProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bank/question_1.json":
			w.Write([]byte(`[{"question_no": 1}]`))
		case "/bank/broken.json":
			w.WriteHeader(http.StatusInternalServerError)
		case "/bank/large.json":
			w.Write(bytes.Repeat([]byte("x"), 64))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL+"/bank/", timeoutOrDefault(0))

	data, err := p.ReadFile(context.Background(), "question_1.json")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != `[{"question_no": 1}]` {
		t.Errorf("ReadFile() = %s", data)
	}

	if _, err := p.ReadFile(context.Background(), "question_2.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadFile(404) error = %v, want ErrNotFound", err)
	}

	_, err = p.ReadFile(context.Background(), "broken.json")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("ReadFile(500) error = %v, want a non-NotFound error", err)
	}

	small := p.(*httpProvider)
	small.maxSize = 32
	if _, err := small.ReadFile(context.Background(), "large.json"); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("ReadFile(oversized) error = %v, want ErrFileTooLarge", err)
	}
}

func TestReadLimited(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		limit   int64
		wantErr bool
	}{
		{name: "under limit", size: 10, limit: 16},
		{name: "exactly at limit", size: 16, limit: 16},
		{name: "one byte over", size: 17, limit: 16, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := readLimited(bytes.NewReader(make([]byte, tt.size)), "question_1.json", tt.limit)
			if tt.wantErr {
				if !errors.Is(err, ErrFileTooLarge) {
					t.Errorf("readLimited() error = %v, want ErrFileTooLarge", err)
				}
				return
			}
			if err != nil || len(data) != tt.size {
				t.Errorf("readLimited() = %d bytes, %v; want %d bytes", len(data), err, tt.size)
			}
		})
	}
}

// fakeS3 serves objects from a map.
type fakeS3 struct {
	objects map[string]string
	keys    []string
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := *params.Key
	f.keys = append(f.keys, key)
	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(body)))}, nil
}

func TestS3Provider(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"banks/math-1/syllabus.json": `{"syllabus": []}`,
	}}
	p := newS3Provider(client, "pyq", "banks/math-1")

	data, err := p.ReadFile(context.Background(), "syllabus.json")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != `{"syllabus": []}` {
		t.Errorf("ReadFile() = %s", data)
	}

	if _, err := p.ReadFile(context.Background(), "question_1.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want ErrNotFound", err)
	}
	if client.keys[1] != "banks/math-1/question_1.json" {
		t.Errorf("requested key = %q, want banks/math-1/question_1.json", client.keys[1])
	}

	if got := newS3Provider(client, "pyq", "").key("syllabus.json"); got != "syllabus.json" {
		t.Errorf("key() without prefix = %q", got)
	}
}

func TestSelectContentQuery(t *testing.T) {
	got := selectContentQuery(`bank"; drop table x; --`)
	want := `SELECT content::text FROM "bank""; drop table x; --" WHERE name = $1`
	if got != want {
		t.Errorf("selectContentQuery() = %q, want %q", got, want)
	}
}

func TestPostgresProvider_Integration(t *testing.T) {
	if os.Getenv("QBANK_INTEGRATION") != "1" {
		t.Skip("set QBANK_INTEGRATION=1 to run postgres integration tests")
	}
	dsn := os.Getenv("QBANK_TEST_DSN")
	if dsn == "" {
		t.Skip("QBANK_TEST_DSN is not set")
	}

	ctx := context.Background()
	p, err := NewPostgres(ctx, config.Postgres{URL: dsn, Table: "bank_files_test", MaxConnections: 2})
	if err != nil {
		t.Fatalf("NewPostgres() error: %v", err)
	}
	defer p.Close()

	if _, err := p.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS bank_files_test (name text PRIMARY KEY, content jsonb NOT NULL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	defer p.db.Exec(ctx, `DROP TABLE IF EXISTS bank_files_test`)

	if _, err := p.db.Exec(ctx, `INSERT INTO bank_files_test (name, content) VALUES ($1, $2)`, "syllabus.json", `{"syllabus": []}`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	data, err := p.ReadFile(ctx, "syllabus.json")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !json.Valid(data) {
		t.Errorf("ReadFile() returned invalid JSON: %s", data)
	}

	if _, err := p.ReadFile(ctx, "question_1.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMockProvider(t *testing.T) {
	m := NewMockProvider()
	m.AddFile("question_1.json", []byte(`[]`))
	boom := errors.New("boom")
	m.FailWith("question_2.json", boom)

	if _, err := m.ReadFile(context.Background(), "question_1.json"); err != nil {
		t.Errorf("ReadFile() error: %v", err)
	}
	if _, err := m.ReadFile(context.Background(), "question_2.json"); !errors.Is(err, boom) {
		t.Errorf("ReadFile() error = %v, want boom", err)
	}
	if _, err := m.ReadFile(context.Background(), "question_3.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadFile() error = %v, want ErrNotFound", err)
	}
	if got := m.Reads("question_1.json"); got != 1 {
		t.Errorf("Reads() = %d, want 1", got)
	}

	m.RemoveFile("question_1.json")
	if _, err := m.ReadFile(context.Background(), "question_1.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadFile() after RemoveFile error = %v, want ErrNotFound", err)
	}
}

func TestOpen(t *testing.T) {
	log := zap.NewNop()

	p, closeFn, err := Open(context.Background(), config.Data{Source: config.SourceEmbedded}, log)
	if err != nil {
		t.Fatalf("Open(embedded) error: %v", err)
	}
	defer closeFn()
	if _, err := p.ReadFile(context.Background(), "syllabus.json"); err != nil {
		t.Errorf("embedded ReadFile() error: %v", err)
	}

	_, closeFn, err = Open(context.Background(), config.Data{Source: "ftp"}, log)
	closeFn()
	if !errors.Is(err, config.ErrUnknownSource) {
		t.Errorf("Open(ftp) error = %v, want ErrUnknownSource", err)
	}
}
