package downloads

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastOptions = Options{
	Timeout:      2 * time.Second,
	StableFor:    50 * time.Millisecond,
	PollInterval: 10 * time.Millisecond,
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestInvoiceMatch(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"invoice.txt", true},
		{"Invoice_123.txt", true},
		{"my-INVOICE.txt", true},
		{"invoice.pdf", false},
		{"receipt.txt", false},
		{"invoice.TXT", false},
	}
	for _, tt := range tests {
		if got := InvoiceMatch(tt.name); got != tt.want {
			t.Errorf("InvoiceMatch(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAwait_FileAlreadyPresent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "invoice.txt"), "Hi Tester")

	path, err := Await(dir, InvoiceMatch, fastOptions)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "invoice.txt"), path)
}

func TestAwait_WaitsForPartialDownloadToFinish(t *testing.T) {
	dir := t.TempDir()
	partial := filepath.Join(dir, "invoice.txt.crdownload")
	final := filepath.Join(dir, "invoice.txt")
	writeFile(t, partial, "Hi")

	done := make(chan struct{})
	go func() {
		defer close(done)
		time.Sleep(80 * time.Millisecond)
		_ = os.WriteFile(partial, []byte("Hi Tester, Your total purchase amount"), 0o644)
		_ = os.Rename(partial, final)
	}()

	start := time.Now()
	path, err := Await(dir, InvoiceMatch, fastOptions)
	<-done
	require.NoError(t, err)
	assert.Equal(t, final, path)
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hi Tester, Your total purchase amount", string(data))
}

func TestAwait_WaitsForSizeToSettle(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "invoice.txt")

	f, err := os.Create(final)
	require.NoError(t, err)
	go func() {
		defer f.Close()
		for i := 0; i < 5; i++ {
			_, _ = f.WriteString("line\n")
			time.Sleep(20 * time.Millisecond)
		}
	}()

	opts := fastOptions
	opts.StableFor = 150 * time.Millisecond
	path, err := Await(dir, InvoiceMatch, opts)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(25), info.Size(), "must not return before writing stops")
}

func TestAwait_Timeout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "other.txt"), "not an invoice")

	opts := fastOptions
	opts.Timeout = 60 * time.Millisecond
	start := time.Now()
	_, err := Await(dir, InvoiceMatch, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Less(t, time.Since(start), time.Second)
}

func TestAwait_IgnoresOlderFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "invoice_old.txt")
	writeFile(t, old, "stale")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	opts := fastOptions
	opts.Timeout = 80 * time.Millisecond
	opts.NewerThan = time.Now().Add(-time.Minute)
	_, err := Await(dir, InvoiceMatch, opts)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAwait_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "invoice.txt"), []byte("x"), 0o644)
	}()

	_, err := Await(dir, InvoiceMatch, fastOptions)
	require.NoError(t, err)
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	_, err := Latest(dir, InvoiceMatch)
	assert.ErrorIs(t, err, ErrNoMatch)

	older := filepath.Join(dir, "invoice_1.txt")
	newer := filepath.Join(dir, "invoice_2.txt")
	writeFile(t, older, "a")
	writeFile(t, newer, "b")
	writeFile(t, filepath.Join(dir, "invoice_3.txt.part"), "c")
	now := time.Now()
	require.NoError(t, os.Chtimes(older, now.Add(-2*time.Minute), now.Add(-2*time.Minute)))
	require.NoError(t, os.Chtimes(newer, now.Add(-time.Minute), now.Add(-time.Minute)))

	got, err := Latest(dir, InvoiceMatch)
	require.NoError(t, err)
	assert.Equal(t, newer, got)
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "invoice.txt"), "a")
	writeFile(t, filepath.Join(dir, "Invoice (1).txt"), "b")
	writeFile(t, filepath.Join(dir, "notes.txt"), "c")

	assert.Equal(t, 2, Cleanup(dir, InvoiceMatch))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.txt", entries[0].Name())

	assert.Zero(t, Cleanup(filepath.Join(dir, "missing"), InvoiceMatch))
}
