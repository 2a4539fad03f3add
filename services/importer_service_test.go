package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestImporter(t *testing.T) (*NoteImporterService, NoteService) {
	t.Helper()
	svc := newTestNoteService(t)
	return NewNoteImporterService(svc, 1000, 100, zap.NewNop()), svc
}

func writeNoteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScanDirectoryImportsSupportedFiles(t *testing.T) {
	importer, svc := newTestImporter(t)
	dir := t.TempDir()
	ctx := context.Background()

	writeNoteFile(t, dir, "P1.txt", "Patient has chest pain.")
	writeNoteFile(t, dir, "P2.md", "Follow-up: headache has resolved.")
	writeNoteFile(t, dir, "scan.pdf", "binary-ish content")

	require.NoError(t, importer.ScanDirectory(ctx, dir))

	notes, err := svc.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2, "only .txt and .md files are imported")

	patients := map[string]bool{}
	for _, n := range notes {
		patients[n.PatientID] = true
	}
	assert.True(t, patients["P1"])
	assert.True(t, patients["P2"])
}

func TestScanDirectorySkipsUnchangedFiles(t *testing.T) {
	importer, svc := newTestImporter(t)
	dir := t.TempDir()
	ctx := context.Background()

	path := writeNoteFile(t, dir, "P1.txt", "Patient has chest pain.")

	require.NoError(t, importer.ScanDirectory(ctx, dir))
	require.NoError(t, importer.ScanDirectory(ctx, dir))

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "rescan of an unchanged file must not duplicate notes")

	require.NoError(t, os.WriteFile(path, []byte("Patient reports new chest tightness."), 0644))
	require.NoError(t, importer.ScanDirectory(ctx, dir))

	count, err = svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "changed content is imported again")
}

func TestImportSplitsLongFilesIntoChunks(t *testing.T) {
	svc := newTestNoteService(t)
	importer := NewNoteImporterService(svc, 50, 0, zap.NewNop())
	dir := t.TempDir()
	ctx := context.Background()

	long := "Patient has chest pain.\n\nPatient also reports shortness of breath on exertion.\n\nNo fever."
	writeNoteFile(t, dir, "P9.txt", long)

	require.NoError(t, importer.ScanDirectory(ctx, dir))

	notes, err := svc.ListNotes(ctx)
	require.NoError(t, err)
	require.Greater(t, len(notes), 1, "a long file becomes several notes")
	for _, n := range notes {
		assert.Equal(t, "P9", n.PatientID)
	}
}
