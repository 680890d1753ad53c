package services

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentObjectPath(t *testing.T) {
	now := time.Now()
	expected := fmt.Sprintf("documents/%04d/%02d/manual.pdf", now.Year(), int(now.Month()))
	assert.Equal(t, expected, DocumentObjectPath("manual.pdf"))
}

func TestAvatarObjectPath(t *testing.T) {
	assert.Equal(t, "avatars/abc-123.png", AvatarObjectPath("abc-123", "photo.png"))
	assert.Equal(t, "avatars/abc-123", AvatarObjectPath("abc-123", "semextensao"))
}

func TestLocalStorageSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	local := NewLocalStorage(root)

	path, err := local.Save("documents/2024/03/manual.pdf", []byte("conteudo"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "documents/2024/03/manual.pdf", path)

	data, err := os.ReadFile(filepath.Join(root, "documents", "2024", "03", "manual.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("conteudo"), data)

	require.NoError(t, local.Delete("documents/2024/03/manual.pdf"))
	_, err = os.Stat(filepath.Join(root, "documents", "2024", "03", "manual.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageDeleteMissingIsNoError(t *testing.T) {
	local := NewLocalStorage(t.TempDir())
	assert.NoError(t, local.Delete("nao/existe.txt"))
}
