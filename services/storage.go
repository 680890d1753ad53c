package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	storage "github.com/supabase-community/storage-go"
)

// Storage abstrai onde os arquivos de documentos e avatares são
// guardados. A seleção do backend vem da configuração:
// USE_OBJECT_STORAGE=true usa o bucket Supabase, senão o filesystem
// local em MEDIA_ROOT.
type Storage interface {
	// Save grava o conteúdo e devolve o caminho/URL persistido.
	Save(objectPath string, data []byte, contentType string) (string, error)
	// Delete remove o objeto; objeto inexistente não é erro.
	Delete(objectPath string) error
}

// DocumentObjectPath monta o caminho padrão documents/AAAA/MM/<nome>.
func DocumentObjectPath(filename string) string {
	now := time.Now()
	return fmt.Sprintf("documents/%04d/%02d/%s", now.Year(), int(now.Month()), filename)
}

// AvatarObjectPath monta o caminho padrão avatars/<id><ext>.
func AvatarObjectPath(id, filename string) string {
	return fmt.Sprintf("avatars/%s%s", id, filepath.Ext(filename))
}

// ---------------------------------------------------------------------------
// Backend local

type LocalStorage struct {
	Root string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{Root: root}
}

func (s *LocalStorage) Save(objectPath string, data []byte, _ string) (string, error) {
	full := filepath.Join(s.Root, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return objectPath, nil
}

func (s *LocalStorage) Delete(objectPath string) error {
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(objectPath)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Backend de objeto (Supabase)

type ObjectStorage struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

func NewObjectStorage(supabaseURL, supabaseKey, bucket string) *ObjectStorage {
	return &ObjectStorage{
		client:  storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil),
		baseURL: supabaseURL,
		bucket:  bucket,
	}
}

// Save envia o objeto com retry: upload é uma das chamadas externas
// designadas para retry com backoff.
func (s *ObjectStorage) Save(objectPath string, data []byte, contentType string) (string, error) {
	upload := func() error {
		_, err := s.client.UploadFile(s.bucket, objectPath, bytes.NewReader(data), storage.FileOptions{
			ContentType: &contentType,
		})
		return err
	}

	if err := backoff.Retry(upload, UploadBackoff()); err != nil {
		return "", fmt.Errorf("upload para o storage falhou: %w", err)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath), nil
}

func (s *ObjectStorage) Delete(objectPath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{objectPath})
	return err
}
