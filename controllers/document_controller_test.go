package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithub/nit-backend/models"
	"github.com/nithub/nit-backend/services"
)

func TestValidateDocumentInputRequiresContentOrFile(t *testing.T) {
	fieldErrors := validateDocumentInput(documentInput{Title: "Manual"}, false)
	assert.Contains(t, fieldErrors, "content")
	assert.Contains(t, fieldErrors, "file")

	fieldErrors = validateDocumentInput(documentInput{Title: "Manual", Content: "texto"}, false)
	assert.Empty(t, fieldErrors)

	fieldErrors = validateDocumentInput(documentInput{Title: "Manual"}, true)
	assert.Empty(t, fieldErrors)
}

func TestValidateDocumentInputTitle(t *testing.T) {
	fieldErrors := validateDocumentInput(documentInput{Content: "texto"}, false)
	assert.Contains(t, fieldErrors, "title")

	fieldErrors = validateDocumentInput(documentInput{Title: "   ", Content: "texto"}, false)
	assert.Contains(t, fieldErrors, "title")

	// mínimo de 3 caracteres, contando runas
	fieldErrors = validateDocumentInput(documentInput{Title: "ab", Content: "texto"}, false)
	assert.Equal(t, "O título deve ter pelo menos 3 caracteres.", fieldErrors["title"])

	fieldErrors = validateDocumentInput(documentInput{Title: "  ab  ", Content: "texto"}, false)
	assert.Contains(t, fieldErrors, "title")

	fieldErrors = validateDocumentInput(documentInput{Title: "ação", Content: "texto"}, false)
	assert.Empty(t, fieldErrors)
}

func TestValidateDocumentInputCategory(t *testing.T) {
	fieldErrors := validateDocumentInput(documentInput{
		Title:    "Manual",
		Content:  "texto",
		Category: "INVALIDA",
	}, false)
	assert.Contains(t, fieldErrors, "category")

	fieldErrors = validateDocumentInput(documentInput{
		Title:    "Manual",
		Content:  "texto",
		Category: models.DocumentCategoryPolicy,
	}, false)
	assert.Empty(t, fieldErrors)
}

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSaveDocumentFileReturnsRemovablePath(t *testing.T) {
	root := t.TempDir()
	prev := storage
	storage = services.NewLocalStorage(root)
	t.Cleanup(func() { storage = prev })

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = multipartRequest(t, "file", "manual.pdf", []byte("conteudo"))

	stored, objectPath, err := saveDocumentFile(c)
	require.NoError(t, err)
	assert.Equal(t, objectPath, stored)

	full := filepath.Join(root, filepath.FromSlash(objectPath))
	_, statErr := os.Stat(full)
	require.NoError(t, statErr)

	// o caminho devolvido permite desfazer o upload quando a escrita
	// no banco falha depois dele
	require.NoError(t, storage.Delete(objectPath))
	_, statErr = os.Stat(full)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveDocumentFileWithoutAttachment(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/documents", nil)

	stored, objectPath, err := saveDocumentFile(c)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, objectPath)
}
