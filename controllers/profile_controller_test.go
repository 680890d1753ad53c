package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithub/nit-backend/models"
	"github.com/nithub/nit-backend/services"
)

func TestSaveAvatarReturnsRemovablePath(t *testing.T) {
	root := t.TempDir()
	prev := storage
	storage = services.NewLocalStorage(root)
	t.Cleanup(func() { storage = prev })

	profile := models.Profile{}
	profile.ID = uuid.New()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = multipartRequest(t, "avatar", "foto.png", []byte{0x89, 0x50, 0x4e, 0x47})

	stored, objectPath, err := saveAvatar(c, &profile)
	require.NoError(t, err)
	assert.Equal(t, objectPath, stored)
	assert.Equal(t, services.AvatarObjectPath(profile.ID.String(), "foto.png"), objectPath)

	full := filepath.Join(root, filepath.FromSlash(objectPath))
	_, statErr := os.Stat(full)
	require.NoError(t, statErr)

	// o caminho devolvido permite desfazer o upload quando a escrita
	// no banco falha depois dele
	require.NoError(t, storage.Delete(objectPath))
	_, statErr = os.Stat(full)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveAvatarWithoutAttachment(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPatch, "/api/v1/profiles/mine", nil)

	profile := models.Profile{}
	stored, objectPath, err := saveAvatar(c, &profile)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, objectPath)
}
