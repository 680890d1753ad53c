package controllers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithub/nit-backend/models"
)

func category(name string, parent *uuid.UUID) models.Category {
	c := models.Category{Name: name, ParentID: parent}
	c.ID = uuid.New()
	return c
}

func TestBuildCategoryTree(t *testing.T) {
	root := category("Pesquisa", nil)
	child := category("Patentes", &root.ID)
	grandchild := category("Software", &child.ID)
	otherRoot := category("Extensão", nil)

	tree := buildCategoryTree([]models.Category{root, child, grandchild, otherRoot}, nil)

	require.Len(t, tree, 2)
	assert.Equal(t, "Pesquisa", tree[0].Name)
	assert.Equal(t, "Extensão", tree[1].Name)

	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Patentes", tree[0].Children[0].Name)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Software", tree[0].Children[0].Children[0].Name)

	assert.Empty(t, tree[1].Children)
}

func TestBuildCategoryTreeEmpty(t *testing.T) {
	tree := buildCategoryTree(nil, nil)
	assert.NotNil(t, tree, "árvore vazia serializa como [], não null")
	assert.Empty(t, tree)
}
