package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAuthorsFile(t *testing.T) {
	names, err := ReadAuthorsFile(filepath.Join("testdata", "book_authors_excerpt.json"))
	require.NoError(t, err)
	assert.Equal(t, map[int]string{
		10: "Neil Gaiman",
		11: "Terry Pratchett",
		12: "Alan Moore",
	}, names)
}

func TestReadAuthorsFile_BadID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authors.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"author_id": "abc", "name": "X"}`+"\n"), 0644))

	_, err := ReadAuthorsFile(path)
	assert.Error(t, err)
}

func TestReadBooksFile(t *testing.T) {
	names, err := ReadAuthorsFile(filepath.Join("testdata", "book_authors_excerpt.json"))
	require.NoError(t, err)

	books, err := ReadBooksFile(filepath.Join("testdata", "comic_books_excerpt.json"), names)
	require.NoError(t, err)
	require.Len(t, books, 3)

	t.Run("shared author objects", func(t *testing.T) {
		// Neil Gaiman appears on books 1 and 3; one Author backs both.
		assert.Same(t, books[0].Authors()[0], books[2].Authors()[0])
	})

	t.Run("ebook flag parsed", func(t *testing.T) {
		assert.False(t, books[0].Ebook())
		assert.True(t, books[1].Ebook())
	})

	t.Run("unknown author fails", func(t *testing.T) {
		_, err := ReadBooksFile(filepath.Join("testdata", "comic_books_excerpt.json"), map[int]string{})
		assert.Error(t, err)
	})
}

func TestReadCSVFile(t *testing.T) {
	rows, err := ReadCSVFile(filepath.Join("testdata", "users.csv"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"u1", "Alice", "wonderland7"}, rows[0])
}

func TestReadCSVFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	rows, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
