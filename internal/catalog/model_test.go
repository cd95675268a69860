package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBook(t *testing.T, id int, title string) *Book {
	t.Helper()
	b, err := NewBook(id, title)
	require.NoError(t, err)
	return b
}

func mustAuthor(t *testing.T, id int, name string) *Author {
	t.Helper()
	a, err := NewAuthor(id, name)
	require.NoError(t, err)
	return a
}

func mustUser(t *testing.T, username string) *User {
	t.Helper()
	u, err := NewUser(username, "hashed-password")
	require.NoError(t, err)
	return u
}

func TestNewBook(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		b, err := NewBook(1, "The Sandman")
		require.NoError(t, err)
		assert.Equal(t, 1, b.ID())
		assert.Equal(t, "The Sandman", b.Title())
	})

	t.Run("negative id", func(t *testing.T) {
		_, err := NewBook(-1, "The Sandman")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := NewBook(1, "   ")
		assert.ErrorIs(t, err, ErrBlankTitle)
	})

	t.Run("title trimmed", func(t *testing.T) {
		b, err := NewBook(1, "  Watchmen  ")
		require.NoError(t, err)
		assert.Equal(t, "Watchmen", b.Title())
	})
}

func TestBookSetters(t *testing.T) {
	t.Run("set title rejects blank and keeps previous", func(t *testing.T) {
		b := mustBook(t, 1, "Watchmen")
		err := b.SetTitle("")
		assert.ErrorIs(t, err, ErrBlankTitle)
		assert.Equal(t, "Watchmen", b.Title())
	})

	t.Run("release year", func(t *testing.T) {
		b := mustBook(t, 1, "Watchmen")
		_, ok := b.ReleaseYear()
		assert.False(t, ok)

		require.NoError(t, b.SetReleaseYear(1986))
		year, ok := b.ReleaseYear()
		assert.True(t, ok)
		assert.Equal(t, 1986, year)

		assert.Error(t, b.SetReleaseYear(-5))
		year, _ = b.ReleaseYear()
		assert.Equal(t, 1986, year)
	})

	t.Run("num pages ignores negative", func(t *testing.T) {
		b := mustBook(t, 1, "Watchmen")
		b.SetNumPages(-3)
		_, ok := b.NumPages()
		assert.False(t, ok)

		b.SetNumPages(416)
		pages, ok := b.NumPages()
		assert.True(t, ok)
		assert.Equal(t, 416, pages)
	})

	t.Run("language normalized", func(t *testing.T) {
		b := mustBook(t, 1, "Watchmen")
		assert.Empty(t, b.Language())

		require.NoError(t, b.SetLanguage("fre"))
		assert.Equal(t, "French", b.Language())

		require.NoError(t, b.SetLanguage(""))
		assert.Equal(t, "English", b.Language())

		assert.ErrorIs(t, b.SetLanguage("zz-not-a-language"), ErrUnknownLanguage)
		assert.Equal(t, "English", b.Language())
	})
}

func TestBookAuthors(t *testing.T) {
	b := mustBook(t, 1, "Good Omens")
	gaiman := mustAuthor(t, 10, "Neil Gaiman")
	pratchett := mustAuthor(t, 11, "Terry Pratchett")

	b.AddAuthor(gaiman)
	b.AddAuthor(pratchett)
	b.AddAuthor(gaiman) // duplicate, ignored
	require.Len(t, b.Authors(), 2)

	b.RemoveAuthor(pratchett)
	require.Len(t, b.Authors(), 1)
	assert.Equal(t, "Neil Gaiman", b.Authors()[0].FullName())

	b.RemoveAuthor(pratchett) // already gone
	assert.Len(t, b.Authors(), 1)
}

func TestBookPublisherBackReference(t *testing.T) {
	p := NewPublisher("DC Comics")
	first := mustBook(t, 2, "Watchmen")
	second := mustBook(t, 1, "The Sandman")

	first.SetPublisher(p)
	second.SetPublisher(p)
	second.SetPublisher(p) // idempotent

	assert.Same(t, p, first.Publisher())
	assert.Equal(t, []int{1, 2}, p.BookIDs())
}

func TestNewPublisher(t *testing.T) {
	assert.Equal(t, "DC Comics", NewPublisher(" DC Comics ").Name())
	assert.Equal(t, "N/A", NewPublisher("").Name())
	assert.Equal(t, "N/A", NewPublisher("   ").Name())
}

func TestAuthor(t *testing.T) {
	t.Run("construction", func(t *testing.T) {
		_, err := NewAuthor(-2, "Neil Gaiman")
		assert.ErrorIs(t, err, ErrInvalidID)

		_, err = NewAuthor(1, " ")
		assert.ErrorIs(t, err, ErrBlankName)
	})

	t.Run("coauthors", func(t *testing.T) {
		gaiman := mustAuthor(t, 10, "Neil Gaiman")
		pratchett := mustAuthor(t, 11, "Terry Pratchett")

		gaiman.AddCoauthor(pratchett)
		assert.True(t, gaiman.CoauthoredWith(pratchett))
		assert.False(t, pratchett.CoauthoredWith(gaiman))

		gaiman.AddCoauthor(gaiman) // never self
		assert.False(t, gaiman.CoauthoredWith(gaiman))
	})
}

func TestNewUser(t *testing.T) {
	t.Run("username normalized", func(t *testing.T) {
		u, err := NewUser("  Alice  ", "hashed-password")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username())
	})

	t.Run("blank username", func(t *testing.T) {
		_, err := NewUser("   ", "hashed-password")
		assert.ErrorIs(t, err, ErrInvalidUsername)
	})

	t.Run("short credential", func(t *testing.T) {
		_, err := NewUser("alice", "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestUserReadBook(t *testing.T) {
	u := mustUser(t, "alice")
	long := mustBook(t, 1, "The Stand")
	long.SetNumPages(1153)
	unknown := mustBook(t, 2, "Pamphlet")

	u.ReadBook(long)
	u.ReadBook(unknown) // no page count, still recorded
	u.ReadBook(long)    // rereads accumulate

	assert.Equal(t, []int{1, 2, 1}, u.ReadBooks())
	assert.Equal(t, 2306, u.PagesRead())
}

func TestMakeReview(t *testing.T) {
	t.Run("links both sides", func(t *testing.T) {
		b := mustBook(t, 1, "Watchmen")
		u := mustUser(t, "alice")

		r, err := MakeReview(b, u, "  a classic  ", 5)
		require.NoError(t, err)
		assert.Equal(t, "a classic", r.Text())
		assert.Equal(t, 5, r.Rating())
		assert.Same(t, b, r.Book())
		assert.Same(t, u, r.User())
		require.Len(t, b.Reviews(), 1)
		require.Len(t, u.Reviews(), 1)
		assert.Same(t, r, b.Reviews()[0])
		assert.Same(t, r, u.Reviews()[0])
	})

	t.Run("rating out of range", func(t *testing.T) {
		b := mustBook(t, 1, "Watchmen")
		u := mustUser(t, "alice")

		for _, rating := range []int{0, 6, -1} {
			_, err := MakeReview(b, u, "nope", rating)
			assert.ErrorIs(t, err, ErrInvalidRating)
		}
		assert.Empty(t, b.Reviews())
		assert.Empty(t, u.Reviews())
	})

	t.Run("missing book or user", func(t *testing.T) {
		b := mustBook(t, 1, "Watchmen")
		u := mustUser(t, "alice")

		_, err := MakeReview(nil, u, "x", 3)
		assert.ErrorIs(t, err, ErrIncompleteReview)
		_, err = MakeReview(b, nil, "x", 3)
		assert.ErrorIs(t, err, ErrIncompleteReview)
	})
}
