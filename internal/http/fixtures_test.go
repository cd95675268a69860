package http

import (
	"context"
	"net/http"
	"testing"

	"booklibrary/internal/catalog"
	"booklibrary/internal/service"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// testEnv wires every handler against one in-memory repository seeded
// with three books and the user "alice" (password "password1").
type testEnv struct {
	repo         *catalog.MemoryRepo
	books        *BookHandler
	reviews      *ReviewHandler
	users        *UserHandler
	readingLists *ReadingListHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	repo := catalog.NewMemoryRepo()

	gaiman, err := catalog.NewAuthor(10, "Neil Gaiman")
	require.NoError(t, err)
	dc := catalog.NewPublisher("DC Comics")

	seeds := []struct {
		id       int
		title    string
		language string
		year     int
	}{
		{1, "Alpha", "en", 1999},
		{2, "Beta", "fre", 1999},
		{3, "Gamma", "en", 2005},
	}
	for _, seed := range seeds {
		b, err := catalog.NewBook(seed.id, seed.title)
		require.NoError(t, err)
		require.NoError(t, b.SetLanguage(seed.language))
		require.NoError(t, b.SetReleaseYear(seed.year))
		b.SetPublisher(dc)
		b.AddAuthor(gaiman)
		require.NoError(t, repo.AddBook(ctx, b))
	}

	bookService := service.NewBooks(repo)
	userService := service.NewUsers(repo)
	readingListService := service.NewReadingLists(repo)

	_, err = userService.Register(ctx, "alice", "password1")
	require.NoError(t, err)

	return &testEnv{
		repo:         repo,
		books:        NewBookHandler(bookService),
		reviews:      NewReviewHandler(bookService),
		users:        NewUserHandler(userService, testSecret),
		readingLists: NewReadingListHandler(readingListService),
	}
}

// asUser stamps the request with an authenticated username, the way
// AuthMiddleware does after verifying a token.
func asUser(r *http.Request, username string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), usernameKey, username))
}
