package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"booklibrary/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewHandler_Add(t *testing.T) {
	env := newTestEnv(t)

	addReview := func(bookID string, body interface{}, username string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/books/"+bookID+"/reviews", body)
		r.SetPathValue("id", bookID)
		if username != "" {
			r = asUser(r, username)
		}
		env.reviews.Add(w, r)
		return w
	}

	t.Run("success", func(t *testing.T) {
		w := addReview("1", map[string]interface{}{"text": "great", "rating": 5}, "alice")

		resp := testutil.RecordHTTPResponse(w)
		assert.Equal(t, http.StatusCreated, resp.Code)
		data := resp.Body["data"].(map[string]interface{})
		assert.Equal(t, "alice", data["username"])
		assert.EqualValues(t, 1, data["book_id"])
		assert.EqualValues(t, 5, data["rating"])
	})

	t.Run("unknown book", func(t *testing.T) {
		w := addReview("99", map[string]interface{}{"text": "x", "rating": 3}, "alice")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := addReview("1", map[string]interface{}{"text": "x", "rating": 3}, "ghost")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rating out of range", func(t *testing.T) {
		w := addReview("1", map[string]interface{}{"text": "x", "rating": 6}, "alice")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := addReview("abc", map[string]interface{}{"text": "x", "rating": 3}, "alice")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReviewHandler_List(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPost, "/books/2/reviews", map[string]interface{}{"text": "fine", "rating": 3})
	r.SetPathValue("id", "2")
	env.reviews.Add(w, asUser(r, "alice"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	env.reviews.List(w, testutil.NewRequest(http.MethodGet, "/reviews", nil))

	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].([]interface{})
	require.Len(t, data, 1)
	review := data[0].(map[string]interface{})
	assert.Equal(t, "fine", review["text"])
	assert.EqualValues(t, 2, review["book_id"])
}
