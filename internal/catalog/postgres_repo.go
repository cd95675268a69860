package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo is the persistent Repository backend. Each operation runs
// under its own deadline-scoped context and either commits fully or rolls
// back, so a failed call never leaks a half-applied mutation. Unlike the
// memory backend it returns fresh entity values per call; relations are
// hydrated by the operation that needs them.
type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

var _ Repository = (*PostgresRepo)(nil)

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) AddUser(ctx context.Context, u *User) error {
	const insertSQL = `
		INSERT INTO users (user_name, password)
		VALUES ($1, $2)
		ON CONFLICT (user_name) DO UPDATE SET password = EXCLUDED.password
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, insertSQL, u.Username(), u.PasswordHash())
	return err
}

func (r *PostgresRepo) GetUser(ctx context.Context, username string) (*User, error) {
	const selectSQL = `SELECT user_name, password FROM users WHERE user_name = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var name, password string
	err := r.db.QueryRow(timeoutCtx, selectSQL, NormalizeUsername(username)).Scan(&name, &password)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &User{username: name, passwordHash: password}, nil
}

func (r *PostgresRepo) CountUsers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *PostgresRepo) AddBook(ctx context.Context, b *Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	var publisher *string
	if p := b.Publisher(); p != nil {
		name := p.Name()
		publisher = &name
		if _, err := tx.Exec(timeoutCtx,
			`INSERT INTO publishers (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return err
		}
	}

	var releaseYear, numPages *int
	if year, ok := b.ReleaseYear(); ok {
		releaseYear = &year
	}
	if pages, ok := b.NumPages(); ok {
		numPages = &pages
	}

	const insertBookSQL = `
		INSERT INTO books (book_id, title, description, publisher, release_year, num_pages, ebook, image_hyperlink, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (book_id) DO NOTHING
	`
	if _, err := tx.Exec(timeoutCtx, insertBookSQL,
		b.ID(), b.Title(), b.Description(), publisher, releaseYear, numPages,
		b.Ebook(), b.ImageHyperlink(), b.Language()); err != nil {
		return err
	}

	for _, a := range b.Authors() {
		if _, err := tx.Exec(timeoutCtx,
			`INSERT INTO authors (unique_id, full_name) VALUES ($1, $2) ON CONFLICT (unique_id) DO NOTHING`,
			a.ID(), a.FullName()); err != nil {
			return err
		}
		if _, err := tx.Exec(timeoutCtx,
			`INSERT INTO book_authors (author_id, book_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			a.ID(), b.ID()); err != nil {
			return err
		}
	}

	return tx.Commit(timeoutCtx)
}

const bookColumns = `b.book_id, b.title, b.description, b.publisher, b.release_year, b.num_pages, b.ebook, b.image_hyperlink, b.language`

func (r *PostgresRepo) GetBook(ctx context.Context, id int) (*Book, error) {
	books, err := r.selectBooks(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.book_id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, ErrNotFound
	}
	return books[0], nil
}

func (r *PostgresRepo) GetBooksByID(ctx context.Context, ids []int) ([]*Book, error) {
	if len(ids) == 0 {
		return []*Book{}, nil
	}
	books, err := r.selectBooks(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.book_id = ANY($1) ORDER BY b.book_id ASC`, ids)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*Book{}
	}
	return books, nil
}

func (r *PostgresRepo) GetBooksByAuthor(ctx context.Context, author string) ([]*Book, error) {
	const selectSQL = `
		SELECT DISTINCT ` + bookColumns + `
		FROM books b
		JOIN book_authors ba ON ba.book_id = b.book_id
		JOIN authors a ON a.unique_id = ba.author_id
		WHERE a.full_name LIKE '%' || $1 || '%'
		ORDER BY b.book_id ASC
	`
	return r.selectBooksOrNoResults(ctx, selectSQL, author)
}

func (r *PostgresRepo) GetBooksByLanguage(ctx context.Context, lang string) ([]*Book, error) {
	return r.selectBooksOrNoResults(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.language = $1 ORDER BY b.book_id ASC`, lang)
}

func (r *PostgresRepo) GetBooksByPublisher(ctx context.Context, publisher string) ([]*Book, error) {
	return r.selectBooksOrNoResults(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.publisher = $1 ORDER BY b.book_id ASC`, publisher)
}

func (r *PostgresRepo) GetBooksByReleaseYear(ctx context.Context, year int) ([]*Book, error) {
	return r.selectBooksOrNoResults(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.release_year = $1 ORDER BY b.book_id ASC`, year)
}

func (r *PostgresRepo) GetBooksByTitle(ctx context.Context, fragment string) ([]*Book, error) {
	return r.selectBooksOrNoResults(ctx,
		`SELECT `+bookColumns+` FROM books b WHERE b.title LIKE '%' || $1 || '%' ORDER BY b.book_id ASC`, fragment)
}

func (r *PostgresRepo) CountBooks(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM books`)
}

func (r *PostgresRepo) FirstBook(ctx context.Context) (*Book, error) {
	return r.oneBook(ctx, `SELECT `+bookColumns+` FROM books b ORDER BY b.book_id ASC LIMIT 1`)
}

func (r *PostgresRepo) LastBook(ctx context.Context) (*Book, error) {
	return r.oneBook(ctx, `SELECT `+bookColumns+` FROM books b ORDER BY b.book_id DESC LIMIT 1`)
}

func (r *PostgresRepo) BookIDsForAuthor(ctx context.Context, author string) ([]int, error) {
	const selectSQL = `
		SELECT DISTINCT ba.book_id
		FROM book_authors ba
		JOIN authors a ON a.unique_id = ba.author_id
		WHERE a.full_name LIKE '%' || $1 || '%'
		ORDER BY ba.book_id ASC
	`
	return r.selectIDs(ctx, selectSQL, author)
}

func (r *PostgresRepo) BookIDsForLanguage(ctx context.Context, lang string) ([]int, error) {
	return r.selectIDs(ctx, `SELECT book_id FROM books WHERE language = $1 ORDER BY book_id ASC`, lang)
}

func (r *PostgresRepo) BookIDsForPublisher(ctx context.Context, publisher string) ([]int, error) {
	return r.selectIDs(ctx, `SELECT book_id FROM books WHERE publisher = $1 ORDER BY book_id ASC`, publisher)
}

func (r *PostgresRepo) BookIDsForReleaseYear(ctx context.Context, year int) ([]int, error) {
	return r.selectIDs(ctx, `SELECT book_id FROM books WHERE release_year = $1 ORDER BY book_id ASC`, year)
}

func (r *PostgresRepo) Languages(ctx context.Context) ([]string, error) {
	const selectSQL = `SELECT DISTINCT language FROM books WHERE language <> '' ORDER BY language ASC`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	languages := []string{}
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, err
		}
		languages = append(languages, lang)
	}
	return languages, rows.Err()
}

func (r *PostgresRepo) Authors(ctx context.Context) ([]*Author, error) {
	const selectSQL = `SELECT unique_id, full_name FROM authors ORDER BY unique_id ASC`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []*Author{}
	for rows.Next() {
		var id int
		var fullName string
		if err := rows.Scan(&id, &fullName); err != nil {
			return nil, err
		}
		authors = append(authors, &Author{id: id, fullName: fullName, coauthors: make(map[int]struct{})})
	}
	return authors, rows.Err()
}

func (r *PostgresRepo) Publishers(ctx context.Context) ([]*Publisher, error) {
	const selectSQL = `
		SELECT p.name, b.book_id
		FROM publishers p
		LEFT JOIN books b ON b.publisher = p.name
		ORDER BY p.name ASC, b.book_id ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	publishers := []*Publisher{}
	byName := make(map[string]*Publisher)
	for rows.Next() {
		var name string
		var bookID *int
		if err := rows.Scan(&name, &bookID); err != nil {
			return nil, err
		}
		p, ok := byName[name]
		if !ok {
			p = &Publisher{name: name}
			byName[name] = p
			publishers = append(publishers, p)
		}
		if bookID != nil {
			p.addBook(*bookID)
		}
	}
	return publishers, rows.Err()
}

func (r *PostgresRepo) ReleaseYears(ctx context.Context) ([]int, error) {
	const selectSQL = `SELECT DISTINCT release_year FROM books WHERE release_year IS NOT NULL ORDER BY release_year ASC`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	years := []int{}
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

// AddReview applies the same integrity check as the memory backend before
// touching the database.
func (r *PostgresRepo) AddReview(ctx context.Context, review *Review) error {
	if !review.linked() {
		return ErrIncompleteReview
	}
	const insertSQL = `
		INSERT INTO reviews (user_id, book_id, review_text, rating, timestamp)
		SELECT u.id, $2, $3, $4, $5 FROM users u WHERE u.user_name = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, insertSQL,
		review.User().Username(), review.Book().ID(), review.Text(), review.Rating(), review.CreatedAt())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Reviews(ctx context.Context) ([]*Review, error) {
	const selectSQL = `
		SELECT u.user_name, u.password, b.book_id, b.title, rv.review_text, rv.rating, rv.timestamp
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		JOIN books b ON b.book_id = rv.book_id
		ORDER BY rv.id ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make(map[string]*User)
	books := make(map[int]*Book)
	reviews := []*Review{}
	for rows.Next() {
		var userName, password, title, text string
		var bookID, rating int
		var createdAt time.Time
		if err := rows.Scan(&userName, &password, &bookID, &title, &text, &rating, &createdAt); err != nil {
			return nil, err
		}
		u, ok := users[userName]
		if !ok {
			u = &User{username: userName, passwordHash: password}
			users[userName] = u
		}
		b, ok := books[bookID]
		if !ok {
			b = &Book{id: bookID, title: title}
			books[bookID] = b
		}
		review := &Review{book: b, user: u, text: text, rating: rating, createdAt: createdAt}
		b.attachReview(review)
		u.attachReview(review)
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *PostgresRepo) CountReviews(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM reviews`)
}

// ReadingList preserves insertion order via the serial reading_lists id.
func (r *PostgresRepo) ReadingList(ctx context.Context, username string) ([]*Book, error) {
	if _, err := r.GetUser(ctx, username); err != nil {
		return nil, err
	}
	const selectSQL = `
		SELECT ` + bookColumns + `
		FROM reading_lists rl
		JOIN books b ON b.book_id = rl.book_id
		WHERE rl.user_name = $1
		ORDER BY rl.id ASC
	`
	books, err := r.selectBooks(ctx, selectSQL, NormalizeUsername(username))
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*Book{}
	}
	return books, nil
}

// AddToReadingList inserts the membership pair; the unique constraint
// makes a duplicate add a no-op, matching the memory backend.
func (r *PostgresRepo) AddToReadingList(ctx context.Context, username string, bookID int) error {
	if err := r.checkPair(ctx, username, bookID); err != nil {
		return err
	}
	const insertSQL = `
		INSERT INTO reading_lists (user_name, book_id)
		VALUES ($1, $2)
		ON CONFLICT (user_name, book_id) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, insertSQL, NormalizeUsername(username), bookID)
	return err
}

func (r *PostgresRepo) RemoveFromReadingList(ctx context.Context, username string, bookID int) error {
	if err := r.checkPair(ctx, username, bookID); err != nil {
		return err
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx,
		`DELETE FROM reading_lists WHERE user_name = $1 AND book_id = $2`,
		NormalizeUsername(username), bookID)
	return err
}

func (r *PostgresRepo) checkPair(ctx context.Context, username string, bookID int) error {
	if _, err := r.GetUser(ctx, username); err != nil {
		return err
	}
	_, err := r.GetBook(ctx, bookID)
	return err
}

func (r *PostgresRepo) count(ctx context.Context, countSQL string) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var total int
	if err := r.db.QueryRow(timeoutCtx, countSQL).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresRepo) oneBook(ctx context.Context, selectSQL string) (*Book, error) {
	books, err := r.selectBooks(ctx, selectSQL)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, ErrNotFound
	}
	return books[0], nil
}

func (r *PostgresRepo) selectBooksOrNoResults(ctx context.Context, selectSQL string, args ...any) ([]*Book, error) {
	books, err := r.selectBooks(ctx, selectSQL, args...)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, ErrNoResults
	}
	return books, nil
}

func (r *PostgresRepo) selectIDs(ctx context.Context, selectSQL string, args ...any) ([]int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoResults
	}
	return ids, nil
}

// selectBooks runs a book query and hydrates authors and publishers for
// the result set in one extra round trip.
func (r *PostgresRepo) selectBooks(ctx context.Context, selectSQL string, args ...any) ([]*Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*Book
	byID := make(map[int]*Book)
	publishers := make(map[string]*Publisher)
	for rows.Next() {
		var (
			id                    int
			title, description    string
			imageHyperlink, lang  string
			publisher             *string
			releaseYear, numPages *int
			ebook                 bool
		)
		if err := rows.Scan(&id, &title, &description, &publisher, &releaseYear, &numPages, &ebook, &imageHyperlink, &lang); err != nil {
			return nil, err
		}
		b := &Book{
			id:             id,
			title:          title,
			description:    description,
			releaseYear:    releaseYear,
			numPages:       numPages,
			ebook:          ebook,
			imageHyperlink: imageHyperlink,
			language:       lang,
		}
		if publisher != nil {
			p, ok := publishers[*publisher]
			if !ok {
				p = &Publisher{name: *publisher}
				publishers[*publisher] = p
			}
			b.SetPublisher(p)
		}
		books = append(books, b)
		byID[id] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return books, nil
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	if err := r.loadAuthors(ctx, byID, ids); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *PostgresRepo) loadAuthors(ctx context.Context, byID map[int]*Book, ids []int) error {
	const selectSQL = `
		SELECT ba.book_id, a.unique_id, a.full_name
		FROM book_authors ba
		JOIN authors a ON a.unique_id = ba.author_id
		WHERE ba.book_id = ANY($1)
		ORDER BY ba.book_id ASC, a.unique_id ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectSQL, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	authors := make(map[int]*Author)
	for rows.Next() {
		var bookID, authorID int
		var fullName string
		if err := rows.Scan(&bookID, &authorID, &fullName); err != nil {
			return err
		}
		a, ok := authors[authorID]
		if !ok {
			a = &Author{id: authorID, fullName: fullName, coauthors: make(map[int]struct{})}
			authors[authorID] = a
		}
		if b, ok := byID[bookID]; ok {
			b.AddAuthor(a)
		}
	}
	return rows.Err()
}
