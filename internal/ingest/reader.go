package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"booklibrary/internal/catalog"
)

// bookRecord mirrors one line of the line-delimited books file. Numeric
// fields arrive as strings and may be empty.
type bookRecord struct {
	BookID          string `json:"book_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Publisher       string `json:"publisher"`
	PublicationYear string `json:"publication_year"`
	IsEbook         string `json:"is_ebook"`
	NumPages        string `json:"num_pages"`
	LanguageCode    string `json:"language_code"`
	ImageURL        string `json:"image_url"`
	Authors         []struct {
		AuthorID string `json:"author_id"`
	} `json:"authors"`
}

type authorRecord struct {
	AuthorID string `json:"author_id"`
	Name     string `json:"name"`
}

// ReadAuthorsFile loads the line-delimited authors file into an id →
// name map used while assembling books.
func ReadAuthorsFile(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := make(map[int]string)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec authorRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("authors file: %w", err)
		}
		id, err := strconv.Atoi(rec.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("authors file: bad author_id %q", rec.AuthorID)
		}
		names[id] = rec.Name
	}
	return names, scanner.Err()
}

// ReadBooksFile loads the line-delimited books file, resolving author
// ids against the name map. Authors of a shared book are registered as
// coauthors of each other.
func ReadBooksFile(path string, authorNames map[int]string) ([]*catalog.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	authors := make(map[int]*catalog.Author)
	var books []*catalog.Book
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec bookRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("books file: %w", err)
		}
		b, err := buildBook(rec, authorNames, authors)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, scanner.Err()
}

func buildBook(rec bookRecord, authorNames map[int]string, authors map[int]*catalog.Author) (*catalog.Book, error) {
	id, err := strconv.Atoi(rec.BookID)
	if err != nil {
		return nil, fmt.Errorf("books file: bad book_id %q", rec.BookID)
	}
	b, err := catalog.NewBook(id, rec.Title)
	if err != nil {
		return nil, err
	}

	b.SetPublisher(catalog.NewPublisher(rec.Publisher))
	b.SetDescription(rec.Description)
	b.SetImageHyperlink(rec.ImageURL)
	b.SetEbook(strings.EqualFold(rec.IsEbook, "true"))
	if rec.PublicationYear != "" {
		year, err := strconv.Atoi(rec.PublicationYear)
		if err == nil {
			if err := b.SetReleaseYear(year); err != nil {
				return nil, err
			}
		}
	}
	if rec.NumPages != "" {
		if pages, err := strconv.Atoi(rec.NumPages); err == nil {
			b.SetNumPages(pages)
		}
	}
	if rec.LanguageCode != "" {
		if err := b.SetLanguage(rec.LanguageCode); err != nil {
			return nil, err
		}
	}

	var bookAuthors []*catalog.Author
	for _, ref := range rec.Authors {
		authorID, err := strconv.Atoi(ref.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("books file: bad author_id %q", ref.AuthorID)
		}
		a, ok := authors[authorID]
		if !ok {
			name, known := authorNames[authorID]
			if !known {
				return nil, fmt.Errorf("books file: author %d not in authors file", authorID)
			}
			a, err = catalog.NewAuthor(authorID, name)
			if err != nil {
				return nil, err
			}
			authors[authorID] = a
		}
		b.AddAuthor(a)
		bookAuthors = append(bookAuthors, a)
	}
	for _, a := range bookAuthors {
		for _, other := range bookAuthors {
			a.AddCoauthor(other)
		}
	}
	return b, nil
}

// ReadCSVFile yields the data rows of a CSV file, header skipped, cells
// trimmed.
func ReadCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err != nil && err != io.EOF {
		return nil, err
	}
	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
