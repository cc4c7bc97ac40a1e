package dataset

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/movievec/movievec/vector"
)

// Movie is a single row of the movie catalog.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Runtime     int      `json:"runtime,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// Document renders the movie as a vector.Document: the content is the text
// that gets embedded, the metadata carries the full record as JSON.
func (m Movie) Document() vector.Document {
	var b strings.Builder
	b.WriteString(m.Title)
	if len(m.Genres) > 0 {
		b.WriteString(". Genres: ")
		b.WriteString(strings.Join(m.Genres, ", "))
	}
	if m.Overview != "" {
		b.WriteString(". ")
		b.WriteString(m.Overview)
	}
	meta, _ := json.Marshal(m)
	return vector.Document{
		ID:       m.ID,
		Content:  b.String(),
		Metadata: string(meta),
	}
}

// FromDocument restores a Movie from a document produced by Document.
func FromDocument(doc vector.Document) (Movie, error) {
	var m Movie
	if doc.Metadata == "" {
		return Movie{ID: doc.ID, Overview: doc.Content}, nil
	}
	if err := json.Unmarshal([]byte(doc.Metadata), &m); err != nil {
		return Movie{}, errors.Wrapf(err, "dataset: invalid metadata for document %q", doc.ID)
	}
	if m.ID == "" {
		m.ID = doc.ID
	}
	return m, nil
}

// Load reads a movie catalog from CSV. The first row is a header; recognized
// columns are id, title, overview, release_date, runtime and genres (pipe or
// comma separated). Unknown columns are ignored.
func Load(r io.Reader) ([]Movie, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "dataset: read header")
	}
	cols := columnIndex(header)
	if _, ok := cols["title"]; !ok {
		return nil, errors.New("dataset: header has no title column")
	}

	var movies []Movie
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, errors.Wrapf(err, "dataset: row %d", row)
		}
		m, err := parseMovie(record, cols, row)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// LoadFile reads a movie catalog from a CSV file on disk.
func LoadFile(path string) ([]Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "dataset: open catalog")
	}
	defer f.Close()
	return Load(f)
}

func columnIndex(header []string) map[string]int {
	aliases := map[string]string{
		"movie_id":	"id",
		"name":		"title",
		"description":	"overview",
		"plot":		"overview",
		"release":	"release_date",
		"releasedate":	"release_date",
		"duration":	"runtime",
		"genre":	"genres",
		"genres_list":	"genres",
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := aliases[key]; ok {
			key = canonical
		}
		if _, exists := cols[key]; !exists {
			cols[key] = i
		}
	}
	return cols
}

func parseMovie(record []string, cols map[string]int, row int) (Movie, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	m := Movie{
		ID:          field("id"),
		Title:       field("title"),
		Overview:    field("overview"),
		ReleaseDate: field("release_date"),
	}
	if m.ID == "" {
		m.ID = strconv.Itoa(row - 1)
	}
	if raw := field("runtime"); raw != "" {
		runtime, err := strconv.Atoi(raw)
		if err != nil {
			return Movie{}, errors.Wrapf(err, "dataset: row %d: invalid runtime %q", row, raw)
		}
		m.Runtime = runtime
	}
	if raw := field("genres"); raw != "" {
		sep := ","
		if strings.Contains(raw, "|") {
			sep = "|"
		}
		for _, g := range strings.Split(raw, sep) {
			if g = strings.TrimSpace(g); g != "" {
				m.Genres = append(m.Genres, g)
			}
		}
	}
	return m, nil
}
