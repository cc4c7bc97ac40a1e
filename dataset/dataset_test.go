package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movievec/movievec/vector"
)

const sampleCSV = `id,title,overview,release_date,runtime,genres
1,Inception,A thief steals secrets through dreams,2010-07-16,148,Action|Sci-Fi
2,Heat,A cop pursues a crew of thieves,1995-12-15,170,"Crime, Thriller"
3,Alien,,1979-05-25,,Horror
`

func TestLoad(t *testing.T) {
	movies, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, movies, 3)

	assert.Equal(t, "1", movies[0].ID)
	assert.Equal(t, "Inception", movies[0].Title)
	assert.Equal(t, 148, movies[0].Runtime)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, movies[0].Genres)

	// Comma-separated genres inside a quoted field.
	assert.Equal(t, []string{"Crime", "Thriller"}, movies[1].Genres)

	// Empty optional fields stay zero.
	assert.Empty(t, movies[2].Overview)
	assert.Zero(t, movies[2].Runtime)
}

func TestLoad_HeaderAliases(t *testing.T) {
	csv := "movie_id,name,plot,genre\n42,Jaws,A shark terrorizes a beach town,Thriller\n"
	movies, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "42", movies[0].ID)
	assert.Equal(t, "Jaws", movies[0].Title)
	assert.Equal(t, "A shark terrorizes a beach town", movies[0].Overview)
	assert.Equal(t, []string{"Thriller"}, movies[0].Genres)
}

func TestLoad_MissingIDDefaultsToRow(t *testing.T) {
	csv := "title,overview\nFirst,one\nSecond,two\n"
	movies, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "1", movies[0].ID)
	assert.Equal(t, "2", movies[1].ID)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(strings.NewReader("overview\nno title column\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")

	_, err = Load(strings.NewReader("title,runtime\nBad,ninety\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime")
}

func TestLoad_Empty(t *testing.T) {
	movies, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestDocumentRoundTrip(t *testing.T) {
	m := Movie{
		ID:          "7",
		Title:       "Blade Runner",
		Overview:    "A blade runner must pursue replicants",
		ReleaseDate: "1982-06-25",
		Runtime:     117,
		Genres:      []string{"Sci-Fi", "Noir"},
	}

	doc := m.Document()
	assert.Equal(t, "7", doc.ID)
	assert.Contains(t, doc.Content, "Blade Runner")
	assert.Contains(t, doc.Content, "Sci-Fi, Noir")
	assert.Contains(t, doc.Content, m.Overview)

	restored, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, m, restored)
}

func TestFromDocument_NoMetadata(t *testing.T) {
	m, err := FromDocument(vector.Document{ID: "9", Content: "plain text"})
	require.NoError(t, err)
	assert.Equal(t, "9", m.ID)
	assert.Equal(t, "plain text", m.Overview)
}
