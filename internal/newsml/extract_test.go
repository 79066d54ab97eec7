package newsml

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
	"github.com/awp-finanznachrichten/archive-llm/internal/newsml/newsmltest"
)

func extractDoc(t *testing.T, raw []byte) (domain.ExtractedArticle, error) {
	t.Helper()
	doc, err := ParseBytes(raw)
	require.NoError(t, err)
	return Extract(doc)
}

func TestExtractFixture(t *testing.T) {
	t.Parallel()

	raw, err := os.ReadFile("testdata/article.xml")
	require.NoError(t, err)

	article, err := extractDoc(t, raw)
	require.NoError(t, err)

	assert.Equal(t, `Novartis hebt "Prognose" an`, article.Title)
	assert.True(t, article.HasByline)
	assert.Equal(t, "Von Hans Muster", article.Byline)

	first := "Basel (awp) - Novartis hebt die Prognose an."
	wantBody := first + "\n\nAusblick\n\nDer Konzern erwartet mehr Umsatz.\n\nhm/ra"
	assert.Equal(t, wantBody, article.Body)
	assert.Equal(t, 4, article.ParagraphCount)
	assert.Equal(t, utf8.RuneCountInString(first), article.FirstParagraphChars)
	assert.False(t, article.TableContained)

	assert.Equal(t, []string{"P", "K"}, article.Wires)
	assert.Equal(t, []string{"ECO", "ECO"}, article.Subjects)
	assert.Equal(t, []string{"PHA"}, article.Industries)
	assert.Equal(t, []string{"CH"}, article.Countries)
	assert.Equal(t, []string{"1200526", "1203204"}, article.CompanyIDs)
	assert.Equal(t, []string{"Novartis AG", "Roche Holding AG"}, article.CompanyNames)

	assert.Equal(t, time.Date(2023, time.January, 15, 10, 15, 0, 0, time.UTC), article.PublishedAt)
	assert.Equal(t, "2023-01-15", article.PublishDate())
	assert.Equal(t, "10:15:00", article.PublishTime())
	assert.Equal(t, "de", article.Language)
}

func TestExtractBylineLastMatchWins(t *testing.T) {
	t.Parallel()

	raw := []byte(`<NewsML>
<FirstCreated>20240301T083000</FirstCreated>
<HeadLine>Titel</HeadLine>
<NewsLine><NewsLineType FormalName="ByLine"/><NewsLineText>Erster</NewsLineText></NewsLine>
<NewsLine><NewsLineType FormalName="ByLine"/><NewsLineText>Zweiter</NewsLineText></NewsLine>
<NewsLine><NewsLineType FormalName="ByLine"/><NewsLineText/></NewsLine>
<NewsLine><NewsLineType FormalName="CopyrightLine"/><NewsLineText>awp</NewsLineText></NewsLine>
<Language FormalName="fr"/>
<body.content><p>Text</p></body.content>
</NewsML>`)

	article, err := extractDoc(t, raw)
	require.NoError(t, err)
	assert.True(t, article.HasByline)
	assert.Equal(t, "Zweiter", article.Byline)
}

func TestExtractWithoutByline(t *testing.T) {
	t.Parallel()

	article, err := extractDoc(t, newsmltest.Doc{Headline: "Titel", Body: "<p>Text</p>"}.Bytes())
	require.NoError(t, err)
	assert.False(t, article.HasByline)
	assert.Empty(t, article.Byline)
	assert.Empty(t, article.Wires)
}

func TestExtractBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		want       string
		table      bool
		paragraphs int
		firstChars int
	}{
		{
			name: "empty body",
			body: "",
		},
		{
			name:       "leading empty paragraph becomes separator",
			body:       "<p/><p>Eins</p>",
			want:       "\n\nEins",
			paragraphs: 1,
			firstChars: 6,
		},
		{
			name:       "consecutive empty paragraphs collapse",
			body:       "<p>Eins</p><p/><p></p><p/><p>Zwei</p>",
			want:       "Eins\n\nZwei",
			paragraphs: 2,
			firstChars: 4,
		},
		{
			name:       "headings append without separator",
			body:       "<h3>Titel</h3><p>Text</p>",
			want:       "TitelText",
			paragraphs: 2,
			firstChars: 5,
		},
		{
			name:       "pre marks table without text",
			body:       "<p>Kurs</p><pre>A  1\nB  2</pre>",
			want:       "Kurs",
			table:      true,
			paragraphs: 1,
			firstChars: 4,
		},
		{
			name:       "other elements ignored",
			body:       "<p>Eins</p><table><tr><td>x</td></tr></table><h2>Nein</h2>",
			want:       "Eins",
			paragraphs: 1,
			firstChars: 4,
		},
		{
			name:       "nested inline markup kept",
			body:       "<p>Gewinn <b>steigt</b> stark</p>",
			want:       "Gewinn steigt stark",
			paragraphs: 1,
			firstChars: 19,
		},
		{
			name:       "guillemets normalized",
			body:       "<p>Er sagte &lt;&lt;Ja&gt;&gt;</p>",
			want:       `Er sagte "Ja"`,
			paragraphs: 1,
			firstChars: 15,
		},
		{
			name:       "umlauts counted as characters",
			body:       "<p>Zürich</p>",
			want:       "Zürich",
			paragraphs: 1,
			firstChars: 6,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			article, err := extractDoc(t, newsmltest.Doc{Headline: "T", Body: tt.body}.Bytes())
			require.NoError(t, err)
			assert.Equal(t, tt.want, article.Body)
			assert.Equal(t, tt.table, article.TableContained)
			assert.Equal(t, tt.paragraphs, article.ParagraphCount)
			assert.Equal(t, tt.firstChars, article.FirstParagraphChars)
		})
	}
}

func TestExtractRemovesEmbeddedTable(t *testing.T) {
	t.Parallel()

	body := "<p>Die Kurse:</p><p/><p>[[SMI 11000\nSPI 14000\n</p><p/><p>SLI 1700]]</p><p/><p>Ende</p>"
	article, err := extractDoc(t, newsmltest.Doc{Headline: "T", Body: body}.Bytes())
	require.NoError(t, err)

	assert.True(t, article.TableContained)
	assert.NotContains(t, article.Body, "[[")
	assert.NotContains(t, article.Body, "SMI")
	assert.NotContains(t, article.Body, "SLI")
	assert.Equal(t, "Die Kurse:\n\n\n\nEnde", article.Body)
}

func TestExtractKeepsUnclosedBrackets(t *testing.T) {
	t.Parallel()

	article, err := extractDoc(t, newsmltest.Doc{Headline: "T", Body: "<p>a ]] b [[ c</p>"}.Bytes())
	require.NoError(t, err)
	assert.False(t, article.TableContained)
	assert.Equal(t, "a ]] b [[ c", article.Body)
}

func TestExtractParagraphInvariant(t *testing.T) {
	t.Parallel()

	bodies := []string{
		"",
		"<p/>",
		"<p/><p/>",
		"<pre>x</pre>",
		"<p>a</p>",
		"<p/><h3>b</h3>",
		"<p><b></b></p><p>c</p>",
		newsmltest.Paragraphs("eins", "zwei", "drei"),
	}
	for _, body := range bodies {
		article, err := extractDoc(t, newsmltest.Doc{Headline: "T", Body: body}.Bytes())
		require.NoError(t, err, body)
		assert.Equal(t, article.ParagraphCount == 0, article.FirstParagraphChars == 0, body)
	}
}

func TestExtractErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{
			name:  "missing body.content",
			raw:   string(newsmltest.Doc{Headline: "T", OmitBody: true}.Bytes()),
			field: "body.content",
		},
		{
			name:  "missing headline",
			raw:   `<NewsML><FirstCreated>20240301T083000</FirstCreated><Language FormalName="de"/><body.content/></NewsML>`,
			field: "HeadLine",
		},
		{
			name:  "empty headline",
			raw:   `<NewsML><HeadLine/><FirstCreated>20240301T083000</FirstCreated><Language FormalName="de"/><body.content/></NewsML>`,
			field: "HeadLine",
		},
		{
			name:  "missing language",
			raw:   `<NewsML><HeadLine>T</HeadLine><FirstCreated>20240301T083000</FirstCreated><body.content/></NewsML>`,
			field: "Language",
		},
		{
			name:  "missing first created",
			raw:   `<NewsML><HeadLine>T</HeadLine><Language FormalName="de"/><body.content/></NewsML>`,
			field: "FirstCreated",
		},
		{
			name:  "short timestamp",
			raw:   `<NewsML><HeadLine>T</HeadLine><FirstCreated>20240301</FirstCreated><Language FormalName="de"/><body.content/></NewsML>`,
			field: "FirstCreated",
		},
		{
			name:  "invalid timestamp",
			raw:   `<NewsML><HeadLine>T</HeadLine><FirstCreated>20241301T083000</FirstCreated><Language FormalName="de"/><body.content/></NewsML>`,
			field: "FirstCreated",
		},
		{
			name:  "wire without value",
			raw:   `<NewsML><HeadLine>T</HeadLine><FirstCreated>20240301T083000</FirstCreated><Language FormalName="de"/><Property FormalName="Wire"/><body.content/></NewsML>`,
			field: "Property Wire",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := extractDoc(t, []byte(tt.raw))
			var extractionErr *domain.ExtractionError
			require.True(t, errors.As(err, &extractionErr), "got %v", err)
			assert.Equal(t, tt.field, extractionErr.Field)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"   ",
		"<NewsML><HeadLine>T</NewsML>",
		"<NewsML><p>unterminated",
		"just text",
	}
	for _, in := range inputs {
		_, err := ParseBytes([]byte(in))
		var parseErr *domain.ParseError
		assert.True(t, errors.As(err, &parseErr), "input %q: got %v", in, err)
	}
}

func TestParseDropsCommentsAndKeepsCDATA(t *testing.T) {
	t.Parallel()

	doc, err := Parse(strings.NewReader(`<root><!-- note --><p><![CDATA[a < b]]></p></root>`))
	require.NoError(t, err)
	require.Len(t, doc.Root.Children, 1)

	p, ok := doc.First("p")
	require.True(t, ok)
	assert.Equal(t, "a < b", p.InnerText())
}
