package prompt

import (
	"strings"
	"testing"

	"github.com/arnavshah/shift-roster-ai/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"google.golang.org/genai"
)

func sampleInput() models.FormInput {
	return models.FormInput{
		Personnel: []models.Person{
			{ID: "1", Name: "Alice Tan"},
			{ID: "2", Name: "Bongkot R."},
			{ID: "3", Name: "Chai"},
		},
		Shifts: []models.ShiftType{
			{ID: "s1", Name: "Early"},
			{ID: "s2", Name: "Late"},
		},
		Constraints: "- no more than two shifts in a row",
		Dates:       models.DateRange{Start: "2024-03-01", End: "2024-03-07"},
	}
}

func TestBuild_EmbedsEveryNameOnce(t *testing.T) {
	in := sampleInput()
	for _, lang := range []language.Tag{language.English, language.Thai} {
		p := Build(in, lang)

		for _, name := range in.PersonnelNames() {
			assert.Equal(t, 1, strings.Count(p, name), "personnel %q in %s prompt", name, lang)
		}
		for _, name := range in.ShiftNames() {
			assert.Equal(t, 1, strings.Count(p, name), "shift %q in %s prompt", name, lang)
		}
		assert.Contains(t, p, "2024-03-01")
		assert.Contains(t, p, "2024-03-07")
	}
}

func TestBuild_JoinsNamesWithComma(t *testing.T) {
	p := Build(sampleInput(), language.English)
	assert.Contains(t, p, "Alice Tan, Bongkot R., Chai")
	assert.Contains(t, p, "Early, Late")
}

func TestBuild_ConstraintsVerbatim(t *testing.T) {
	in := sampleInput()
	in.Constraints = "<b>{{not a template}}</b> %s %d"
	p := Build(in, language.English)
	assert.Contains(t, p, in.Constraints)
}

func TestBuild_IsPure(t *testing.T) {
	in := sampleInput()
	assert.Equal(t, Build(in, language.English), Build(in, language.English))
	assert.Equal(t, Build(in, language.Thai), Build(in, language.Thai))
}

func TestBuild_RulesByLanguage(t *testing.T) {
	in := sampleInput()
	assert.Contains(t, Build(in, language.English), "night shift of the previous day")
	assert.Contains(t, Build(in, language.Thai), "กะดึกในวันก่อนหน้า")
	// unsupported languages use the English wording
	assert.Equal(t, Build(in, language.English), Build(in, language.French))
}

func TestSchema(t *testing.T) {
	s := Schema()
	require.Equal(t, genai.TypeArray, s.Type)
	require.NotNil(t, s.Items)
	assert.ElementsMatch(t, []string{"date", "shifts"}, s.Items.Required)
	assert.Equal(t, genai.TypeString, s.Items.Properties["date"].Type)

	shifts := s.Items.Properties["shifts"]
	require.Equal(t, genai.TypeArray, shifts.Type)
	assert.ElementsMatch(t, []string{"shiftName", "personnel"}, shifts.Items.Required)
	assert.Equal(t, genai.TypeString, shifts.Items.Properties["shiftName"].Type)
	assert.Equal(t, genai.TypeArray, shifts.Items.Properties["personnel"].Type)
	assert.Equal(t, genai.TypeString, shifts.Items.Properties["personnel"].Items.Type)
}
