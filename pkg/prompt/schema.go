package prompt

import "google.golang.org/genai"

// Schema describes the JSON the model must return: an array of days, each
// with a date and the personnel of every shift.
func Schema() *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: "Duty roster for medical personnel",
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"date": {
					Type:        genai.TypeString,
					Description: "Date in YYYY-MM-DD format",
				},
				"shifts": {
					Type:        genai.TypeArray,
					Description: "Shifts of that day",
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"shiftName": {
								Type:        genai.TypeString,
								Description: "Shift name, one of the requested shift types",
							},
							"personnel": {
								Type:        genai.TypeArray,
								Description: "Names of the personnel assigned to this shift",
								Items:       &genai.Schema{Type: genai.TypeString},
							},
						},
						Required: []string{"shiftName", "personnel"},
					},
				},
			},
			Required: []string{"date", "shifts"},
		},
	}
}
