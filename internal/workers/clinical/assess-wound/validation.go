package assesswound

import "woundcare-workers/internal/common/validation"

func scoreField(description string) validation.Property {
	return validation.Property{Type: "integer", Description: description}
}

func textField(description string) validation.Property {
	return validation.Property{Type: "string", Description: description, MaxLength: validation.IntPtr(2000)}
}

// GetInputSchema describes the job variables. Numeric components may be
// missing; when present they must be whole numbers.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"patientId":  {Type: "string", MaxLength: validation.IntPtr(128)},
			"woundId":    {Type: "string", MaxLength: validation.IntPtr(128)},
			"tissueType": {Type: []string{"string", "null"}, MaxLength: validation.IntPtr(64)},
			"ruleTable":  {Type: []string{"string", "null"}, MaxLength: validation.IntPtr(64)},
			"parameters": {
				Type: "object",
				Properties: map[string]validation.Property{
					"size":                  scoreField("Wound dimension points"),
					"depth":                 scoreField("Depth or tissue involvement points"),
					"edges":                 scoreField("Wound edge points"),
					"tissueType":            scoreField("Wound bed tissue points"),
					"exudate":               scoreField("Exudate points"),
					"infectionInflammation": scoreField("Infection and inflammation points"),
					"tissueDescription":     textField("Free-text wound bed description"),
					"exudateDescription":    textField("Free-text exudate description"),
					"edgesDescription":      textField("Free-text edge description"),
				},
			},
		},
	}
}
