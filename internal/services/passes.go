package services

// SchemaPass is one independent structured-extraction request: a fixed
// system instruction describing the expected JSON shape, a response
// budget, and a decoding temperature. Passes never depend on each
// other's outputs.
type SchemaPass struct {
	Name        string
	System      string
	MaxTokens   int32
	Temperature float32
}

// SchemaPasses returns the statically defined passes. personal_info
// contributes its top-level fields directly to the merged record; the
// other three contribute a single named key each.
func SchemaPasses() []SchemaPass {
	return []SchemaPass{
		{
			Name:        "personal_info",
			MaxTokens:   1024,
			Temperature: 0.1,
			System: `You are a CV parser. Extract all personal information from the document. If the document does not mention a required piece of information, leave that field empty. Find only personal links in the document. Output only JSON, no explanation.

JSON Format
{
  "first_name": "",
  "last_name": "",
  "title": "",
  "contact": {
    "phone": "",
    "email": "",
    "location": "",
    "links": {
      "title": "url"
    }
  },
  "summary": "",
  "education": [
    {
      "degree": "",
      "field": "",
      "institution": "",
      "start_date": "yyyy-mm",
      "end_date": "yyyy-mm"
    }
  ],
  "certifications": [
    {
      "name": "",
      "issuer": "",
      "date": ""
    }
  ],
  "internship_volunteering": [
    {
      "involvement": "",
      "organization": "",
      "description": "",
      "start_date": "yyyy-mm",
      "end_date": "yyyy-mm"
    }
  ],
  "languages_spoken": [
    {
      "language": "",
      "level": "'A1'|'A2'|'B1'|'B2'|'C1'|'C2'"
    }
  ]
}`,
		},
		{
			Name:        "experience",
			MaxTokens:   8192,
			Temperature: 0.1,
			System: `Extract all work experience information from the document. If a field has no corresponding information, leave it empty. Output only JSON, no explanation.

JSON Format
{
  "experience": [
    {
      "title": "",
      "company": "",
      "location": "",
      "type": "",
      "start_date": "yyyy-mm",
      "end_date": "yyyy-mm",
      "summary": "",
      "description": []
    }
  ]
}`,
		},
		{
			Name:        "projects",
			MaxTokens:   8192,
			Temperature: 0.1,
			System: `Extract all project information from the document, not work experience. If there is no information about projects, fill [] in that field. Output only JSON, no explanation.

JSON Format
{
  "projects": [
    {
      "project_name": "",
      "organization": "",
      "start_date": "yyyy-mm",
      "end_date": "yyyy-mm",
      "description": ""
    }
  ]
}`,
		},
		{
			Name:        "skills",
			MaxTokens:   8192,
			Temperature: 0.0,
			System: `Extract only tech-skill information from the document. If there is no such information, fill {} in that field. Output only JSON, no explanation.

JSON Format
{
  "skills": {
    "category": "category_name",
    "skills": ["skill1", "skill2"],
    "level": "'Beginner'|'Intermediate'|'Advanced'|'Expert'"
  }
}`,
		},
	}
}

// BuildUserMessage wraps the assembled payload for every pass.
func BuildUserMessage(payload string) string {
	return "Here is the content of the document:\n" + payload
}
